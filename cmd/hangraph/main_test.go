package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func loggerApp() *cli.App {
	return &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, tc := range []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		} {
			t.Run(tc.input, func(t *testing.T) {
				err := loggerApp().Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				err := loggerApp().Run([]string{"test", "-l", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := loggerApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestServiceFlags(t *testing.T) {
	flags := serviceFlags()

	byName := make(map[string]cli.Flag, len(flags))
	for _, flag := range flags {
		byName[flag.Names()[0]] = flag
	}

	dbFlag, ok := byName["db"].(*cli.StringFlag)
	require.True(t, ok)
	assert.True(t, dbFlag.Required)
	assert.Contains(t, dbFlag.Aliases, "d")

	hostFlag, ok := byName["embedding-host"].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)

	neo4jFlag, ok := byName["neo4j-uri"].(*cli.StringFlag)
	require.True(t, ok)
	assert.Empty(t, neo4jFlag.Value, "empty default keeps the in-process graph")
}

func TestReembedCommand_RequiredFlags(t *testing.T) {
	app := &cli.App{
		Name: "hangraph",
		Commands: []*cli.Command{
			{
				Name:   "reembed",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "embedding-model", Required: true},
				},
			},
		},
	}

	err := app.Run([]string{"hangraph", "reembed", "--db", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding-model")
}
