// Copyright 2026 Hangraph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hangraph/hangraph"
	"github.com/hangraph/hangraph/ai"
	"github.com/hangraph/hangraph/ai/openai"
	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/nlp/kiwi"
	"github.com/hangraph/hangraph/reembed"
	"github.com/hangraph/hangraph/storage/badger"
	"github.com/hangraph/hangraph/transport/amqp"
)

func main() {
	app := &cli.App{
		Name:   "hangraph",
		Usage:  "Conversational archive and word-association graph builder",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Consume events from the queue and ingest them",
				Action: serveCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "amqp-url",
						Usage: "AMQP broker address",
						Value: amqp.DefaultURL,
					},
					&cli.StringFlag{
						Name:  "queue",
						Usage: "Queue to consume events from",
						Value: amqp.DefaultQueue,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of deliveries processed concurrently",
					},
				),
			},
			{
				Name:      "recall",
				Usage:     "Look up archived exchanges or word associations for a user",
				Action:    recallCommand,
				ArgsUsage: "<query text or word form>",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User ID to recall for",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "associations",
						Usage: "Treat the argument as a word form and list its associations",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 5,
					},
				),
			},
			{
				Name:      "publish",
				Usage:     "Publish one event to the ingestion queue",
				Action:    publishCommand,
				ArgsUsage: "<userID> <queryText> <responseText>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "amqp-url",
						Usage: "AMQP broker address",
						Value: amqp.DefaultURL,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all archive entries with a new embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB archive directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entries",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serviceFlags are shared by commands that open the full service.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB archive directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "kiwi-url",
			Usage: "Morphological analyzer server address",
			Value: kiwi.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:  "neo4j-uri",
			Usage: "Neo4j address (empty uses the in-process graph)",
		},
		&cli.StringFlag{
			Name:  "neo4j-user",
			Usage: "Neo4j username",
			Value: "neo4j",
		},
		&cli.StringFlag{
			Name:  "neo4j-password",
			Usage: "Neo4j password",
		},
	}
}

func openService(ctx context.Context, c *cli.Context) (*hangraph.Service, error) {
	opts := []hangraph.ServiceOption{
		hangraph.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
		)),
		hangraph.WithKiwiURL(c.String("kiwi-url")),
	}
	if uri := c.String("neo4j-uri"); uri != "" {
		opts = append(opts, hangraph.WithNeo4j(uri, c.String("neo4j-user"), c.String("neo4j-password")))
	}

	service, err := hangraph.NewService(ctx, c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open service: %w", err)
	}
	return service, nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := openService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	config := amqp.DefaultConfig(
		amqp.WithURL(c.String("amqp-url")),
		amqp.WithQueue(c.String("queue")),
		amqp.WithWorkers(c.Int("workers")),
	)
	consumer, err := amqp.NewConsumer(config, func(ctx context.Context, event *core.Event) error {
		_, err := pipeline.Ingest(ctx, event)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("consumer stopped: %w", err)
	}
	return nil
}

func recallCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one argument, got %d", c.NArg())
	}
	ctx := context.Background()

	service, err := openService(ctx, c)
	if err != nil {
		return err
	}
	defer service.Close()

	recaller, err := service.NewRecaller()
	if err != nil {
		return fmt.Errorf("failed to build recaller: %w", err)
	}

	userID := c.String("user")
	limit := c.Int("limit")
	argument := c.Args().First()

	if c.Bool("associations") {
		associations, err := recaller.Associations(ctx, userID, argument, limit)
		if err != nil {
			return err
		}
		if len(associations) == 0 {
			fmt.Println("no associations found")
			return nil
		}
		for _, assoc := range associations {
			fmt.Printf("%s -> %s (%s, seen %d times)\n",
				assoc.Source.Form, assoc.Target.Form, assoc.Target.Category, assoc.Frequency)
		}
		return nil
	}

	matches, err := recaller.Exchanges(ctx, userID, argument, limit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no archived exchanges found")
		return nil
	}
	for _, match := range matches {
		fmt.Printf("[%.3f] Q: %s\n        A: %s\n", match.Score, match.Entry.QueryText, match.Entry.ResponseText)
	}
	return nil
}

func publishCommand(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("expected <userID> <queryText> <responseText>, got %d arguments", c.NArg())
	}

	config := amqp.DefaultConfig(amqp.WithURL(c.String("amqp-url")))
	publisher, err := amqp.NewPublisher(config)
	if err != nil {
		return fmt.Errorf("failed to connect publisher: %w", err)
	}
	defer publisher.Close()

	event := &core.Event{
		UserID:       c.Args().Get(0),
		QueryText:    c.Args().Get(1),
		ResponseText: c.Args().Get(2),
	}
	if err := publisher.Publish(context.Background(), event); err != nil {
		return err
	}
	fmt.Println("event published")
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	archive, err := badger.NewArchiveRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer archive.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(archive, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
