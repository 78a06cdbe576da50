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


// Package kiwi provides an nlp.Tokenizer backed by a Kiwi-compatible Korean
// morphological analysis server over HTTP.
package kiwi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/nlp"
)

const (
	// DefaultBaseURL is the analyzer server address used when none is
	// configured.
	DefaultBaseURL = "http://localhost:8080"

	tokenizePath   = "/v1/tokenize"
	dictionaryPath = "/v1/dictionary"

	defaultTimeout = 10 * time.Second
)

// UserWord is a custom vocabulary entry registered with the analyzer so that
// domain terms tokenize as single units instead of being split.
type UserWord struct {
	Form  string   `json:"form"`
	Tag   core.Tag `json:"tag"`
	Score float32  `json:"score"`
}

// DefaultUserWords is the fixed custom-vocabulary list loaded at startup.
// These are domain terms (menu items, places, clock times) the base model
// would otherwise split into fragments.
var DefaultUserWords = []UserWord{
	{Form: "아아", Tag: nlp.TagNNP, Score: 2},
	{Form: "라떼", Tag: nlp.TagNNP, Score: 2},
	{Form: "자몽에이드", Tag: nlp.TagNNP, Score: 2},
	{Form: "레몬에이드", Tag: nlp.TagNNP, Score: 2},
	{Form: "에이드", Tag: nlp.TagNNP, Score: 2},
	{Form: "바닐라크림콜드브루", Tag: nlp.TagNNP, Score: 2},
	{Form: "오늘", Tag: nlp.TagNNP, Score: 2},
	{Form: "쌀국수", Tag: nlp.TagNNP, Score: 2},
	{Form: "물냉면", Tag: nlp.TagNNP, Score: 2},
	{Form: "비빔냉면", Tag: nlp.TagNNP, Score: 2},
	{Form: "놀이공원", Tag: nlp.TagNNP, Score: 2},
	{Form: "강남역", Tag: nlp.TagNNP, Score: 2},
	{Form: "역삼역", Tag: nlp.TagNNP, Score: 2},
	{Form: "화곡역", Tag: nlp.TagNNP, Score: 2},
	{Form: "삼성카드", Tag: nlp.TagNNP, Score: 2},
	{Form: "12시", Tag: nlp.TagNNP, Score: 2},
	{Form: "11시", Tag: nlp.TagNNP, Score: 2},
	{Form: "10시", Tag: nlp.TagNNP, Score: 2},
	{Form: "9시", Tag: nlp.TagNNP, Score: 2},
	{Form: "8시", Tag: nlp.TagNNP, Score: 2},
	{Form: "7시", Tag: nlp.TagNNP, Score: 2},
	{Form: "6시", Tag: nlp.TagNNP, Score: 2},
	{Form: "5시", Tag: nlp.TagNNP, Score: 2},
	{Form: "4시", Tag: nlp.TagNNP, Score: 2},
	{Form: "3시", Tag: nlp.TagNNP, Score: 2},
	{Form: "2시", Tag: nlp.TagNNP, Score: 2},
	{Form: "1시", Tag: nlp.TagNNP, Score: 2},
	{Form: "라지", Tag: nlp.TagNNP, Score: 2},
	{Form: "레귤러", Tag: nlp.TagNNP, Score: 2},
}

// Client is an nlp.Tokenizer talking to a Kiwi-compatible analysis server.
// The custom vocabulary is registered once at construction; the client holds
// no mutable state afterwards and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ nlp.Tokenizer = (*Client)(nil)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	userWords  []UserWord
	logger     *slog.Logger
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithUserWords replaces the default custom vocabulary.
// Pass an empty slice to register no custom words.
func WithUserWords(words []UserWord) Option {
	return func(o *clientOptions) {
		o.userWords = words
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewClient creates a tokenizer client and registers the custom vocabulary
// with the analysis server. Registration happens exactly once, here, under
// ctx; the returned client is immutable.
func NewClient(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("kiwi: base URL required")
	}

	options := &clientOptions{
		httpClient: &http.Client{Timeout: defaultTimeout},
		userWords:  DefaultUserWords,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: options.httpClient,
		logger:     options.logger.With("component", "kiwi-client"),
	}

	if len(options.userWords) > 0 {
		if err := c.registerUserWords(ctx, options.userWords); err != nil {
			return nil, fmt.Errorf("kiwi: registering user words: %w", err)
		}
		c.logger.Info("registered custom vocabulary", "words", len(options.userWords))
	}

	return c, nil
}

type dictionaryRequest struct {
	Words []UserWord `json:"words"`
}

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []struct {
		Form string `json:"form"`
		Tag  string `json:"tag"`
	} `json:"tokens"`
}

func (c *Client) registerUserWords(ctx context.Context, words []UserWord) error {
	body, err := json.Marshal(dictionaryRequest{Words: words})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+dictionaryPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dictionary request failed: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// Tokenize analyzes text and returns its tokens in original order.
func (c *Client) Tokenize(ctx context.Context, text string) ([]core.Token, error) {
	body, err := json.Marshal(tokenizeRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenizePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tokenize request failed", "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tokenize request failed: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var out tokenizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	tokens := make([]core.Token, len(out.Tokens))
	for i, token := range out.Tokens {
		tokens[i] = core.Token{Form: token.Form, Tag: core.Tag(token.Tag)}
	}
	return tokens, nil
}
