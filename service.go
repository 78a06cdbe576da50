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


package hangraph

import (
	"context"
	"log/slog"

	"github.com/hangraph/hangraph/ai"
	"github.com/hangraph/hangraph/ai/openai"
	"github.com/hangraph/hangraph/ingestion"
	"github.com/hangraph/hangraph/nlp"
	"github.com/hangraph/hangraph/nlp/kiwi"
	"github.com/hangraph/hangraph/recall"
	"github.com/hangraph/hangraph/storage"
	"github.com/hangraph/hangraph/storage/badger"
	"github.com/hangraph/hangraph/storage/memory"
	"github.com/hangraph/hangraph/storage/neo4j"
)

// Service wires the archive, graph store, embedder and tokenizer into one
// handle the binaries build pipelines and recallers from.
type Service struct {
	backend   *badger.Backend
	archive   storage.ArchiveRepository
	graph     storage.GraphStore
	embedder  ai.Embedder
	tokenizer nlp.Tokenizer
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig  *ai.Config
	cacheSize int
	kiwiURL   string
	neo4jURI  string
	neo4jUser string
	neo4jPass string
	logger    *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbeddingCache enables an in-process LRU over the embedder with the
// given capacity. Zero disables caching.
func WithEmbeddingCache(size int) ServiceOption {
	return func(o *serviceOptions) {
		o.cacheSize = size
	}
}

// WithKiwiURL sets the morphological analyzer server address.
func WithKiwiURL(url string) ServiceOption {
	return func(o *serviceOptions) {
		o.kiwiURL = url
	}
}

// WithNeo4j routes graph writes to a Neo4j instance instead of the default
// in-process graph.
func WithNeo4j(uri, username, password string) ServiceOption {
	return func(o *serviceOptions) {
		o.neo4jURI = uri
		o.neo4jUser = username
		o.neo4jPass = password
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService opens the archive at filePath and connects the configured
// tokenizer, embedder and graph store.
func NewService(ctx context.Context, filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:  ai.DefaultConfig(),
		cacheSize: 1024,
		kiwiURL:   kiwi.DefaultBaseURL,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	archive, err := badger.NewArchiveRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		archive.Close()
		backend.Close()
		return nil, err
	}
	if options.cacheSize > 0 {
		embedder, err = ai.NewCachingEmbedder(embedder, options.cacheSize)
		if err != nil {
			archive.Close()
			backend.Close()
			return nil, err
		}
	}

	tokenizer, err := kiwi.NewClient(ctx, options.kiwiURL, kiwi.WithLogger(options.logger))
	if err != nil {
		archive.Close()
		backend.Close()
		return nil, err
	}

	var graph storage.GraphStore
	if options.neo4jURI != "" {
		graph, err = neo4j.NewGraphStore(ctx, options.neo4jURI, options.neo4jUser, options.neo4jPass,
			neo4j.WithLogger(options.logger))
		if err != nil {
			archive.Close()
			backend.Close()
			return nil, err
		}
	} else {
		graph = memory.NewGraphStore()
	}

	return &Service{
		backend:   backend,
		archive:   archive,
		graph:     graph,
		embedder:  embedder,
		tokenizer: tokenizer,
		logger:    options.logger,
	}, nil
}

// Archive returns the archive repository.
func (s *Service) Archive() storage.ArchiveRepository {
	return s.archive
}

// Graph returns the graph store.
func (s *Service) Graph() storage.GraphStore {
	return s.graph
}

// Embedder returns the embedder.
func (s *Service) Embedder() ai.Embedder {
	return s.embedder
}

// Tokenizer returns the tokenizer.
func (s *Service) Tokenizer() nlp.Tokenizer {
	return s.tokenizer
}

// NewIngestionPipeline builds a pipeline over the service's components.
func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.archive, s.graph, s.embedder, s.tokenizer, opts...)
}

// NewRecaller builds a recaller over the service's components.
func (s *Service) NewRecaller(opts ...recall.Option) (*recall.Recaller, error) {
	return recall.NewRecaller(s.archive, s.graph, s.embedder, opts...)
}

// Close releases the graph store, repositories and backend.
func (s *Service) Close() error {
	if err := s.graph.Close(); err != nil {
		s.logger.Error("error closing graph store", "err", err)
	}
	if err := s.archive.Close(); err != nil {
		s.logger.Error("error closing archive repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
