// Package service drives the batch generation pipeline: enumerate eligible
// products, group them into batches, call the generation service under a
// rate budget, validate and persist results, and keep the ledger durable.
package service

import (
	"context"
	"time"

	"github.com/digitech/seogen/internal/domain"
	"github.com/digitech/seogen/internal/generator"
	"github.com/digitech/seogen/internal/logger"
	"github.com/digitech/seogen/internal/repository"
	"github.com/digitech/seogen/internal/validator"
)

// ProductSource enumerates eligible catalog records in stable order.
type ProductSource interface {
	ListEligible(ctx context.Context, f repository.Filter, exclude []string) ([]domain.Product, error)
}

// Generator produces the derived fields for one batch in one blocking call.
type Generator interface {
	Generate(ctx context.Context, items []generator.ItemDescriptor) ([]generator.FieldSet, error)
	Model() string
}

// ResultWriter applies validated fields for one product atomically.
type ResultWriter interface {
	Apply(ctx context.Context, id string, fields domain.GeneratedFields) error
}

// LedgerFlusher persists ledger state between batches.
type LedgerFlusher interface {
	Flush(l *domain.Ledger) error
}

// StoreWriter is the production ResultWriter backed by the record store.
type StoreWriter struct {
	repo *repository.ProductRepository
}

// NewStoreWriter creates a writer that persists to the product repository.
func NewStoreWriter(repo *repository.ProductRepository) *StoreWriter {
	return &StoreWriter{repo: repo}
}

// Apply writes all generated fields for one product as a single update.
func (w *StoreWriter) Apply(ctx context.Context, id string, fields domain.GeneratedFields) error {
	return w.repo.UpdateGenerated(ctx, id, fields)
}

// Options holds configuration for the run service.
type Options struct {
	BatchSize    int
	MinInterval  time.Duration // throttle floor between generation calls
	RetryCount   int           // rate-limited re-attempts per batch
	RetryBackoff time.Duration // base sleep after a rate-limited attempt
	Limits       validator.Limits
}

// RunService orchestrates one batch generation run.
type RunService struct {
	source   ProductSource
	gen      Generator
	writer   ResultWriter
	flusher  LedgerFlusher
	ledger   *domain.Ledger
	logger   *logger.Logger
	throttle *throttle

	batchSize    int
	retryCount   int
	retryBackoff time.Duration
	limits       validator.Limits
}

// NewRunService creates a new run service.
func NewRunService(
	source ProductSource,
	gen Generator,
	writer ResultWriter,
	flusher LedgerFlusher,
	led *domain.Ledger,
	log *logger.Logger,
	opts *Options,
) *RunService {
	if opts == nil {
		opts = &Options{}
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	backoff := opts.RetryBackoff
	if backoff == 0 {
		backoff = 2 * time.Second
	}
	return &RunService{
		source:       source,
		gen:          gen,
		writer:       writer,
		flusher:      flusher,
		ledger:       led,
		logger:       log,
		throttle:     newThrottle(opts.MinInterval),
		batchSize:    batchSize,
		retryCount:   opts.RetryCount,
		retryBackoff: backoff,
		limits:       opts.Limits,
	}
}

// log returns a logger from context if available, otherwise the service logger.
func (s *RunService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}
