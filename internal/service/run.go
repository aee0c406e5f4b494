package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digitech/seogen/internal/domain"
	"github.com/digitech/seogen/internal/generator"
	"github.com/digitech/seogen/internal/logger"
	"github.com/digitech/seogen/internal/repository"
	"github.com/digitech/seogen/internal/validator"
)

// RunStats holds statistics for one generation run.
type RunStats struct {
	TotalItems     int
	ProcessedItems int
	FailedItems    int
	Calls          int
	StartTime      time.Time
	EndTime        time.Time
}

// Run executes the full pipeline: enumerate, batch, generate, validate,
// persist, flush the ledger after every batch. A batch or item failure is
// recorded and the run continues; only enumeration failures abort.
// Parameters:
//   - ctx: context for cancellation; safe to cancel at any point.
//   - f: enumeration filter (category/skip/limit).
//
// Returns:
//   - *RunStats: aggregate counts and timing for the run.
//   - error: non-nil only for fatal errors (unreachable source, ledger I/O).
func (s *RunService) Run(ctx context.Context, f repository.Filter) (*RunStats, error) {
	stats := &RunStats{StartTime: time.Now()}

	products, err := s.source.ListEligible(ctx, f, s.ledger.ProcessedIDs())
	if err != nil {
		return nil, fmt.Errorf("enumeration failed: %w", err)
	}
	stats.TotalItems = len(products)

	s.ledger.Begin(len(products), time.Now())
	if err := s.flusher.Flush(s.ledger); err != nil {
		return nil, fmt.Errorf("failed to flush ledger: %w", err)
	}

	batches := domain.Partition(products, s.batchSize)
	s.log(ctx).WithFields(logger.Fields{
		"total":   len(products),
		"batches": len(batches),
		"model":   s.gen.Model(),
	}).Info("Starting generation run")

	interrupted := false
	for i, batch := range batches {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		bctx := logger.WithField(ctx, logger.FieldBatch, i+1)
		s.log(bctx).WithField(logger.FieldCount, len(batch)).Info("Batch started")

		results, err := s.generateWithRetry(bctx, batch, stats)
		if err != nil {
			if ctx.Err() != nil {
				// Interrupt mid-call: leave the in-flight batch pending so
				// the next run picks it up.
				interrupted = true
				break
			}
			reason := failureReason(err)
			for _, p := range batch {
				s.ledger.MarkFailed(p.ProductID, reason)
			}
			stats.FailedItems += len(batch)
			s.log(bctx).WithError(err).Error("Batch failed")
			if err := s.flusher.Flush(s.ledger); err != nil {
				return nil, fmt.Errorf("failed to flush ledger: %w", err)
			}
			continue
		}

		for j, p := range batch {
			s.processItem(bctx, p, results[j], stats)
		}

		s.log(bctx).WithFields(logger.Fields{
			"processed": stats.ProcessedItems,
			"failed":    stats.FailedItems,
		}).Info("Batch completed")

		if err := s.flusher.Flush(s.ledger); err != nil {
			return nil, fmt.Errorf("failed to flush ledger: %w", err)
		}
	}

	if !interrupted {
		s.ledger.Complete(time.Now())
		if err := s.flusher.Flush(s.ledger); err != nil {
			return nil, fmt.Errorf("failed to flush ledger: %w", err)
		}
	}

	stats.EndTime = time.Now()
	s.log(ctx).WithFields(logger.Fields{
		"total":     stats.TotalItems,
		"processed": stats.ProcessedItems,
		"failed":    stats.FailedItems,
		"calls":     stats.Calls,
		"duration":  stats.EndTime.Sub(stats.StartTime).String(),
	}).Info("Run completed")

	return stats, nil
}

// processItem validates and persists one result, recording the outcome in
// the ledger. Failures here are isolated to the single item.
func (s *RunService) processItem(ctx context.Context, p domain.Product, raw generator.FieldSet, stats *RunStats) {
	ictx := logger.WithField(ctx, logger.FieldProductID, p.ProductID)

	fields, err := validator.Validate(raw, s.limits)
	if err != nil {
		s.ledger.MarkFailed(p.ProductID, err.Error())
		stats.FailedItems++
		s.log(ictx).WithError(err).Warn("Validation rejected item")
		return
	}

	if err := s.writer.Apply(ctx, p.ProductID, fields); err != nil {
		s.ledger.MarkFailed(p.ProductID, fmt.Sprintf("persistence: %v", err))
		stats.FailedItems++
		s.log(ictx).WithError(err).Error("Failed to persist item")
		return
	}

	s.ledger.MarkProcessed(p.ProductID)
	stats.ProcessedItems++
	s.log(ictx).Debug("Item processed")
}

// generateWithRetry calls the adapter for one batch, honoring the throttle
// before every attempt and the per-kind retry policy: rate limits back off
// and retry up to the configured count, timeouts retry once, everything
// else fails immediately.
func (s *RunService) generateWithRetry(ctx context.Context, batch []domain.Product, stats *RunStats) ([]generator.FieldSet, error) {
	descriptors := make([]generator.ItemDescriptor, len(batch))
	for i, p := range batch {
		descriptors[i] = generator.ItemDescriptor{
			ProductID: p.ProductID,
			Name:      p.Name,
			Brand:     p.Brand,
			Category:  p.Category,
		}
	}

	attempt := 0
	for {
		if err := s.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		stats.Calls++
		results, err := s.gen.Generate(ctx, descriptors)
		if err == nil {
			return results, nil
		}

		var f *generator.Failure
		if !errors.As(err, &f) {
			return nil, err
		}

		switch f.Kind {
		case generator.FailureRateLimited:
			if attempt >= s.retryCount {
				return nil, f
			}
			backoff := s.retryBackoff * time.Duration(attempt+1)
			s.log(ctx).WithFields(logger.Fields{
				"attempt": attempt + 1,
				"backoff": backoff.String(),
			}).Warn("Rate limited, backing off")
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
		case generator.FailureTimeout:
			if attempt >= 1 {
				return nil, f
			}
			s.log(ctx).Warn("Generation call timed out, retrying once")
		default:
			return nil, f
		}
		attempt++
	}
}

// failureReason renders the ledger reason string for a batch-level error.
func failureReason(err error) string {
	var f *generator.Failure
	if errors.As(err, &f) {
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	}
	return err.Error()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
