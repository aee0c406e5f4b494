package service

import (
	"context"
	"fmt"
	"io"

	"github.com/digitech/seogen/internal/domain"
	"github.com/digitech/seogen/internal/generator"
	"github.com/digitech/seogen/internal/repository"
	"github.com/digitech/seogen/internal/validator"
)

// DryRun previews a run without mutating anything: it enumerates the same
// set a real run would, prints the projected call count, and generates
// content for the first eligible item as a before/after sample. The ledger
// and the record store are never written.
// Parameters:
//   - ctx: context for cancellation.
//   - f: enumeration filter, identical to Run's.
//   - out: destination for the human-readable preview.
//
// Returns:
//   - *RunStats: enumeration counts (nothing processed or failed).
//   - error: non-nil for enumeration or sample-generation failures.
func (s *RunService) DryRun(ctx context.Context, f repository.Filter, out io.Writer) (*RunStats, error) {
	stats := &RunStats{}

	products, err := s.source.ListEligible(ctx, f, s.ledger.ProcessedIDs())
	if err != nil {
		return nil, fmt.Errorf("enumeration failed: %w", err)
	}
	stats.TotalItems = len(products)

	calls := domain.NumBatches(len(products), s.batchSize)

	fmt.Fprintf(out, "Dry run (no changes will be made)\n\n")
	fmt.Fprintf(out, "Products to process:  %d\n", len(products))
	fmt.Fprintf(out, "Already processed:    %d\n", len(s.ledger.Processed))
	fmt.Fprintf(out, "Failed previously:    %d\n", len(s.ledger.Failed))
	fmt.Fprintf(out, "Batch size:           %d\n", s.batchSize)
	fmt.Fprintf(out, "Projected API calls:  %d\n\n", calls)

	if len(products) == 0 {
		fmt.Fprintln(out, "Nothing to process.")
		return stats, nil
	}

	sample := products[0]
	fmt.Fprintf(out, "Sample product: %s\n\n", sample.ProductID)

	if err := s.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	stats.Calls++
	results, err := s.gen.Generate(ctx, []generator.ItemDescriptor{{
		ProductID: sample.ProductID,
		Name:      sample.Name,
		Brand:     sample.Brand,
		Category:  sample.Category,
	}})
	if err != nil {
		return nil, fmt.Errorf("sample generation failed: %w", err)
	}

	fields, err := validator.Validate(results[0], s.limits)
	if err != nil {
		fmt.Fprintf(out, "Sample result rejected by validation: %v\n", err)
		return stats, nil
	}

	printDiff(out, "NAME", sample.Name, fields.Title)
	printDiff(out, "DESCRIPTION", sample.Description, fields.Description)
	printDiff(out, "META DESCRIPTION", sample.MetaDescription, fields.MetaDescription)

	fmt.Fprintf(out, "Preview complete. A full run would update %d products with %d API calls.\n",
		len(products), calls)

	return stats, nil
}

func printDiff(out io.Writer, label, current, generated string) {
	if current == "" {
		current = "N/A"
	}
	fmt.Fprintf(out, "CURRENT %s (%d chars):\n  %s\n", label, len([]rune(current)), preview(current))
	fmt.Fprintf(out, "NEW %s (%d chars):\n  %s\n\n", label, len([]rune(generated)), generated)
}

// preview trims long current values so the diff stays readable.
func preview(s string) string {
	const max = 150
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
