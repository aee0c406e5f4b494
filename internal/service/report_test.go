package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/digitech/seogen/internal/domain"
)

func TestReport(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	stats := &RunStats{
		TotalItems:     5,
		ProcessedItems: 4,
		FailedItems:    1,
		Calls:          2,
		StartTime:      start,
		EndTime:        start.Add(1500 * time.Millisecond),
	}
	led := domain.NewLedger()
	led.MarkFailed("p03", "timeout: request timed out")

	var out strings.Builder
	Report(&out, stats, led)

	got := out.String()
	assert.Contains(t, got, "Processed:  4")
	assert.Contains(t, got, "Failed:     1")
	assert.Contains(t, got, "API calls:  2")
	assert.Contains(t, got, "Elapsed:    1.5s")
	assert.Contains(t, got, "p03: timeout: request timed out")
	assert.Contains(t, got, "Run the command again to retry failed items.")
}

func TestReportNoFailuresOmitsRetryHint(t *testing.T) {
	var out strings.Builder
	Report(&out, &RunStats{ProcessedItems: 3, TotalItems: 3}, domain.NewLedger())

	assert.NotContains(t, out.String(), "Failed items:")
	assert.NotContains(t, out.String(), "retry")
}
