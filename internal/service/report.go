package service

import (
	"fmt"
	"io"
	"time"

	"github.com/digitech/seogen/internal/domain"
)

// Report writes the end-of-run summary: aggregate counts, elapsed time and
// every failed identifier with its reason.
func Report(out io.Writer, stats *RunStats, led *domain.Ledger) {
	elapsed := stats.EndTime.Sub(stats.StartTime)

	fmt.Fprintf(out, "\nRun summary\n")
	fmt.Fprintf(out, "  Selected:   %d\n", stats.TotalItems)
	fmt.Fprintf(out, "  Processed:  %d\n", stats.ProcessedItems)
	fmt.Fprintf(out, "  Failed:     %d\n", stats.FailedItems)
	fmt.Fprintf(out, "  API calls:  %d\n", stats.Calls)
	fmt.Fprintf(out, "  Elapsed:    %s\n", elapsed.Round(time.Millisecond))

	if len(led.Failed) > 0 {
		fmt.Fprintf(out, "\nFailed items:\n")
		for _, f := range led.Failed {
			fmt.Fprintf(out, "  %s: %s\n", f.ProductID, f.Reason)
		}
		fmt.Fprintln(out, "\nRun the command again to retry failed items.")
	}
}
