package domain

import (
	"testing"
	"time"
)

func TestLedgerBeginTotals(t *testing.T) {
	testCases := []struct {
		name      string
		processed []string
		selected  int
		wantTotal int
	}{
		{
			name:      "fresh run",
			processed: nil,
			selected:  12,
			wantTotal: 12,
		},
		{
			name:      "resume counts completed plus selected",
			processed: []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"},
			selected:  5,
			wantTotal: 12,
		},
		{
			name:      "nothing left",
			processed: []string{"p1", "p2"},
			selected:  0,
			wantTotal: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			led := NewLedger()
			led.Processed = append(led.Processed, tc.processed...)
			led.Begin(tc.selected, time.Now())
			if led.Total != tc.wantTotal {
				t.Errorf("Total = %d, want %d", led.Total, tc.wantTotal)
			}
		})
	}
}

func TestLedgerBeginPreservesStart(t *testing.T) {
	led := NewLedger()
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	led.Begin(3, first)
	if led.StartedAt == nil || !led.StartedAt.Equal(first) {
		t.Fatalf("StartedAt = %v, want %v", led.StartedAt, first)
	}

	led.Complete(first.Add(time.Minute))
	led.Begin(2, second)
	if !led.StartedAt.Equal(first) {
		t.Errorf("StartedAt changed on resume: %v", led.StartedAt)
	}
	if led.CompletedAt != nil {
		t.Errorf("CompletedAt not cleared on resume: %v", led.CompletedAt)
	}
}

func TestLedgerProcessedAndFailedDisjoint(t *testing.T) {
	led := NewLedger()

	led.MarkFailed("p1", "timeout: upstream slow")
	led.MarkProcessed("p1")

	if !led.IsProcessed("p1") {
		t.Error("p1 should be processed")
	}
	if len(led.Failed) != 0 {
		t.Errorf("Failed should be empty after success, got %v", led.Failed)
	}

	// A completed id never moves back to failed.
	led.MarkFailed("p1", "rate_limited: try later")
	if len(led.Failed) != 0 {
		t.Errorf("processed id re-entered Failed: %v", led.Failed)
	}
}

func TestLedgerMarkProcessedIdempotent(t *testing.T) {
	led := NewLedger()
	led.MarkProcessed("p1")
	led.MarkProcessed("p1")
	if len(led.Processed) != 1 {
		t.Errorf("Processed = %v, want single entry", led.Processed)
	}
}

func TestLedgerMarkFailedReplacesReason(t *testing.T) {
	led := NewLedger()
	led.MarkFailed("p2", "timeout: first")
	led.MarkFailed("p2", "malformed: second")

	if len(led.Failed) != 1 {
		t.Fatalf("Failed = %v, want single entry", led.Failed)
	}
	if led.Failed[0].Reason != "malformed: second" {
		t.Errorf("Reason = %q, want replacement", led.Failed[0].Reason)
	}
}

func TestLedgerPending(t *testing.T) {
	led := NewLedger()
	led.Begin(5, time.Now())
	led.MarkProcessed("p1")
	led.MarkProcessed("p2")
	led.MarkFailed("p3", "parse_failure: entry missing from response")

	if got := led.Pending(); got != 2 {
		t.Errorf("Pending = %d, want 2", got)
	}
}
