package domain

import "time"

// FailedItem records a product that ended a run in the failed state,
// together with the reason reported by the pipeline stage that failed it.
type FailedItem struct {
	ProductID string `json:"id"`
	Reason    string `json:"reason"`
}

// Ledger is the durable per-item completion record for a run. It is loaded
// at startup, mutated after each batch and flushed before the next one.
//
// Invariants: an id is never in both Processed and Failed, and
// len(Processed)+len(Failed) never exceeds Total.
type Ledger struct {
	Total       int          `json:"total"`
	Processed   []string     `json:"processed"`
	Failed      []FailedItem `json:"failed"`
	StartedAt   *time.Time   `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at"`
}

// NewLedger returns an empty ledger for a fresh run.
func NewLedger() *Ledger {
	return &Ledger{
		Processed: []string{},
		Failed:    []FailedItem{},
	}
}

// Begin marks the start of a run over `selected` newly enumerated items.
// Total covers everything the ledger tracks: already-completed ids plus the
// items selected this run (which includes previously failed ones, since
// those are re-enumerated).
func (l *Ledger) Begin(selected int, now time.Time) {
	l.Total = len(l.Processed) + selected
	if l.StartedAt == nil {
		l.StartedAt = &now
	}
	l.CompletedAt = nil
}

// Complete marks the run as finished once enumeration is exhausted.
func (l *Ledger) Complete(now time.Time) {
	l.CompletedAt = &now
}

// MarkProcessed records a successful write for id. A previous failure for
// the same id is cleared so Processed and Failed stay disjoint.
func (l *Ledger) MarkProcessed(id string) {
	l.clearFailed(id)
	if l.IsProcessed(id) {
		return
	}
	l.Processed = append(l.Processed, id)
}

// MarkFailed records a failure for id with the given reason. Completed ids
// are terminal and never move back to failed; a repeated failure replaces
// the stored reason.
func (l *Ledger) MarkFailed(id, reason string) {
	if l.IsProcessed(id) {
		return
	}
	for i := range l.Failed {
		if l.Failed[i].ProductID == id {
			l.Failed[i].Reason = reason
			return
		}
	}
	l.Failed = append(l.Failed, FailedItem{ProductID: id, Reason: reason})
}

// IsProcessed reports whether id has already been completed.
func (l *Ledger) IsProcessed(id string) bool {
	for _, p := range l.Processed {
		if p == id {
			return true
		}
	}
	return false
}

// ProcessedIDs returns the completed ids, excluded from future enumerations.
func (l *Ledger) ProcessedIDs() []string {
	out := make([]string, len(l.Processed))
	copy(out, l.Processed)
	return out
}

// Pending returns how many tracked items are neither processed nor failed.
func (l *Ledger) Pending() int {
	return l.Total - len(l.Processed) - len(l.Failed)
}

func (l *Ledger) clearFailed(id string) {
	for i := range l.Failed {
		if l.Failed[i].ProductID == id {
			l.Failed = append(l.Failed[:i], l.Failed[i+1:]...)
			return
		}
	}
}
