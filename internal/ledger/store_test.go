package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitech/seogen/internal/domain"
)

func TestLoadMissingFileReturnsFreshLedger(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "ledger.json"))

	led, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, led.Total)
	assert.Empty(t, led.Processed)
	assert.Empty(t, led.Failed)
	assert.Nil(t, led.StartedAt)
}

func TestFlushThenLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "ledger.json"))

	led := domain.NewLedger()
	led.Begin(3, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	led.MarkProcessed("p1")
	led.MarkFailed("p2", "timeout: request timed out")

	require.NoError(t, store.Flush(led))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, led.Total, loaded.Total)
	assert.Equal(t, []string{"p1"}, loaded.Processed)
	require.Len(t, loaded.Failed, 1)
	assert.Equal(t, "p2", loaded.Failed[0].ProductID)
	assert.Equal(t, "timeout: request timed out", loaded.Failed[0].Reason)
	require.NotNil(t, loaded.StartedAt)
	assert.True(t, loaded.StartedAt.Equal(*led.StartedAt))
}

func TestFlushOverwritesPreviousState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "ledger.json"))

	led := domain.NewLedger()
	led.MarkFailed("p1", "rate_limited: HTTP 429")
	require.NoError(t, store.Flush(led))

	led.MarkProcessed("p1")
	require.NoError(t, store.Flush(led))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, loaded.Processed)
	assert.Empty(t, loaded.Failed)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

func TestFlushCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "deep", "ledger.json")
	store := NewStore(path)

	require.NoError(t, store.Flush(domain.NewLedger()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
