package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanyu/backtest-venue/internal/domain"
)

func TestAppendAndLoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	jnl, err := NewJournal(path)
	require.NoError(t, err)

	events := []domain.Event{
		domain.TickEvent{Tick: domain.Tick{
			Venue: "XLON",
			Bids:  []domain.PriceLevel{{Price: 9998, Quantity: 101}},
		}},
		domain.CreateOrderEvent{Side: domain.SideBuy, Quantity: 75, Price: 9998},
		domain.CancelOrderEvent{OrderID: 1},
	}
	for i, event := range events {
		require.NoError(t, jnl.Append(uint64(i+1), event))
	}
	require.NoError(t, jnl.Close())

	loaded, err := LoadAll(path)
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}

func TestAppendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	jnl, err := NewJournal(path)
	require.NoError(t, err)
	require.NoError(t, jnl.Append(1, domain.TickEvent{}))
	require.NoError(t, jnl.Close())

	jnl, err = NewJournal(path)
	require.NoError(t, err)
	require.NoError(t, jnl.Append(2, domain.CancelOrderEvent{OrderID: 9}))
	require.NoError(t, jnl.Close())

	loaded, err := LoadAll(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, domain.CancelOrderEvent{OrderID: 9}, loaded[1])
}

func TestLoadAllMissingFile(t *testing.T) {
	events, err := LoadAll(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoadAllRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"seq":1,"kind":"split","data":{}}`+"\n"), 0644))

	_, err := LoadAll(path)
	assert.Error(t, err)
}
