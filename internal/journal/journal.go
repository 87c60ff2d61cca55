// Package journal provides append-only storage for sequenced events as
// line-delimited JSON. Replaying a journal into a fresh venue reproduces
// the exact book and order state the original run ended with.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/nathanyu/backtest-venue/internal/domain"
)

// Record is one journaled event with its dispatch sequence number.
type Record struct {
	Seq  uint64          `json:"seq"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Encode wraps an event in a Record envelope.
func Encode(seq uint64, event domain.Event) (Record, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Record{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return Record{Seq: seq, Kind: event.Kind(), Data: data}, nil
}

// Decode unwraps a Record back into its event variant.
func Decode(rec Record) (domain.Event, error) {
	switch rec.Kind {
	case domain.TickEvent{}.Kind():
		var e domain.TickEvent
		if err := json.Unmarshal(rec.Data, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tick event: %w", err)
		}
		return e, nil
	case domain.CreateOrderEvent{}.Kind():
		var e domain.CreateOrderEvent
		if err := json.Unmarshal(rec.Data, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal create event: %w", err)
		}
		return e, nil
	case domain.CancelOrderEvent{}.Kind():
		var e domain.CancelOrderEvent
		if err := json.Unmarshal(rec.Data, &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cancel event: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", rec.Kind)
	}
}

// Journal appends events to a file, one JSON record per line.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// NewJournal opens (or creates) the journal file for appending.
func NewJournal(filePath string) (*Journal, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Append writes one event to the journal.
func (j *Journal) Append(seq uint64, event domain.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec, err := Encode(seq, event)
	if err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Append newline for line-delimited JSON
	data = append(data, '\n')

	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	// Ensure durability
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}

	return nil
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// LoadAll reads every event from a journal file in recorded order.
func LoadAll(filePath string) ([]domain.Event, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Event{}, nil
		}
		return nil, fmt.Errorf("failed to open journal for reading: %w", err)
	}
	defer file.Close()

	var events []domain.Event
	scanner := bufio.NewScanner(file)
	// Increase buffer size for deep book updates
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		event, err := Decode(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return events, nil
}
