// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brokerkit/client-sync/ingest"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps each collection as its positional row list, header at
// position 1, mirroring the spreadsheet layout the engine reconciles
// against.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][][]string)}
}

// EnsureCollection creates the collection with the canonical header row
// if it does not exist yet.
func (m *Memory) EnsureCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[name]; !ok {
		m.collections[name] = [][]string{ingest.Header()}
	}
	return nil
}

// ReadAll returns copies of every row including the header. An unknown
// collection yields an empty slice, not an error.
func (m *Memory) ReadAll(_ context.Context, name string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.collections[name]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// AppendRows adds rows after the last occupied position.
func (m *Memory) AppendRows(_ context.Context, name string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		m.collections[name] = append(m.collections[name], append([]string(nil), row...))
	}
	return nil
}

// UpdateRows overwrites rows at absolute 1-based positions. Positions
// beyond the current size grow the collection, the way a spreadsheet
// write to an arbitrary range would.
func (m *Memory) UpdateRows(_ context.Context, name string, updates []ingest.RowUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.collections[name]
	for _, u := range updates {
		if u.Position < 1 {
			return fmt.Errorf("invalid row position %d in %q", u.Position, name)
		}
		for len(rows) < u.Position {
			rows = append(rows, nil)
		}
		rows[u.Position-1] = append([]string(nil), u.Row...)
	}
	m.collections[name] = rows
	return nil
}

// ListCollections returns the known collection names, sorted for
// deterministic output.
func (m *Memory) ListCollections(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
