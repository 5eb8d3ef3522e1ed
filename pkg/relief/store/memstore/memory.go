package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/relief/pkg/relief/dataset"
	"github.com/cognicore/relief/pkg/relief/store"
)

// Store is an in-memory implementation of store.Store for tests and dry runs.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*store.Frame
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{tables: make(map[string]*store.Frame)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ReplaceDataset implements store.Store.
func (s *Store) ReplaceDataset(ctx context.Context, table string, ds *dataset.Dataset) error {
	frame := store.FromDataset(ds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = frame
	return nil
}

// LoadTable returns a copy of a stored table.
func (s *Store) LoadTable(ctx context.Context, table string) (*store.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrTableNotFound, table)
	}
	return copyFrame(f), nil
}

// Tables implements store.Store.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func copyFrame(f *store.Frame) *store.Frame {
	out := &store.Frame{
		Columns: append([]string{}, f.Columns...),
		Types:   append([]store.ColumnType{}, f.Types...),
		Rows:    make([][]any, len(f.Rows)),
	}
	for i, row := range f.Rows {
		out.Rows[i] = append([]any{}, row...)
	}
	return out
}
