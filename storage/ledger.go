package storage

import (
	"errors"
	"fmt"

	"yelp-sampler/models"
)

const ledgerColumn = "queried_id"

// Ledger is the persisted set of business ids whose reviews have already
// been fetched. Every successful Record rewrites the full deduplicated set,
// so a crash mid-run loses at most the pending entry and never corrupts
// entries already on disk.
type Ledger struct {
	path string
	ids  map[string]struct{}
	// order preserves first-seen insertion order for stable files.
	order []string
}

// LoadLedger reads the ledger CSV at path. A missing file yields an empty
// ledger, not an error.
func LoadLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path, ids: make(map[string]struct{})}

	t, err := ReadTable(path)
	if err != nil {
		var missing *models.ReferenceDataMissingError
		if errors.As(err, &missing) {
			return l, nil
		}
		return nil, fmt.Errorf("ledger: load: %w", err)
	}

	for _, row := range t.Rows {
		l.add(t.Cell(row, ledgerColumn))
	}
	return l, nil
}

func (l *Ledger) add(id string) {
	if id == "" {
		return
	}
	if _, ok := l.ids[id]; ok {
		return
	}
	l.ids[id] = struct{}{}
	l.order = append(l.order, id)
}

// Contains reports whether id has already been recorded.
func (l *Ledger) Contains(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Size returns the number of recorded ids.
func (l *Ledger) Size() int {
	return len(l.ids)
}

// Record idempotently adds id and persists the full deduplicated set.
func (l *Ledger) Record(id string) error {
	l.add(id)

	t := NewTable([]string{ledgerColumn})
	for _, v := range l.order {
		t.Append([]string{v})
	}
	if err := WriteTable(l.path, t); err != nil {
		return fmt.Errorf("ledger: persist: %w", err)
	}
	return nil
}
