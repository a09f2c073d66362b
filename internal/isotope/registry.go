package isotope

import (
	"fmt"
	"strings"
)

// NotFoundError reports an id absent from the registry.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("isotope not found: %q", e.ID) }

// Registry is an ordered, read-only set of records. It has no mutation API;
// a Registry is safe for concurrent use once built.
type Registry struct {
	records []Record
	index   map[string]int
}

// New builds a registry keeping the given order. Ids must be unique.
func New(records ...Record) (*Registry, error) {
	r := &Registry{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if err := rec.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[rec.ID]; dup {
			return nil, fmt.Errorf("isotope %s: duplicate id", rec.ID)
		}
		r.index[rec.ID] = len(r.records)
		r.records = append(r.records, rec)
	}
	return r, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(records ...Record) *Registry {
	r, err := New(records...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the record for id. An exact match wins; otherwise ids are
// compared case-insensitively.
func (r *Registry) Lookup(id string) (Record, error) {
	if i, ok := r.index[id]; ok {
		return r.records[i], nil
	}
	for _, rec := range r.records {
		if strings.EqualFold(rec.ID, id) {
			return rec, nil
		}
	}
	return Record{}, &NotFoundError{ID: id}
}

// IDs returns the ids in insertion order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.records))
	for i, rec := range r.records {
		out[i] = rec.ID
	}
	return out
}

// Records returns a copy of every record in insertion order.
func (r *Registry) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Registry) Len() int { return len(r.records) }
