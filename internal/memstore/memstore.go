// Package memstore provides an in-memory store.Adapter for tests.
//
// Tables keep insertion order so scans and index queries paginate
// deterministically. Index queries treat the index's partition key as a
// plain attribute filter, which matches how the adapter's QueryInput is
// used by the repositories.
package memstore

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/promodeagro/packer-cli/store"
)

type table struct {
	keyAttr string
	keys    []string
	records map[string]store.Record
}

// Store is an in-memory store.Adapter.
type Store struct {
	mu     sync.Mutex
	tables map[string]*table

	// FailGet, FailUpdate, and FailQuery inject errors per call when set.
	// Returning nil lets the call proceed.
	FailGet    func(tbl string, key store.PK) error
	FailUpdate func(tbl string, key store.PK) error
	FailQuery  func(tbl string) error
}

// New creates an empty Store.
func New() *Store {
	return &Store{tables: map[string]*table{}}
}

// CreateTable registers a table with its key attribute name.
func (s *Store) CreateTable(name, keyAttr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = &table{keyAttr: keyAttr, records: map[string]store.Record{}}
}

// Put inserts or replaces a record wholesale (test setup path).
func (s *Store) Put(tbl string, rec store.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[tbl]
	id := rec.String(t.keyAttr)
	if _, exists := t.records[id]; !exists {
		t.keys = append(t.keys, id)
	}
	t.records[id] = clone(rec)
}

// Len returns the number of records in a table.
func (s *Store) Len(tbl string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[tbl].keys)
}

// Record returns a copy of the stored record, or nil.
func (s *Store) Record(tbl, id string) store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.tables[tbl].records[id]
	if !ok {
		return nil
	}
	return clone(rec)
}

func (s *Store) Get(ctx context.Context, tbl string, key store.PK) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet != nil {
		if err := s.FailGet(tbl, key); err != nil {
			return nil, err
		}
	}
	t := s.tables[tbl]
	rec, ok := t.records[store.Record(key).String(t.keyAttr)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(rec), nil
}

func (s *Store) Update(ctx context.Context, tbl string, key store.PK, patch store.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate != nil {
		if err := s.FailUpdate(tbl, key); err != nil {
			return err
		}
	}
	t := s.tables[tbl]
	id := store.Record(key).String(t.keyAttr)
	rec, exists := t.records[id]
	if !exists {
		rec = store.Record{t.keyAttr: store.S(id)}
	}

	if c := patch.Condition; c != nil {
		cur, present := rec[c.Attr]
		if !exists {
			present = false
		}
		switch {
		case c.Equals == nil:
			if present {
				return store.ErrConditionFailed
			}
		case !present || !equalAttr(cur, c.Equals):
			return store.ErrConditionFailed
		}
	}

	// Upsert semantics, like DynamoDB UpdateItem.
	if !exists {
		t.keys = append(t.keys, id)
	}
	for k, v := range patch.Set {
		rec[k] = v
	}
	t.records[id] = rec
	return nil
}

func (s *Store) Scan(ctx context.Context, tbl string, token store.PageToken, limit int32) (store.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailQuery != nil {
		if err := s.FailQuery(tbl); err != nil {
			return store.Page{}, err
		}
	}
	t := s.tables[tbl]
	return s.page(t, t.keys, token, limit), nil
}

func (s *Store) QueryByIndex(ctx context.Context, in store.QueryInput) (store.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailQuery != nil {
		if err := s.FailQuery(in.Table); err != nil {
			return store.Page{}, err
		}
	}
	t := s.tables[in.Table]
	var keys []string
	for _, id := range t.keys {
		if t.records[id].String(in.KeyAttr) == in.KeyValue {
			keys = append(keys, id)
		}
	}
	return s.page(t, keys, in.Token, in.Limit), nil
}

// page slices a key sequence after the token position, honoring limit and
// emitting a next token exactly when records remain.
func (s *Store) page(t *table, keys []string, token store.PageToken, limit int32) store.Page {
	start := 0
	if token != nil {
		after := store.Record(token).String(t.keyAttr)
		for i, id := range keys {
			if id == after {
				start = i + 1
				break
			}
		}
	}

	end := len(keys)
	if limit > 0 && start+int(limit) < end {
		end = start + int(limit)
	}

	p := store.Page{}
	for _, id := range keys[start:end] {
		p.Records = append(p.Records, clone(t.records[id]))
	}
	if end < len(keys) && end > start {
		p.Next = store.PageToken{t.keyAttr: store.S(keys[end-1])}
	}
	return p
}

func equalAttr(a, b types.AttributeValue) bool {
	as, aok := a.(*types.AttributeValueMemberS)
	bs, bok := b.(*types.AttributeValueMemberS)
	if aok && bok {
		return as.Value == bs.Value
	}
	an, aok := a.(*types.AttributeValueMemberN)
	bn, bok := b.(*types.AttributeValueMemberN)
	if aok && bok {
		return an.Value == bn.Value
	}
	return false
}

func clone(rec store.Record) store.Record {
	out := make(store.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
