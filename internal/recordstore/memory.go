package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryRow struct {
	record    Record
	updatedAt time.Time
	seq       uint64
}

// MemoryStore keeps records in process. Fields are round-tripped through JSON
// on every write so readers see the same shapes a persisted backend returns.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryRow
	seq         uint64
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryRow),
		now:         time.Now,
	}
}

func (s *MemoryStore) Find(ctx context.Context, collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.collections[collection][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(row.record)
}

func (s *MemoryStore) List(ctx context.Context, collection string, q Query) ([]Record, error) {
	type snapshot struct {
		record Record
		seq    uint64
	}

	// Rows are cloned under the lock since Update mutates them in place.
	s.mu.RLock()
	rows := make([]snapshot, 0, len(s.collections[collection]))
	for _, row := range s.collections[collection] {
		if len(q.IDs) > 0 && !containsID(q.IDs, row.record.ID) {
			continue
		}
		if !matches(row.record.Fields, q.Where) {
			continue
		}
		rec, err := cloneRecord(row.record)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		rows = append(rows, snapshot{record: rec, seq: row.seq})
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].seq > rows[j].seq
	})
	if q.MaxRecords > 0 && len(rows) > q.MaxRecords {
		rows = rows[:q.MaxRecords]
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record)
	}
	return records, nil
}

func (s *MemoryStore) Create(ctx context.Context, collection string, fields Fields) (Record, error) {
	normalized, err := normalizeFields(fields)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]*memoryRow)
	}
	now := s.now()
	s.seq++
	rec := Record{ID: newRecordID(), CreatedTime: now, Fields: normalized}
	s.collections[collection][rec.ID] = &memoryRow{record: rec, updatedAt: now, seq: s.seq}
	return cloneRecord(rec)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Fields) (Record, error) {
	patch, err := normalizeFields(fields)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.collections[collection][id]
	if !ok {
		return Record{}, ErrNotFound
	}
	merged := mergeFields(row.record.Fields, patch)
	s.seq++
	row.record.Fields = merged
	row.updatedAt = s.now()
	row.seq = s.seq
	return cloneRecord(row.record)
}

func (s *MemoryStore) Destroy(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

// Len reports how many records a collection holds.
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func normalizeFields(fields Fields) (Fields, error) {
	if fields == nil {
		return Fields{}, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	out := Fields{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return out, nil
}

// mergeFields applies PATCH semantics: nil values clear a field.
func mergeFields(base, patch Fields) Fields {
	merged := make(Fields, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return merged
}

func cloneRecord(rec Record) (Record, error) {
	fields, err := normalizeFields(rec.Fields)
	if err != nil {
		return Record{}, err
	}
	rec.Fields = fields
	return rec, nil
}
