package repository

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cabinbooking/internal/syncer"

	"github.com/google/uuid"
)

// MemoryStore is a thread-safe in-process record store. Field values are
// kept exactly as written, so time fields may hold any representation the
// adapter understands.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]syncer.Fields
	order   []string
	feed    ChangeFeed
}

func NewMemoryStore(feed ChangeFeed) *MemoryStore {
	if feed == nil {
		feed = NewLocalFeed()
	}
	return &MemoryStore{
		records: make(map[string]syncer.Fields),
		feed:    feed,
	}
}

func (s *MemoryStore) Subscribe(ctx context.Context, onSnapshot func([]syncer.RawRecord), onError func(error)) (func(), error) {
	return subscribe(ctx, s.feed, s.list, onSnapshot, onError)
}

func (s *MemoryStore) list(ctx context.Context) ([]syncer.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]syncer.RawRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, syncer.RawRecord{ID: id, Data: copyFields(s.records[id])})
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, fields syncer.Fields) (string, error) {
	id := uuid.NewString()
	s.Put(id, fields)
	return id, nil
}

// Put stores fields under id as given, replacing any existing record.
func (s *MemoryStore) Put(id string, fields syncer.Fields) {
	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.order = append(s.order, id)
	}
	s.records[id] = copyFields(fields)
	s.mu.Unlock()

	s.notify(context.Background())
}

func (s *MemoryStore) Update(ctx context.Context, id string, fields syncer.Fields) error {
	s.mu.Lock()
	rec, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	for k, v := range copyFields(fields) {
		rec[k] = v
	}
	s.mu.Unlock()

	s.notify(ctx)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify(ctx)
	return nil
}

// Get returns a copy of the raw record with the given id.
func (s *MemoryStore) Get(id string) (syncer.Fields, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return copyFields(rec), true
}

func (s *MemoryStore) notify(ctx context.Context) {
	if err := s.feed.Notify(ctx); err != nil {
		log.Printf("memory_store_notify_error error=%q", err.Error())
	}
}

func copyFields(in syncer.Fields) syncer.Fields {
	out := make(syncer.Fields, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case []string:
			out[k] = append([]string(nil), vv...)
		case []any:
			out[k] = append([]any(nil), vv...)
		default:
			out[k] = v
		}
	}
	return out
}
