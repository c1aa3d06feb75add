// Package memory provides the in-process PresenceStore used when no
// external durable store is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type storedRecord struct {
	rec domain.PresenceRecord
	seq uint64
}

type PresenceStore struct {
	mu      sync.RWMutex
	records map[core.ConnectionID]*storedRecord
	nextSeq uint64
}

func NewPresenceStore() *PresenceStore {
	return &PresenceStore{records: make(map[core.ConnectionID]*storedRecord)}
}

func (s *PresenceStore) Upsert(_ context.Context, id core.ConnectionID, rec domain.PresenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[id]; ok {
		existing.rec = rec
		return nil
	}
	s.nextSeq++
	s.records[id] = &storedRecord{rec: rec, seq: s.nextSeq}
	return nil
}

func (s *PresenceStore) Delete(_ context.Context, id core.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// ListByRoom returns the room's records in insertion order, so rosters
// stay stable across broadcasts.
func (s *PresenceStore) ListByRoom(_ context.Context, room domain.RoomName) ([]core.RosterEntry, error) {
	s.mu.RLock()
	type keyed struct {
		id  core.ConnectionID
		rec domain.PresenceRecord
		seq uint64
	}
	matched := make([]keyed, 0, len(s.records))
	for id, sr := range s.records {
		if sr.rec.Room == room {
			matched = append(matched, keyed{id: id, rec: sr.rec, seq: sr.seq})
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	out := make([]core.RosterEntry, 0, len(matched))
	for _, m := range matched {
		out = append(out, core.RosterEntry{
			ConnectionID: string(m.id),
			UserID:       m.rec.UserID,
			X:            m.rec.X,
			Y:            m.rec.Y,
			Orientation:  m.rec.Orientation,
			Muted:        m.rec.Muted,
		})
	}
	return out, nil
}

func (s *PresenceStore) UpdateMute(_ context.Context, room domain.RoomName, userID string, muted bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sr := range s.records {
		if sr.rec.Room == room && sr.rec.UserID == userID {
			sr.rec.Muted = muted
			n++
		}
	}
	return n, nil
}
