package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type connEntry struct {
	Room    domain.RoomName
	UserID  string
	Conn    core.SignalConnection
	LastPos *domain.Position
}

// Snapshot is an immutable view of one registry entry, safe to hand
// out after the lock is released.
type Snapshot struct {
	ID     core.ConnectionID
	Room   domain.RoomName
	UserID string
	Conn   core.SignalConnection
}

// Registry is the process-wide table of live connections and the room
// each belongs to. It is the source of truth for "who is online",
// independent of the durable presence store. Owned by main, injected
// into the engine; no global instance.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnectionID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnectionID]*connEntry)}
}

// Connect registers a fresh connection with no room. A duplicate id
// means the transport handed out the same id twice, which is a bug,
// not a client error.
func (r *Registry) Connect(id core.ConnectionID, conn core.SignalConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; ok {
		log.Error().Str("module", "app.registry").Str("cid", string(id)).Msg("duplicate connection id")
		return domain.ErrAlreadyConnected
	}
	r.conns[id] = &connEntry{Conn: conn}
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("connection registered")
	return nil
}

func (r *Registry) Find(id core.ConnectionID) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{ID: id, Room: e.Room, UserID: e.UserID, Conn: e.Conn}, true
}

// SetRoom records room membership for a known connection.
func (r *Registry) SetRoom(id core.ConnectionID, room domain.RoomName, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return domain.ErrNotConnected
	}
	e.Room = room
	e.UserID = userID
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("room", string(room)).Msg("room set")
	return nil
}

// Remove atomically deletes the entry and returns its prior state so
// disconnect handling can decide whether cleanup work remains.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(id core.ConnectionID) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return Snapshot{}, false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("connection removed")
	return Snapshot{ID: id, Room: e.Room, UserID: e.UserID, Conn: e.Conn}, true
}

// RememberPosition retains the last-known position for a connection so
// a re-join within the same session spawns where the user left off.
func (r *Registry) RememberPosition(id core.ConnectionID, pos domain.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		p := pos
		e.LastPos = &p
	}
}

func (r *Registry) LastPosition(id core.ConnectionID) (domain.Position, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.LastPos == nil {
		return domain.Position{}, false
	}
	return *e.LastPos, true
}

// MembersOf snapshots every live connection currently in the room.
func (r *Registry) MembersOf(room domain.RoomName) []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Snapshot, 0, len(r.conns))
	for id, e := range r.conns {
		if e.Room == room && room != "" {
			out = append(out, Snapshot{ID: id, Room: e.Room, UserID: e.UserID, Conn: e.Conn})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
