package core

import (
	"context"

	"github.com/dkeye/Meet/internal/domain"
)

// Frame is an encoded outbound event.
type Frame []byte

// ConnectionID identifies one live transport session. Minted per
// websocket upgrade, never reused.
type ConnectionID string

// SignalConnection abstracts the messaging transport of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// RosterEntry is the read-only view of one room member sent to clients.
type RosterEntry struct {
	ConnectionID string             `json:"connectionId"`
	UserID       string             `json:"userId"`
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	Orientation  domain.Orientation `json:"orientation"`
	Muted        bool               `json:"muted"`
}

// PresenceStore is the durable side of presence. The engine treats it
// as an external collaborator: upserts must be acknowledged before any
// roster derived from them is broadcast.
type PresenceStore interface {
	Upsert(ctx context.Context, id ConnectionID, rec domain.PresenceRecord) error
	Delete(ctx context.Context, id ConnectionID) error
	ListByRoom(ctx context.Context, room domain.RoomName) ([]RosterEntry, error)
	// UpdateMute sets the mute flag on every record matching room+userID
	// and reports how many records matched.
	UpdateMute(ctx context.Context, room domain.RoomName, userID string, muted bool) (int, error)
}
