// Package domain contains entity without logic, just meta-data
package domain

import (
	"math/rand/v2"
	"unicode"
)

const (
	MaxRoomNameLen = 64

	// DefaultSpawnExtent bounds the random spawn area on both axes.
	DefaultSpawnExtent = 100.0
)

type RoomName string

// ParseRoomName validates a client-supplied room identifier.
// Rooms are never created or destroyed explicitly, so the name is the
// only thing standing between a typo and a phantom room.
func ParseRoomName(s string) (RoomName, error) {
	if s == "" || len(s) > MaxRoomNameLen {
		return "", ErrInvalidRoom
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", ErrInvalidRoom
		}
	}
	return RoomName(s), nil
}

type Orientation string

const (
	OrientationFront Orientation = "front"
	OrientationBack  Orientation = "back"
	OrientationLeft  Orientation = "left"
	OrientationRight Orientation = "right"
)

// ParseOrientation maps unknown values to front rather than failing;
// clients always spawn facing front and only ever send the four knowns.
func ParseOrientation(s string) Orientation {
	switch Orientation(s) {
	case OrientationBack, OrientationLeft, OrientationRight:
		return Orientation(s)
	default:
		return OrientationFront
	}
}

type Position struct {
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Orientation Orientation `json:"orientation"`
}

// PresenceRecord is the durable per-connection state kept in the
// presence store. A record exists exactly while its connection is a
// room member.
type PresenceRecord struct {
	Room   RoomName
	UserID string
	Position
	Muted bool
}

// SpawnPosition picks a uniform random point in [0, extent) on both
// axes, facing front and unmuted by construction.
func SpawnPosition(extent float64) Position {
	if extent <= 0 {
		extent = DefaultSpawnExtent
	}
	return Position{
		X:           rand.Float64() * extent,
		Y:           rand.Float64() * extent,
		Orientation: OrientationFront,
	}
}
