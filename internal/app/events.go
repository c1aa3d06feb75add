package app

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Outbound event names. Presence events are room-scoped by prefixing
// the room name, matching what clients subscribe to.
const (
	EventCallMade   = "call-made"
	EventAnswerMade = "answer-made"
	EventCandidate  = "candidate-received"
	EventError      = "error"
)

func UserListEvent(room domain.RoomName) string {
	return fmt.Sprintf("%s-update-user-list", room)
}

func AddUserEvent(room domain.RoomName) string {
	return fmt.Sprintf("%s-add-user", room)
}

func RemoveUserEvent(room domain.RoomName) string {
	return fmt.Sprintf("%s-remove-user", room)
}

// Event is the wire envelope for everything the server pushes.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func EncodeEvent(name string, data any) (core.Frame, error) {
	b, err := json.Marshal(Event{Event: name, Data: data})
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

// deliver pushes one frame to a set of members, skipping the excluded
// connection. Send failures mean a slow or dying consumer; the write
// pump will tear the connection down, so here we only log.
func deliver(members []Snapshot, exclude core.ConnectionID, frame core.Frame) {
	for _, m := range members {
		if m.ID == exclude {
			continue
		}
		if err := m.Conn.TrySend(frame); err != nil {
			log.Warn().Str("module", "app.events").Str("cid", string(m.ID)).Err(err).Msg("dropped event")
		}
	}
}
