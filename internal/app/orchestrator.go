package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Orchestrator is the room broadcast engine: it reacts to join, move,
// mute and disconnect events, keeps the registry and the presence
// store consistent, and fans the resulting roster out to the room.
//
// Every inbound event for one connection arrives on that connection's
// read pump, so events for a single connection are serialized by
// construction. Rosters are always re-read from the store after the
// triggering write has been acknowledged.
type Orchestrator struct {
	Registry    *Registry
	Store       core.PresenceStore
	SpawnExtent float64
}

type rosterPayload struct {
	Users []core.RosterEntry `json:"users"`
}

// Join makes the connection a member of room. Joining the room you are
// already in is an idempotent refresh: no new record, no add-user
// notification, but the roster is still rebroadcast.
func (o *Orchestrator) Join(ctx context.Context, id core.ConnectionID, room, userID string) error {
	rn, err := domain.ParseRoomName(room)
	if err != nil {
		return err
	}
	snap, ok := o.Registry.Find(id)
	if !ok {
		return domain.ErrNotConnected
	}

	refresh := snap.Room == rn
	if !refresh {
		pos, ok := o.Registry.LastPosition(id)
		if !ok {
			pos = domain.SpawnPosition(o.SpawnExtent)
		}
		rec := domain.PresenceRecord{Room: rn, UserID: userID, Position: pos}
		if err := o.Store.Upsert(ctx, id, rec); err != nil {
			return fmt.Errorf("%w: upsert: %w", domain.ErrStoreUnavailable, err)
		}
		if err := o.Registry.SetRoom(id, rn, userID); err != nil {
			return err
		}
		o.Registry.RememberPosition(id, pos)
	}

	if err := o.broadcastRoster(ctx, rn); err != nil {
		return err
	}

	if !refresh {
		frame, err := EncodeEvent(AddUserEvent(rn), map[string]string{"user": string(id)})
		if err != nil {
			return err
		}
		deliver(o.Registry.MembersOf(rn), id, frame)
		log.Info().Str("module", "app.orchestrator").Str("cid", string(id)).Str("room", string(rn)).Str("user", userID).Msg("joined room")
	}
	return nil
}

// Move overwrites the member's position and orientation and
// rebroadcasts the roster to everyone in the room, mover included, so
// all clients converge on the store's view. The mute flag is carried
// over from the current record.
func (o *Orchestrator) Move(ctx context.Context, id core.ConnectionID, room, userID string, x, y float64, orientation string) error {
	rn, err := domain.ParseRoomName(room)
	if err != nil {
		return err
	}
	snap, ok := o.Registry.Find(id)
	if !ok {
		return domain.ErrNotConnected
	}
	// A move into a room the connection never joined is rejected rather
	// than silently creating membership.
	if snap.Room == "" || snap.Room != rn {
		return domain.ErrNotMember
	}

	muted, err := o.currentMute(ctx, rn, id)
	if err != nil {
		return err
	}

	pos := domain.Position{X: x, Y: y, Orientation: domain.ParseOrientation(orientation)}
	rec := domain.PresenceRecord{Room: rn, UserID: userID, Position: pos, Muted: muted}
	if err := o.Store.Upsert(ctx, id, rec); err != nil {
		return fmt.Errorf("%w: upsert: %w", domain.ErrStoreUnavailable, err)
	}
	o.Registry.RememberPosition(id, pos)

	return o.broadcastRoster(ctx, rn)
}

// ToggleMute sets the mute flag on every record matching room+userID.
// A user holding several connections in the room is muted on all of
// them at once; zero matches means nobody by that identity is a member.
func (o *Orchestrator) ToggleMute(ctx context.Context, room, userID string, muted bool) error {
	rn, err := domain.ParseRoomName(room)
	if err != nil {
		return err
	}
	n, err := o.Store.UpdateMute(ctx, rn, userID, muted)
	if err != nil {
		return fmt.Errorf("%w: update mute: %w", domain.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return domain.ErrNotMember
	}
	log.Info().Str("module", "app.orchestrator").Str("room", string(rn)).Str("user", userID).Bool("muted", muted).Int("matched", n).Msg("mute updated")
	return o.broadcastRoster(ctx, rn)
}

// Disconnect reconciles state with a dropped transport. The registry
// entry always goes first; the store delete is best effort and its
// failure never blocks the member-removed notification.
func (o *Orchestrator) Disconnect(ctx context.Context, id core.ConnectionID) error {
	snap, ok := o.Registry.Remove(id)
	if !ok || snap.Room == "" {
		// Never joined or already cleaned up. No record to delete,
		// nobody to notify.
		return nil
	}

	storeErr := o.Store.Delete(ctx, id)
	if storeErr != nil {
		storeErr = fmt.Errorf("%w: delete: %w", domain.ErrStoreUnavailable, storeErr)
		log.Error().Str("module", "app.orchestrator").Str("cid", string(id)).Err(storeErr).Msg("presence delete failed on disconnect")
	}

	frame, err := EncodeEvent(RemoveUserEvent(snap.Room), map[string]string{"socketId": string(id)})
	if err != nil {
		return err
	}
	deliver(o.Registry.MembersOf(snap.Room), id, frame)
	log.Info().Str("module", "app.orchestrator").Str("cid", string(id)).Str("room", string(snap.Room)).Msg("disconnected")
	return storeErr
}

// broadcastRoster re-reads the room from the store and pushes the full
// member list to every live connection in that room.
func (o *Orchestrator) broadcastRoster(ctx context.Context, room domain.RoomName) error {
	roster, err := o.Store.ListByRoom(ctx, room)
	if err != nil {
		return fmt.Errorf("%w: list room: %w", domain.ErrStoreUnavailable, err)
	}
	frame, err := EncodeEvent(UserListEvent(room), rosterPayload{Users: roster})
	if err != nil {
		return err
	}
	deliver(o.Registry.MembersOf(room), "", frame)
	return nil
}

// currentMute finds the connection's existing mute flag so a position
// update does not unmute anyone.
func (o *Orchestrator) currentMute(ctx context.Context, room domain.RoomName, id core.ConnectionID) (bool, error) {
	roster, err := o.Store.ListByRoom(ctx, room)
	if err != nil {
		return false, fmt.Errorf("%w: list room: %w", domain.ErrStoreUnavailable, err)
	}
	for _, e := range roster {
		if e.ConnectionID == string(id) {
			return e.Muted, nil
		}
	}
	return false, nil
}
