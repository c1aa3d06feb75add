package signal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

func (ctl *SignalWSController) handleJoin(
	ctx context.Context,
	cid core.ConnectionID,
	visitorID string,
	conn *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type   string `json:"type"`
		Room   string `json:"room" validate:"required,max=64"`
		UserID string `json:"userId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.validate.Struct(&p); err != nil {
		ctl.sendError(conn, "invalid_room")
		return
	}
	if p.UserID == "" {
		p.UserID = visitorID
	}

	if !ctl.limiter.Allow(cid) {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Msg("join rate limited")
		ctl.sendError(conn, "rate_limited")
		return
	}

	if err := ctl.Orch.Join(ctx, cid, p.Room, p.UserID); err != nil {
		log.Error().Str("module", "signal").Str("cid", string(cid)).Str("room", p.Room).Err(err).Msg("join failed")
		ctl.sendError(conn, errorCode(err))
		return
	}
	log.Debug().Str("module", "signal").Str("cid", string(cid)).Str("room", p.Room).Msg("join handled")
}

func (ctl *SignalWSController) handleMove(
	ctx context.Context,
	cid core.ConnectionID,
	visitorID string,
	conn *wsSignalConn,
	data []byte,
) {
	type movePayload struct {
		Type        string  `json:"type"`
		Room        string  `json:"room" validate:"required,max=64"`
		UserID      string  `json:"userId"`
		X           float64 `json:"x"`
		Y           float64 `json:"y"`
		Orientation string  `json:"orientation"`
	}
	var p movePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad move payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.validate.Struct(&p); err != nil {
		ctl.sendError(conn, "invalid_room")
		return
	}
	if p.UserID == "" {
		p.UserID = visitorID
	}

	if err := ctl.Orch.Move(ctx, cid, p.Room, p.UserID, p.X, p.Y, p.Orientation); err != nil {
		// NotMember is a client mistake, not a server failure.
		if errors.Is(err, domain.ErrNotMember) {
			log.Warn().Str("module", "signal").Str("cid", string(cid)).Str("room", p.Room).Msg("move from non-member")
		} else {
			log.Error().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("move failed")
		}
		ctl.sendError(conn, errorCode(err))
	}
}

func (ctl *SignalWSController) handleToggleMute(
	ctx context.Context,
	cid core.ConnectionID,
	conn *wsSignalConn,
	data []byte,
) {
	type mutePayload struct {
		Type   string `json:"type"`
		Room   string `json:"room" validate:"required,max=64"`
		UserID string `json:"userId" validate:"required"`
		Muted  bool   `json:"muted"`
	}
	var p mutePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad mute payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.validate.Struct(&p); err != nil {
		ctl.sendError(conn, "bad_payload")
		return
	}

	if err := ctl.Orch.ToggleMute(ctx, p.Room, p.UserID, p.Muted); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Str("room", p.Room).Str("user", p.UserID).Err(err).Msg("toggle mute failed")
		ctl.sendError(conn, errorCode(err))
	}
}
