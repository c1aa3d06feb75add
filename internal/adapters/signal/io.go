package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	ping := time.NewTicker(ctl.opts.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Str("module", "signal").Err(err).Msg("writePump ping error")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteTimeout)); err != nil {
				log.Error().Str("module", "signal").Err(err).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Str("module", "signal").Err(err).Msg("writePump write error")
				return
			}
		}
	}
}

// readPump is the single consumer of inbound frames for one
// connection, so every event for that connection is handled in arrival
// order before the next read.
func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, cid core.ConnectionID, visitorID string, c *wsSignalConn) {
	defer func() {
		cancel()
		c.Close()
		ctl.limiter.Forget(cid)
		if err := ctl.Orch.Disconnect(context.WithoutCancel(ctx), cid); err != nil {
			log.Error().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("disconnect cleanup")
		}
		log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("readPump closed")
	}()

	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("readPump read error")
				}
				return
			}
			ctl.handleFrame(ctx, cid, visitorID, c, data)
		}
	}
}

func (ctl *SignalWSController) handleFrame(ctx context.Context, cid core.ConnectionID, visitorID string, c *wsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(ctx, cid, visitorID, c, data)
	case "move":
		ctl.handleMove(ctx, cid, visitorID, c, data)
	case "toggle-mute-user":
		ctl.handleToggleMute(ctx, cid, c, data)
	case "call-user":
		ctl.handleCallUser(cid, c, data)
	case "make-answer":
		ctl.handleMakeAnswer(cid, c, data)
	case "ice-candidate":
		ctl.handleCandidate(cid, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}
