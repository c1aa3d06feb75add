package signal

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

// Call negotiation is a pure relay: payloads are forwarded to the
// target connection as-is, tagged with the sender. The server never
// opens a PeerConnection of its own.

func (ctl *SignalWSController) handleCallUser(
	cid core.ConnectionID,
	conn *wsSignalConn,
	data []byte,
) {
	type callPayload struct {
		Type  string                    `json:"type"`
		To    string                    `json:"to" validate:"required"`
		Offer webrtc.SessionDescription `json:"offer"`
	}
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad call payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.validate.Struct(&p); err != nil {
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Debug().Str("module", "signal").Str("cid", string(cid)).Str("to", p.To).Msg("call-user")
	ctl.Relay.CallUser(cid, core.ConnectionID(p.To), p.Offer)
}

func (ctl *SignalWSController) handleMakeAnswer(
	cid core.ConnectionID,
	conn *wsSignalConn,
	data []byte,
) {
	type answerPayload struct {
		Type   string                    `json:"type"`
		To     string                    `json:"to" validate:"required"`
		Answer webrtc.SessionDescription `json:"answer"`
	}
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad answer payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.validate.Struct(&p); err != nil {
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Debug().Str("module", "signal").Str("cid", string(cid)).Str("to", p.To).Msg("make-answer")
	ctl.Relay.MakeAnswer(cid, core.ConnectionID(p.To), p.Answer)
}

func (ctl *SignalWSController) handleCandidate(
	cid core.ConnectionID,
	conn *wsSignalConn,
	data []byte,
) {
	type candidatePayload struct {
		Type      string                  `json:"type"`
		To        string                  `json:"to" validate:"required"`
		Candidate webrtc.ICECandidateInit `json:"candidate"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("bad candidate payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if err := ctl.validate.Struct(&p); err != nil {
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Relay.SendCandidate(cid, core.ConnectionID(p.To), p.Candidate)
}
