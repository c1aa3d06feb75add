package app

import (
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
)

// Relay forwards call negotiation between two specific connections.
// It is a stateless pass-through: no persistence, no broadcast, no
// delivery guarantee. An unknown target is dropped with a log line —
// peers run their own retry logic above this layer.
type Relay struct {
	Registry *Registry
}

type offerPayload struct {
	Offer  webrtc.SessionDescription `json:"offer"`
	Socket string                    `json:"socket"`
}

type answerPayload struct {
	Answer webrtc.SessionDescription `json:"answer"`
	Socket string                    `json:"socket"`
}

type candidatePayload struct {
	Candidate webrtc.ICECandidateInit `json:"candidate"`
	Socket    string                  `json:"socket"`
}

// CallUser forwards an SDP offer to exactly the target connection,
// tagged with the caller's id so the callee knows where to answer.
func (r *Relay) CallUser(from, to core.ConnectionID, offer webrtc.SessionDescription) {
	r.forward(from, to, EventCallMade, offerPayload{Offer: offer, Socket: string(from)})
}

// MakeAnswer forwards an SDP answer back to the original caller.
func (r *Relay) MakeAnswer(from, to core.ConnectionID, answer webrtc.SessionDescription) {
	r.forward(from, to, EventAnswerMade, answerPayload{Answer: answer, Socket: string(from)})
}

// SendCandidate forwards a trickle ICE candidate to the peer.
func (r *Relay) SendCandidate(from, to core.ConnectionID, cand webrtc.ICECandidateInit) {
	r.forward(from, to, EventCandidate, candidatePayload{Candidate: cand, Socket: string(from)})
}

func (r *Relay) forward(from, to core.ConnectionID, event string, payload any) {
	target, ok := r.Registry.Find(to)
	if !ok {
		log.Warn().Str("module", "app.relay").Str("from", string(from)).Str("to", string(to)).Str("event", event).Msg("relay target not connected")
		return
	}
	frame, err := EncodeEvent(event, payload)
	if err != nil {
		log.Error().Str("module", "app.relay").Err(err).Msg("relay encode")
		return
	}
	if err := target.Conn.TrySend(frame); err != nil {
		log.Warn().Str("module", "app.relay").Str("to", string(to)).Err(err).Msg("relay send failed")
	}
}
