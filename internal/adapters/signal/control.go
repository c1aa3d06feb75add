package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
)

func (ctl *SignalWSController) handlePing(
	conn *wsSignalConn,
) {
	frame, err := app.EncodeEvent("pong", nil)
	if err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("encode pong")
		return
	}
	_ = conn.TrySend(frame)
}
