package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Options carries the transport tunables from config.
type Options struct {
	ReadLimit    int64
	WriteTimeout time.Duration
	PingPeriod   time.Duration
	SendBuffer   int
	JoinLimit    int
	JoinInterval time.Duration
}

type SignalWSController struct {
	Orch  *app.Orchestrator
	Relay *app.Relay

	opts     Options
	limiter  *JoinRateLimiter
	validate *validator.Validate
}

func NewSignalWSController(orch *app.Orchestrator, relay *app.Relay, opts Options) *SignalWSController {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = 54 * time.Second
	}
	return &SignalWSController{
		Orch:     orch,
		Relay:    relay,
		opts:     opts,
		limiter:  NewJoinRateLimiter(opts.JoinLimit, opts.JoinInterval),
		validate: validator.New(),
	}
}

// wsSignalConn wraps one websocket with a buffered outbound channel.
// TrySend never blocks: a full buffer means the consumer is too slow
// and the frame is dropped.
type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and owns the connection until the
// transport drops. Each live socket gets a fresh connection id; the
// visitor id from the cookie session is only the fallback identity for
// joins that omit a userId.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := core.ConnectionID(uuid.NewString())
	visitorID := c.GetString("visitor_id")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}

	if err := ctl.Orch.Registry.Connect(cid, conn); err != nil {
		log.Error().Str("module", "signal").Str("cid", string(cid)).Err(err).Msg("register connection")
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cid, visitorID, conn)
}

// errorCode maps engine errors onto the short codes sent to clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRoom):
		return "invalid_room"
	case errors.Is(err, domain.ErrNotConnected):
		return "not_connected"
	case errors.Is(err, domain.ErrNotMember):
		return "not_member"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

func (ctl *SignalWSController) sendError(conn *wsSignalConn, code string) {
	frame, err := app.EncodeEvent(app.EventError, map[string]string{"error": code})
	if err != nil {
		log.Error().Str("module", "signal").Err(err).Msg("encode error frame")
		return
	}
	_ = conn.TrySend(frame)
}
