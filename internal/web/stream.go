package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/dashboard"
	"hive-map.klederson.com/internal/loop"
)

const writeWait = 2 * time.Second

// Control is a message from the page. Absent fields leave the setting alone.
type Control struct {
	Live   *bool    `json:"live,omitempty"`
	Rate   *int     `json:"rate,omitempty"`
	Range  *float64 `json:"range,omitempty"`
	Rescan bool     `json:"rescan,omitempty"`
}

// Message is what the server sends over the websocket.
type Message struct {
	Type    string           `json:"type"` // hello or frame
	Session string           `json:"session,omitempty"`
	Live    bool             `json:"live"`
	Rate    int              `json:"rate"`
	Frame   *dashboard.Frame `json:"frame,omitempty"`
}

// errReplan ends a loop invocation early so a new plan can take over.
var errReplan = errors.New("replan")

// stream is one websocket connection and the session it owns.
type stream struct {
	id      string
	conn    *websocket.Conn
	session *dashboard.Session
	live    bool
	rate    int
	log     logrus.FieldLogger
}

func (ws *WebServer) handleStream(w http.ResponseWriter, r *http.Request) {
	preset, maxRange, err := ws.sessionParams(r)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	st := &stream{
		id:      id,
		conn:    conn,
		session: ws.newSession(id, preset, maxRange),
		live:    ws.cfg.Live,
		rate:    ws.cfg.Rate,
		log:     ws.log.WithField("session", id),
	}

	ws.streams.Add(1)
	defer ws.streams.Add(-1)
	st.log.Info("stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	controls := make(chan Control, 8)
	go st.readControls(ctx, cancel, controls)

	err = st.run(ctx, controls)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		st.log.Info("stream closed")
	default:
		st.log.WithError(err).Info("stream ended")
	}
}

// readControls decodes control messages until the connection drops, then
// cancels the stream.
func (st *stream) readControls(ctx context.Context, cancel context.CancelFunc, out chan<- Control) {
	defer cancel()
	for {
		var c Control
		if err := st.conn.ReadJSON(&c); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				st.log.WithError(err).Debug("read control")
			}
			return
		}
		select {
		case out <- c:
		case <-ctx.Done():
			return
		}
	}
}

// run drives the session with the refresh loop. A live plan renders
// rate × window frames and starts again; a paused one renders a single
// frame and waits for the next control message.
func (st *stream) run(ctx context.Context, controls <-chan Control) error {
	if err := st.send(Message{Type: "hello", Session: st.id, Live: st.live, Rate: st.rate}); err != nil {
		return err
	}

	for {
		plan := loop.NewPlan(st.rate, st.live)
		_, err := loop.Run(ctx, plan, func(ctx context.Context, _ int) error {
			select {
			case c := <-controls:
				if st.apply(c) {
					return errReplan
				}
			default:
			}
			return st.sendFrame(ctx)
		})
		switch {
		case errors.Is(err, errReplan):
			continue
		case err != nil:
			return err
		}

		if st.live {
			// Keep the cadence across invocations.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(plan.Interval()):
			}
			continue
		}
		// Paused: block until the page asks for something.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-controls:
			st.apply(c)
		}
	}
}

// apply changes session settings. It reports whether the loop plan changed.
func (st *stream) apply(c Control) bool {
	replan := false
	if c.Range != nil {
		st.session.SetRange(*c.Range)
	}
	if c.Rescan {
		st.session.Rescan()
	}
	if c.Live != nil && *c.Live != st.live {
		st.live = *c.Live
		replan = true
	}
	if c.Rate != nil {
		if r := config.ClampRate(*c.Rate); r != st.rate {
			st.rate = r
			replan = true
		}
	}
	st.log.WithFields(logrus.Fields{"live": st.live, "rate": st.rate, "range": st.session.Range()}).Debug("control applied")
	return replan
}

func (st *stream) sendFrame(ctx context.Context) error {
	f := st.session.Advance(ctx)
	return st.send(Message{Type: "frame", Live: st.live, Rate: st.rate, Frame: &f})
}

func (st *stream) send(m Message) error {
	if err := st.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return st.conn.WriteJSON(m)
}
