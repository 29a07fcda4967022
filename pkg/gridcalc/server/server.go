// Package server exposes a gridcalc workbook to a browser over a websocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"go.alis.build/alog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 16
)

// Handler upgrades HTTP requests to websocket sessions. Each session owns
// one workbook, so edits from one connection never race with another.
type Handler struct {
	opts     gridcalc.Options
	store    gridcalc.SheetStore
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler. An empty allowedOrigins accepts any origin;
// otherwise the Origin header must match one entry exactly.
func NewHandler(opts gridcalc.Options, store gridcalc.SheetStore, allowedOrigins []string) *Handler {
	h := &Handler{opts: opts, store: store}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin != "" && slices.Contains(allowedOrigins, origin) {
				return true
			}
			alog.Warnf(r.Context(), "rejected websocket origin %q from %s", origin, r.RemoteAddr)
			return false
		},
	}
	return h
}

type session struct {
	id   string
	conn *websocket.Conn
	wb   *gridcalc.Workbook
	send chan Response
	// done is closed when the write pump exits.
	done chan struct{}
}

// reply queues resp unless the write pump has already exited.
func (s *session) reply(resp Response) bool {
	select {
	case s.send <- resp:
		return true
	case <-s.done:
		return false
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wb, err := gridcalc.New(h.opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.store != nil {
		wb.SetStore(h.store)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		alog.Warnf(r.Context(), "websocket upgrade: %v", err)
		return
	}

	s := &session{
		id:   uuid.New().String(),
		conn: conn,
		wb:   wb,
		send: make(chan Response, sendBuffer),
		done: make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alog.Infof(ctx, "session %s connected from %s", s.id, r.RemoteAddr)
	go func() {
		defer close(s.done)
		s.writePump(ctx)
	}()

	hello := Response{Type: TypeHello, Session: s.id}
	s.snapshot(&hello)
	if s.reply(hello) {
		s.readPump(ctx)
	}
	cancel()
	<-s.done
	alog.Infof(ctx, "session %s closed", s.id)
}

func (s *session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				alog.Errorf(ctx, "session %s: read: %v", s.id, err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			if !s.reply(Response{Type: TypeError, Error: "malformed request: " + err.Error()}) {
				return
			}
			continue
		}
		alog.Debugf(ctx, "session %s: %s %s", s.id, req.Type, req.Address)
		if !s.reply(s.handle(ctx, req)) {
			return
		}
	}
}

func (s *session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case resp := <-s.send:
			data, err := json.Marshal(resp)
			if err != nil {
				alog.Errorf(ctx, "session %s: encode %s: %v", s.id, resp.Type, err)
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				alog.Warnf(ctx, "session %s: write: %v", s.id, err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
