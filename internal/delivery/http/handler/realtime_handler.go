package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pharmalink/internal/converter"
	"pharmalink/internal/delivery/dto"
	"pharmalink/internal/delivery/http/middleware"
	"pharmalink/internal/domain/entity"
	"pharmalink/internal/metrics"
	"pharmalink/internal/realtime"
	"pharmalink/internal/service"
	"pharmalink/pkg/i18n"
	"pharmalink/pkg/response"
	"pharmalink/pkg/validator"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 4096
	wsSendBuffer     = 32
)

type RealtimeHandler struct {
	loader    service.DemandeLoader
	feed      realtime.Feed
	upgrader  websocket.Upgrader
	validator *validator.CustomValidator
	log       *logrus.Logger
	metrics   *metrics.Metrics
}

func NewRealtimeHandler(
	loader service.DemandeLoader,
	feed realtime.Feed,
	cors *middleware.CORSMiddleware,
	validator *validator.CustomValidator,
	log *logrus.Logger,
	m *metrics.Metrics,
) *RealtimeHandler {
	return &RealtimeHandler{
		loader: loader,
		feed:   feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cors.AllowOrigin(r.Header.Get("Origin"))
			},
		},
		validator: validator,
		log:       log,
		metrics:   m,
	}
}

// Serve upgrades the request and runs one RequestSync for the caller until
// the socket closes.
// @Summary Realtime demande feed
// @Tags Realtime
// @Security BearerAuth
// @Router /realtime [get]
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	role, hasRole := middleware.GetRoleFromContext(r.Context())
	if !ok || !hasRole {
		response.Unauthorized(w, i18n.T(lang(r), i18n.MsgInvalidToken))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.log.Warnf("Failed to upgrade realtime connection: %+v", err)
		return
	}

	h.metrics.SessionOpened()
	defer h.metrics.SessionClosed()

	session := newWSSession(conn, h.log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	requestSync := service.NewRequestSync(h.loader, h.feed, session, h.log, h.metrics)
	defer requestSync.Close()

	base := service.SyncOptions{
		UserID: userID,
		Role:   role,
		OnNewDemande: func(e realtime.Event) {
			session.send(dto.ServerFrame{Type: dto.FrameNewDemande, Data: e.Record})
		},
		OnNewProposition: func(e realtime.Event) {
			session.send(dto.ServerFrame{Type: dto.FrameNewProposition, Data: e.Record})
		},
		OnChange: func(snapshot service.SyncSnapshot) {
			session.send(snapshotFrame(snapshot))
		},
	}

	go session.writePump()

	if err := requestSync.Start(ctx, base); err != nil {
		h.log.Warnf("Initial demande load failed for %s: %+v", userID, err)
	}

	session.readPump(func(frame dto.ClientFrame) {
		switch frame.Type {
		case dto.FrameConfigure:
			if err := h.validator.Validate(&frame); err != nil {
				session.send(dto.ServerFrame{Type: dto.FrameError, Error: i18n.T(lang(r), i18n.MsgValidationFailed)})
				return
			}
			opts := base
			opts.Status = entity.DemandeStatus(frame.Status)
			opts.Limit = frame.Limit
			opts.EnableHaptics = frame.Haptics
			if err := requestSync.Reconfigure(ctx, opts); err != nil {
				h.log.Warnf("Failed to reconfigure realtime session for %s: %+v", userID, err)
			}
		case dto.FrameRefresh:
			if err := requestSync.Refresh(ctx); err != nil {
				h.log.Warnf("Failed to refresh realtime session for %s: %+v", userID, err)
			}
		default:
			session.send(dto.ServerFrame{Type: dto.FrameError, Error: i18n.T(lang(r), i18n.MsgInvalidBody)})
		}
	})

	session.close()
}

func snapshotFrame(snapshot service.SyncSnapshot) dto.ServerFrame {
	data := dto.SnapshotData{
		Demandes: converter.DemandesToResponses(snapshot.Demandes),
		Stats:    snapshot.Stats,
		Loading:  snapshot.Loading,
	}
	if snapshot.Err != nil {
		data.Error = snapshot.Err.Error()
	}
	return dto.ServerFrame{Type: dto.FrameSnapshot, Data: data}
}

// wsSession serializes writes to one socket. It is the sync's Pulser.
type wsSession struct {
	conn *websocket.Conn
	log  *logrus.Logger

	out       chan dto.ServerFrame
	done      chan struct{}
	closeOnce sync.Once
}

func newWSSession(conn *websocket.Conn, log *logrus.Logger) *wsSession {
	return &wsSession{
		conn: conn,
		log:  log,
		out:  make(chan dto.ServerFrame, wsSendBuffer),
		done: make(chan struct{}),
	}
}

func (s *wsSession) Pulse(_ context.Context, style service.HapticStyle) {
	s.send(dto.ServerFrame{Type: dto.FrameHaptic, Style: string(style)})
}

func (s *wsSession) send(frame dto.ServerFrame) {
	select {
	case s.out <- frame:
	case <-s.done:
	}
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *wsSession) readPump(handle func(dto.ClientFrame)) {
	s.conn.SetReadLimit(wsMaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var frame dto.ClientFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warnf("Realtime read error: %+v", err)
			}
			return
		}
		handle(frame)
	}
}

func (s *wsSession) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case frame := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				s.log.Warnf("Realtime write error: %+v", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
