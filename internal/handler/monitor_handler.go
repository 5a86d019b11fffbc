package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Osuolale-Olalekan/CBT-app/internal/config"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

const (
	monitorWriteWait = 10 * time.Second
	monitorPingEvery = 30 * time.Second
)

// MonitorHandler streams live submission events for one exam to admins over
// a WebSocket, backed by the exam's Redis pub/sub channel.
type MonitorHandler struct {
	reports  *service.ReportService
	rdb      *redis.Client
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewMonitorHandler creates a new MonitorHandler. allowedOrigins mirrors the
// HTTP CORS allowlist; empty means all origins.
func NewMonitorHandler(reports *service.ReportService, rdb *redis.Client, allowedOrigins []string, logger zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		reports: reports,
		rdb:     rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
		logger: logger.With().Str("component", "monitor_handler").Logger(),
	}
}

// Monitor handles GET /ws/v1/exams/:exam_id/monitor. It sends a snapshot of
// session counts on connect, then relays every event published on the
// exam's channel until the client disconnects.
func (h *MonitorHandler) Monitor(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	snapshot, err := h.reports.MonitorSnapshot(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := h.writeJSON(conn, snapshot); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.ExamMonitorChannel(examID.String()))
	defer sub.Close()

	// Drain client frames so close and pong handling work; the monitor is
	// write-only from the server side.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(monitorPingEvery)
	defer ticker.Stop()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-events:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(monitorWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(monitorWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *MonitorHandler) writeJSON(conn *websocket.Conn, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(monitorWriteWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
