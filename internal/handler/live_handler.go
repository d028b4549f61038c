package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/model"
	ws "github.com/stemsi/exam-portal/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// LiveHandler streams accepted submissions of an exam to its author.
type LiveHandler struct {
	reports      Reporter
	feed         FeedSubscriber
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	log          zerolog.Logger
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(reports Reporter, feed FeedSubscriber, allowedOrigins []string, log zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		reports:      reports,
		feed:         feed,
		upgrader:     buildUpgrader(allowedOrigins),
		pingInterval: ws.PingInterval,
		log:          log.With().Str("component", "live_handler").Logger(),
	}
}

// WatchResults godoc
// GET /teacher/exam/:id/live (WebSocket)
// Sends a results snapshot, then one message per accepted submission.
func (h *LiveHandler) WatchResults(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Ownership is checked before the upgrade so errors use the normal envelope.
	results, err := h.reports.ExamResults(ctx, id, examID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int64("exam_id", examID).Int64("teacher_id", id.UserID).Logger()

	pubsub := h.feed.Subscribe(ctx, examID)
	defer pubsub.Close()

	// Wait for the subscription so no submission after the snapshot is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Subscribe to results channel failed")
		_ = ws.WriteError(conn, "live feed unavailable")
		return
	}

	if err := ws.WriteTyped(conn, ws.SnapshotMessage{
		Event:    ws.EventSnapshot,
		ExamID:   results.Exam.ID,
		ExamName: results.Exam.Name,
		Attempts: len(results.Attempts),
		Summary:  results.Summary,
	}); err != nil {
		return
	}

	wsLog.Info().Msg("Teacher attached to live results")

	closed := ws.WatchClose(conn)
	messages := pubsub.Channel()
	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-closed:
			wsLog.Info().Msg("Teacher detached from live results")
			return

		case msg, ok := <-messages:
			if !ok {
				return
			}
			var ev model.SubmissionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed submission event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.SubmissionMessage{Event: ws.EventSubmission, Submission: ev}); err != nil {
				return
			}

		case <-ping.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}
