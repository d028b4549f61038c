package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/service"
	"github.com/stemsi/exam-portal/internal/stats"
	ws "github.com/stemsi/exam-portal/internal/websocket"
)

func liveServer(t *testing.T, reports *mockReporter) (*httptest.Server, *service.ResultFeed) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	feed := service.NewResultFeed(rdb)
	h := NewLiveHandler(reports, feed, nil, zerolog.Nop())
	h.pingInterval = 50 * time.Millisecond

	r := gin.New()
	r.GET("/teacher/exam/:id/live", asUser(teacherClaims), h.WatchResults)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, feed
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestWatchResultsStreamsSubmissions(t *testing.T) {
	reports := new(mockReporter)
	reports.On("ExamResults", mock.Anything, teacherClaims.Identity(), int64(7)).Return(&service.ExamResults{
		Exam:     &model.Exam{ID: 7, Name: "Optics"},
		Attempts: []model.AttemptRecord{{}, {}},
		Summary:  stats.Summary{Count: 1, Average: 90},
	}, nil)
	srv, feed := liveServer(t, reports)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/teacher/exam/7/live"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snap ws.SnapshotMessage
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, ws.EventSnapshot, snap.Event)
	assert.Equal(t, int64(7), snap.ExamID)
	assert.Equal(t, "Optics", snap.ExamName)
	assert.Equal(t, 2, snap.Attempts)
	assert.Equal(t, 90.0, snap.Summary.Average)

	require.NoError(t, feed.PublishSubmission(context.Background(), model.SubmissionEvent{
		ExamID:    7,
		AttemptID: 31,
		Username:  "s.curie",
		Score:     75,
	}))
	// Another exam's channel must not leak into this stream.
	require.NoError(t, feed.PublishSubmission(context.Background(), model.SubmissionEvent{ExamID: 8, AttemptID: 99}))

	for {
		var raw map[string]any
		require.NoError(t, conn.ReadJSON(&raw))
		if raw["event"] == string(ws.EventPing) {
			continue
		}
		assert.Equal(t, string(ws.EventSubmission), raw["event"])
		sub := raw["submission"].(map[string]any)
		assert.Equal(t, float64(31), sub["attempt_id"])
		assert.Equal(t, "s.curie", sub["username"])
		assert.Equal(t, float64(75), sub["score"])
		break
	}
}

func TestWatchResultsSendsPings(t *testing.T) {
	reports := new(mockReporter)
	reports.On("ExamResults", mock.Anything, mock.Anything, int64(7)).Return(&service.ExamResults{
		Exam: &model.Exam{ID: 7},
	}, nil)
	srv, _ := liveServer(t, reports)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/teacher/exam/7/live"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var snap ws.SnapshotMessage
	require.NoError(t, conn.ReadJSON(&snap))

	var ping ws.PingMessage
	require.NoError(t, conn.ReadJSON(&ping))
	assert.Equal(t, ws.EventPing, ping.Event)
}

func TestWatchResultsRejectsBeforeUpgrade(t *testing.T) {
	reports := new(mockReporter)
	reports.On("ExamResults", mock.Anything, mock.Anything, int64(9)).Return(nil, service.ErrNotFound)
	srv, _ := liveServer(t, reports)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/teacher/exam/9/live"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
