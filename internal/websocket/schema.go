package websocket

import (
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/stats"
)

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot   Event = "snapshot"
	EventSubmission Event = "submission"
	EventPing       Event = "ping"
	EventError      Event = "error"
)

// SnapshotMessage is sent once after connecting: the results as they stand.
type SnapshotMessage struct {
	Event    Event         `json:"event"`
	ExamID   int64         `json:"exam_id"`
	ExamName string        `json:"exam_name"`
	Attempts int           `json:"attempts"`
	Summary  stats.Summary `json:"summary"`
}

// SubmissionMessage relays one accepted submission.
type SubmissionMessage struct {
	Event      Event                 `json:"event"`
	Submission model.SubmissionEvent `json:"submission"`
}

type PingMessage struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
