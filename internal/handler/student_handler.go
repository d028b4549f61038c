package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/response"
	"github.com/stemsi/exam-portal/internal/service"
	"github.com/stemsi/exam-portal/internal/validator"
)

// maxAnswers bounds a submission body; no exam comes close.
const maxAnswers = 1000

// StudentHandler serves the student pages: dashboard, taking an exam and history.
type StudentHandler struct {
	attempts AttemptRunner
	reports  Reporter
	log      zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(attempts AttemptRunner, reports Reporter, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		attempts: attempts,
		reports:  reports,
		log:      log.With().Str("component", "student_handler").Logger(),
	}
}

// Dashboard godoc
// GET /student/
// Active exams of the caller's course with progress and score figures.
func (h *StudentHandler) Dashboard(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	dash, err := h.reports.StudentDashboard(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, dash)
}

// TakeExam godoc
// GET /student/exam/:id/
// Opens the caller's attempt and returns the questions without answers.
// A submitted attempt is reported with state SUBMITTED and no questions.
func (h *StudentHandler) TakeExam(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.attempts.BeginAttempt(c.Request.Context(), id, examID)
	if errors.Is(err, service.ErrAlreadySubmitted) && view != nil {
		response.SuccessWithError(c, http.StatusOK, view, response.ErrAlreadySubmitted)
		return
	}
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SubmitExam godoc
// POST /student/exam/:id/
// Grades the answers and locks the attempt. Accepts JSON
// {"answers": {"<question id>": "option2"}} or form fields named by question id.
func (h *StudentHandler) SubmitExam(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	req, fields := bindAnswers(c)
	if fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.attempts.SubmitAttempt(c.Request.Context(), id, examID, req.Answers)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"attempt":  out.Attempt,
		"score":    out.Score,
		"matched":  out.Matched,
		"total":    out.Total,
		"redirect": "/student/history/",
	})
}

// History godoc
// GET /student/history/
func (h *StudentHandler) History(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	hist, err := h.reports.StudentHistory(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, hist)
}

// bindAnswers normalizes a JSON, urlencoded or multipart submission into
// SubmitAnswersRequest. Form keys that are not question IDs are ignored.
// Any other content type is rejected so a body that cannot be read never
// reaches grading.
func bindAnswers(c *gin.Context) (model.SubmitAnswersRequest, map[string]string) {
	var req model.SubmitAnswersRequest

	switch c.ContentType() {
	case binding.MIMEJSON:
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, validator.TranslateErrors(err)
		}
	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return req, validator.TranslateErrors(err)
		}
		req.Answers = answersFromForm(c.Request.PostForm)
	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return req, validator.TranslateErrors(err)
		}
		req.Answers = answersFromForm(form.Value)
	default:
		return req, map[string]string{"content_type": "unsupported content type " + strconv.Quote(c.ContentType())}
	}

	if len(req.Answers) > maxAnswers {
		return req, map[string]string{"answers": "too many answers"}
	}
	return req, nil
}

func answersFromForm(values map[string][]string) map[int64]string {
	answers := make(map[int64]string, len(values))
	for key, vals := range values {
		qid, err := strconv.ParseInt(key, 10, 64)
		if err != nil || len(vals) == 0 {
			continue
		}
		answers[qid] = vals[0]
	}
	return answers
}
