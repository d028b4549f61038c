package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/model"
	"github.com/stemsi/exam-portal/internal/response"
	"github.com/stemsi/exam-portal/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TeacherHandler serves the teacher pages: dashboard, authoring and results.
type TeacherHandler struct {
	authoring ExamAuthoring
	directory Directory
	reports   Reporter
	exporter  Exporter
	log       zerolog.Logger
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(
	authoring ExamAuthoring,
	directory Directory,
	reports Reporter,
	exporter Exporter,
	log zerolog.Logger,
) *TeacherHandler {
	return &TeacherHandler{
		authoring: authoring,
		directory: directory,
		reports:   reports,
		exporter:  exporter,
		log:       log.With().Str("component", "teacher_handler").Logger(),
	}
}

// Dashboard godoc
// GET /teacher/
// Own exams newest first with completion and score figures.
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	dash, err := h.reports.TeacherDashboard(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, dash)
}

// CreateExamForm godoc
// GET /teacher/create/
func (h *TeacherHandler) CreateExamForm(c *gin.Context) {
	form, err := h.directory.ExamForm(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, form)
}

// CreateExam godoc
// POST /teacher/create/
// Creates an exam under a subject and points the client at its detail page.
func (h *TeacherHandler) CreateExam(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.authoring.CreateExam(c.Request.Context(), id, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"exam":     exam,
		"redirect": fmt.Sprintf("/teacher/exam/%d/", exam.ID),
	})
}

// ExamDetail godoc
// GET /teacher/exam/:id/
// The exam and its questions including correct-option markers.
func (h *TeacherHandler) ExamDetail(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.authoring.GetForAuthor(c.Request.Context(), id, examID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// AddQuestion godoc
// POST /teacher/exam/:id/
func (h *TeacherHandler) AddQuestion(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.authoring.AddQuestion(c.Request.Context(), id, examID, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, q)
}

// ExamResults godoc
// GET /teacher/exam/:id/results/
func (h *TeacherHandler) ExamResults(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.reports.ExamResults(c.Request.Context(), id, examID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ExportResults godoc
// GET /teacher/exam/:id/results/export
// Downloads the results page as an xlsx workbook.
func (h *TeacherHandler) ExportResults(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	examID, ok := parseID(c, "id")
	if !ok {
		return
	}

	// Render fully before writing so failures still produce a JSON error.
	var buf bytes.Buffer
	filename, err := h.exporter.ExportExamResults(c.Request.Context(), id, examID, &buf)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Students godoc
// GET /teacher/students/
// Approved students enrolled in any of the caller's courses.
func (h *TeacherHandler) Students(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	students, err := h.reports.TeacherStudents(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students, "count": len(students)})
}
