package service

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/stemsi/exam-portal/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportService renders report read models as spreadsheets.
type ExportService struct {
	reports *ReportService
}

// NewExportService creates a new ExportService.
func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{reports: reports}
}

// ExportExamResults writes the caller's exam results as an xlsx workbook to w
// and returns a suggested file name.
func (s *ExportService) ExportExamResults(ctx context.Context, id Identity, examID int64, w io.Writer) (string, error) {
	res, err := s.reports.ExamResults(ctx, id, examID)
	if err != nil {
		return "", err
	}
	if err := WriteResultsWorkbook(res, w); err != nil {
		return "", err
	}
	return ResultsFilename(res.Exam), nil
}

// ResultsFilename derives a download name from the exam name.
func ResultsFilename(e *model.Exam) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(e.Name, "_"), "_")
	if name == "" {
		name = "exam"
	}
	return fmt.Sprintf("%s-%d-results.xlsx", name, e.ID)
}

// WriteResultsWorkbook renders one row per attempt plus a summary sheet.
func WriteResultsWorkbook(res *ExamResults, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := []any{"Student", "State", "Score", "Started At", "Submitted At"}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(resultsSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, a := range res.Attempts {
		row := []any{a.Username, string(a.State()), "", a.StartedAt.Format(time.RFC3339), ""}
		if a.Score != nil {
			row[2] = *a.Score
		}
		if a.SubmittedAt != nil {
			row[4] = a.SubmittedAt.Format(time.RFC3339)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	summary := [][]any{
		{"Exam", res.Exam.Name},
		{"Subject", res.Exam.SubjectName},
		{"Submitted", res.Summary.Count},
		{"Average", res.Summary.Average},
		{"Pass Rate (%)", res.Summary.PassRate},
		{"Passing", res.Summary.PassingCount},
		{"Highest", res.Summary.Highest},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
