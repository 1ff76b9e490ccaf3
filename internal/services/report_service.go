package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// reportService renders performance rollups as XLSX workbooks for the
// teacher analytics view.
type reportService struct {
	performance PerformanceService
	logger      *slog.Logger
}

func NewReportService(performance PerformanceService, logger *slog.Logger) ReportService {
	return &reportService{
		performance: performance,
		logger:      logger,
	}
}

func (s *reportService) ExportCourseRoster(ctx context.Context, courseID uint) ([]byte, error) {
	roster, err := s.performance.GetCourseRoster(ctx, courseID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.ErrorContext(ctx, "Failed to close workbook", "error", err)
		}
	}()

	const sheet = "Performance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Student ID", "Student Name",
		"Assignments Submitted", "Assignments Total", "Assignment Avg",
		"Quizzes Attempted", "Quiz Avg",
		"Performance Score", "Risk Status",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
	}

	for row, perf := range roster {
		values := []interface{}{
			perf.StudentID,
			perf.StudentName,
			perf.Assignments.Submitted,
			perf.Assignments.Total,
			perf.Assignments.AverageScore,
			perf.Quizzes.Attempted,
			perf.Quizzes.AverageScore,
			perf.PerformanceScore,
			string(perf.RiskStatus),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Roster exported",
		"course_id", courseID,
		"students", len(roster))
	return buf.Bytes(), nil
}
