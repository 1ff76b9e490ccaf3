package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prep-ease/quiz-service/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PerformanceHandler struct {
	BaseHandler
	performanceService services.PerformanceService
	reportService      services.ReportService
}

func NewPerformanceHandler(performanceService services.PerformanceService, reportService services.ReportService) *PerformanceHandler {
	return &PerformanceHandler{
		BaseHandler:        NewBaseHandler(),
		performanceService: performanceService,
		reportService:      reportService,
	}
}

// GetMyPerformance returns the caller's rollup for a course.
func (h *PerformanceHandler) GetMyPerformance(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	h.LogRequest(c, "Getting student performance", "course_id", courseID)

	perf, err := h.performanceService.GetStudentPerformance(c.Request.Context(), courseID, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

// GetCourseRoster returns every student's rollup, for the teacher view.
func (h *PerformanceHandler) GetCourseRoster(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Getting course roster", "course_id", courseID)

	roster, err := h.performanceService.GetCourseRoster(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// ExportRoster streams the roster rollup as an XLSX download.
func (h *PerformanceHandler) ExportRoster(c *gin.Context) {
	courseID := h.parseIDParam(c, "course_id")
	if courseID == 0 {
		return
	}

	h.LogRequest(c, "Exporting course roster", "course_id", courseID)

	workbook, err := h.reportService.ExportCourseRoster(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("course-%d-performance.xlsx", courseID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}
