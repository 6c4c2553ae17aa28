package handler

import (
	"fmt"
	"net/http"
	"time"

	"attendance-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) dashboard(c *gin.Context) {
	summary, err := h.reports.Dashboard(c.Request.Context(), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.profiles.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, employees)
}

// attendanceReport streams an XLSX workbook for ?month=YYYY-MM, the current
// month by default.
func (h *Handler) attendanceReport(c *gin.Context) {
	month := h.today()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			middleware.Fail(c, http.StatusBadRequest, "month must use the YYYY-MM format")
			return
		}
		month = parsed
	}

	f, err := h.reports.MonthlyAttendanceReport(c.Request.Context(), month.Year(), int(month.Month()))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("attendance-%s.xlsx", month.Format("2006-01"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("Failed to write report")
	}
}
