package handler

import (
	"net/http"
	"strconv"

	"attendance-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) checkIn(c *gin.Context) {
	record, err := h.attendance.CheckIn(c.Request.Context(), middleware.ProfileID(c), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, record)
}

func (h *Handler) checkOut(c *gin.Context) {
	record, err := h.attendance.CheckOut(c.Request.Context(), middleware.ProfileID(c), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"record":   record,
		"duration": record.Duration(),
	})
}

func (h *Handler) attendanceStatus(c *gin.Context) {
	status, err := h.attendance.Status(c.Request.Context(), middleware.ProfileID(c), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, status)
}

func (h *Handler) attendanceHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.Fail(c, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}

	records, err := h.attendance.History(c.Request.Context(), middleware.ProfileID(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, records)
}

// attendanceByDate lists everyone's records for ?date=, today by default.
func (h *Handler) attendanceByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = h.attendance.Today(h.now())
	}

	records, err := h.attendance.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, records)
}
