package handler

import (
	"net/http"

	"attendance-leave/internal/middleware"
	"attendance-leave/internal/models"
	"attendance-leave/internal/service"

	"github.com/gin-gonic/gin"
)

type applyLeaveRequest struct {
	LeaveType string `json:"leaveType" binding:"required,leavetype"`
	StartDate string `json:"startDate" binding:"required,isodate"`
	EndDate   string `json:"endDate" binding:"required,isodate"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type decideLeaveRequest struct {
	Status  string `json:"status" binding:"required,decision"`
	Remarks string `json:"remarks" binding:"max=1000"`
}

func (h *Handler) applyLeave(c *gin.Context) {
	var req applyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.leaves.Submit(c.Request.Context(), middleware.ProfileID(c), service.ApplyLeaveInput{
		LeaveType: models.LeaveType(req.LeaveType),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, request)
}

func (h *Handler) myLeaves(c *gin.Context) {
	requests, err := h.leaves.ListMine(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, requests)
}

func (h *Handler) cancelLeave(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	request, err := h.leaves.Cancel(c.Request.Context(), id, middleware.ProfileID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, request)
}

func (h *Handler) decideLeave(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req decideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.leaves.Decide(c.Request.Context(), id, middleware.ProfileID(c), models.LeaveStatus(req.Status), req.Remarks)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, request)
}

func (h *Handler) listLeaves(c *gin.Context) {
	requests, err := h.leaves.ListAll(c.Request.Context(), models.LeaveStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, requests)
}
