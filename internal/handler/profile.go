package handler

import (
	"net/http"

	"attendance-leave/internal/middleware"
	"attendance-leave/internal/service"

	"github.com/gin-gonic/gin"
)

type registerProfileRequest struct {
	FullName       string `json:"full_name" binding:"required,max=120"`
	Department     string `json:"department" binding:"max=120"`
	MobileNumber   string `json:"mobile_number" binding:"omitempty,max=32"`
	EmployeeCode   string `json:"employee_code" binding:"required,max=32"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
}

type updateProfileRequest struct {
	FullName       string `json:"full_name" binding:"max=120"`
	Department     string `json:"department" binding:"max=120"`
	MobileNumber   string `json:"mobile_number" binding:"omitempty,max=32"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
}

func (h *Handler) registerProfile(c *gin.Context) {
	var req registerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	profile, err := h.profiles.Register(c.Request.Context(), middleware.ProfileID(c), service.RegisterProfileInput{
		FullName:       req.FullName,
		Department:     req.Department,
		MobileNumber:   req.MobileNumber,
		EmployeeCode:   req.EmployeeCode,
		TelegramChatID: req.TelegramChatID,
	}, h.today())
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusCreated, profile)
}

func (h *Handler) getMyProfile(c *gin.Context) {
	profile, err := middleware.CurrentProfile(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}

func (h *Handler) updateMyProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	profile, err := h.profiles.UpdateOwn(c.Request.Context(), middleware.ProfileID(c), service.UpdateProfileInput{
		FullName:       req.FullName,
		Department:     req.Department,
		MobileNumber:   req.MobileNumber,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, profile)
}
