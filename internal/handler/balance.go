package handler

import (
	"net/http"

	"attendance-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) myBalances(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	balances, err := h.balances.ListBalances(c.Request.Context(), middleware.ProfileID(c), year)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, balances)
}

func (h *Handler) employeeBalances(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	balances, err := h.balances.ListBalances(c.Request.Context(), profile.ID, year)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"profile":  profile,
		"balances": balances,
	})
}
