package handler

import (
	"net/http"
	"strconv"

	"attendance-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

const notificationPageSize = 50

func (h *Handler) listNotifications(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	ctx := c.Request.Context()
	profileID := middleware.ProfileID(c)

	notes, err := h.notifications.List(ctx, profileID, unreadOnly, notificationPageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	unread, err := h.notifications.UnreadCount(ctx, profileID)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"notifications": notes,
		"unread":        unread,
	})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id, middleware.ProfileID(c)); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "read": true})
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"updated": n})
}
