package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 20)
	unreadOnly := c.Query("unread") == "true"
	ns, total, err := h.notifications.Inbox(c.GetUint(mdw.CtxUserID), unreadOnly, page, pageSize)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OKPage(c, ns, resp.NewPagination(page, pageSize, total))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.GetUint(mdw.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.notifications.MarkRead(id, c.GetUint(mdw.CtxUserID)); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"read": true})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.GetUint(mdw.CtxUserID)); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"read": true})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.notifications.Delete(id, c.GetUint(mdw.CtxUserID)); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
