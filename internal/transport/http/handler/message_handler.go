package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Start POST /messages/conversations：两边谁先发起都落到同一条会话
func (h *MessageHandler) Start(c *gin.Context) {
	var in struct {
		UserID    uint  `json:"userId" binding:"required"`
		ListingID *uint `json:"listingId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	conv, err := h.messages.StartOrGet(c.GetUint(mdw.CtxUserID), in.UserID, in.ListingID)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, conv)
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	out, err := h.messages.Conversations(c.GetUint(mdw.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

// Messages GET …/:id/messages?limit=&beforeId=  游标翻页，升序返回
func (h *MessageHandler) Messages(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid conversation id")
		return
	}
	var beforeID uint
	if v := c.Query("beforeId"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			resp.Fail(c, http.StatusBadRequest, "invalid beforeId")
			return
		}
		beforeID = uint(n)
	}
	ms, err := h.messages.Messages(id, c.GetUint(mdw.CtxUserID), intQuery(c, "limit", service.DefaultMessagePageSize), beforeID)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, ms)
}

func (h *MessageHandler) Send(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid conversation id")
		return
	}
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.messages.Send(id, c.GetUint(mdw.CtxUserID), in.Content)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, m)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid conversation id")
		return
	}
	if err := h.messages.MarkRead(id, c.GetUint(mdw.CtxUserID)); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"read": true})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	n, err := h.messages.UnreadCount(c.GetUint(mdw.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"unread": n})
}
