package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"animal-market/internal/domain"
	"animal-market/internal/service"
	resp "animal-market/internal/transport/http/response"
)

type AdminHandler struct {
	listings *service.ListingService
	users    *service.UserService
}

func NewAdminHandler(listings *service.ListingService, users *service.UserService) *AdminHandler {
	return &AdminHandler{listings: listings, users: users}
}

// Listings 审核队列：?status=pending|approved|rejected，空 = 全部
func (h *AdminHandler) Listings(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", domain.StatusPending, domain.StatusApproved, domain.StatusRejected:
	default:
		resp.Fail(c, http.StatusBadRequest, "invalid status")
		return
	}
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 20)
	f := parseFilter(c)
	f.Status = status
	items, total, err := h.listings.Discover(f, c.Query("sort"), page, pageSize, true)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OKPage(c, items, resp.NewPagination(page, pageSize, total))
}

func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	l, err := h.listings.Approve(id)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, l)
}

func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	var in struct {
		Reason string `json:"reason" binding:"max=255"`
	}
	_ = c.ShouldBindJSON(&in) // 原因可省，服务层补占位文案
	l, err := h.listings.Reject(id, in.Reason)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, l)
}

// Users 用户列表：?q= 按 email/displayName 模糊搜
func (h *AdminHandler) Users(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "pageSize", 20)
	us, total, err := h.users.AdminList(c.Query("q"), page, pageSize)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OKPage(c, us, resp.NewPagination(page, pageSize, total))
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var in struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.users.SetRole(id, in.Role); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "role": in.Role})
}

func (h *AdminHandler) Ban(c *gin.Context)   { h.setBan(c, true) }
func (h *AdminHandler) Unban(c *gin.Context) { h.setBan(c, false) }

func (h *AdminHandler) setBan(c *gin.Context, banned bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.users.SetBanned(id, banned); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "banned": banned})
}
