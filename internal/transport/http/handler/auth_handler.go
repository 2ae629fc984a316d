package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8"`
		DisplayName string `json:"displayName" binding:"required,max=64"`
		Country     string `json:"country" binding:"max=64"`
		City        string `json:"city" binding:"max=64"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.users.Register(in.Email, in.Password, in.DisplayName, in.Country, in.City)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.users.Login(in.Email, in.Password)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.users.Me(c.GetUint(mdw.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.users.ChangePassword(c.GetUint(mdw.CtxUserID), in.CurrentPassword, in.NewPassword); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"changed": true})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var in service.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.UpdateProfile(c.GetUint(mdw.CtxUserID), in)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

func (h *AuthHandler) PublicProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	p, err := h.users.PublicProfile(uint(id))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, p)
}
