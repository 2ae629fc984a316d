package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type FavoriteHandler struct {
	favorites *service.FavoriteService
}

func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	id, ok := uintParam(c, "listingId")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	out, err := h.favorites.Add(c.GetUint(mdw.CtxUserID), id)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	id, ok := uintParam(c, "listingId")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	if err := h.favorites.Remove(c.GetUint(mdw.CtxUserID), id); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"favorited": false})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	out, err := h.favorites.List(c.GetUint(mdw.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *FavoriteHandler) Status(c *gin.Context) {
	id, ok := uintParam(c, "listingId")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	favorited, err := h.favorites.IsFavorited(c.GetUint(mdw.CtxUserID), id)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"favorited": favorited})
}
