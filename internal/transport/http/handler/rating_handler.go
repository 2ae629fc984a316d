package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type RatingHandler struct {
	ratings *service.RatingService
}

func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// Rate POST /users/:id/ratings：重复评分覆盖
func (h *RatingHandler) Rate(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	var in struct {
		Value  int    `json:"value" binding:"required,min=1,max=5"`
		Review string `json:"review" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	r, err := h.ratings.Rate(c.GetUint(mdw.CtxUserID), id, in.Value, in.Review)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, r)
}

func (h *RatingHandler) List(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	rs, err := h.ratings.ListFor(id)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, rs)
}

func (h *RatingHandler) Remove(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		resp.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.ratings.Remove(c.GetUint(mdw.CtxUserID), id); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
