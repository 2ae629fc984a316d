package handler

import (
	"github.com/gin-gonic/gin"

	"animal-market/internal/service"
	mdw "animal-market/internal/transport/http/middleware"
	resp "animal-market/internal/transport/http/response"
)

type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Heartbeat 前端每 2 分钟一跳 + 标签页可见性变化时补一跳
func (h *StatsHandler) Heartbeat(c *gin.Context) {
	anon := ""
	if c.GetUint(mdw.CtxUserID) == 0 {
		anon = c.ClientIP()
	}
	h.stats.Heartbeat(c.Request.Context(), c.GetUint(mdw.CtxUserID), anon)
	resp.OK(c, gin.H{"ok": true})
}

func (h *StatsHandler) SiteTraffic(c *gin.Context) {
	out, err := h.stats.SiteTraffic(c.Request.Context(), intQuery(c, "days", 14))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	out, err := h.stats.Dashboard(c.GetUint(mdw.CtxUserID))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *StatsHandler) Admin(c *gin.Context) {
	out, err := h.stats.Admin(c.Request.Context())
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}
