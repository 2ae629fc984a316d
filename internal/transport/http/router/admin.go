package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	mdw "animal-market/internal/transport/http/middleware"
)

// NewAdminEngine 独立后台进程：只挂管理路由，和对外 API 分开端口部署
func NewAdminEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(50, 100),
		mdw.MaxBodyBytes(4<<20),
		mdw.Timeout(15*time.Second),
		mdw.SimpleRecovery(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api")
	MountAdminRoutes(api, d)

	return r
}
