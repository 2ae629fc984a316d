package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"animal-market/internal/core/auth"
	"animal-market/internal/core/cache"
	"animal-market/internal/core/config"
	"animal-market/internal/domain"
	"animal-market/internal/service"
	"animal-market/internal/transport/http/handler"
	mdw "animal-market/internal/transport/http/middleware"
)

type Deps struct {
	Log   *zap.Logger
	DB    *gorm.DB
	JWT   *auth.JWTer
	Cache *cache.Cache
	Cfg   *config.Config

	Users         *service.UserService
	Listings      *service.ListingService
	Messages      *service.MessageService
	Favorites     *service.FavoriteService
	Ratings       *service.RatingService
	Reports       *service.ReportService
	Notifications *service.NotificationService
	Stats         *service.StatsService
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(32<<20), // 图片上传要留余量
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 上传文件静态托管
	r.Static(d.Cfg.Upload.PublicPath, d.Cfg.Upload.Dir)

	csrf := mdw.NewCSRF(d.Cache, time.Duration(d.Cfg.CSRF.TTLMin)*time.Minute)

	api := r.Group("/api")
	api.Use(csrf.Verify()) // 写请求统一走双提交校验

	// 站点访问量：公开 GET 计一跳，失败只记日志
	api.Use(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			d.Stats.TrackVisit(c.Request.Context())
		}
		c.Next()
	})

	api.GET("/csrf", csrf.IssueHandler)

	authH := handler.NewAuthHandler(d.Users)
	listingH := handler.NewListingHandler(d.Listings, handler.UploadOpts{
		Dir:        d.Cfg.Upload.Dir,
		MaxSizeMB:  d.Cfg.Upload.MaxSizeMB,
		MaxFiles:   d.Cfg.Upload.MaxFiles,
		PublicPath: d.Cfg.Upload.PublicPath,
	}, d.Log)
	messageH := handler.NewMessageHandler(d.Messages)
	favoriteH := handler.NewFavoriteHandler(d.Favorites)
	ratingH := handler.NewRatingHandler(d.Ratings)
	reportH := handler.NewReportHandler(d.Reports)
	notificationH := handler.NewNotificationHandler(d.Notifications)
	statsH := handler.NewStatsHandler(d.Stats)

	// ---- 公开 ----
	// 登录注册单独按 IP 限速，防撞库
	authRate := mdw.RateLimitPerIP(5, 10)
	api.POST("/auth/register", authRate, authH.Register)
	api.POST("/auth/login", authRate, authH.Login)

	api.GET("/animals", listingH.List)
	api.GET("/animals/latest", listingH.Latest)
	api.GET("/animals/slug/:slug", listingH.BySlug)

	api.GET("/users/:id", authH.PublicProfile)
	api.GET("/users/:id/ratings", ratingH.List)

	// 可选登录：登录与否行为不同（本人浏览不计数、游客举报无 reporter）
	optional := api.Group("")
	optional.Use(mdw.OptionalAuth(d.JWT))
	optional.POST("/animals/:id/view", listingH.View)
	optional.POST("/reports", reportH.Create)
	optional.POST("/stats/heartbeat", statsH.Heartbeat)
	optional.GET("/animals/:id", listingH.Get) // 本人/管理员能看未过审的

	// ---- 登录用户 ----
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT))

	authed.GET("/auth/me", authH.Me)
	authed.PATCH("/auth/change-password", authH.ChangePassword)
	authed.PATCH("/users/me", authH.UpdateProfile)

	authed.POST("/animals", listingH.Create)
	authed.GET("/animals/mine", listingH.Mine)
	authed.PATCH("/animals/:id", listingH.Update)
	authed.DELETE("/animals/:id", listingH.Delete)
	authed.PATCH("/animals/:id/availability", listingH.SetAvailability)
	authed.POST("/animals/:id/images", listingH.UploadImages)
	authed.DELETE("/animals/:id/images/:imageId", listingH.DeleteImage)

	authed.GET("/favorites", favoriteH.List)
	authed.POST("/favorites/:listingId", favoriteH.Add)
	authed.DELETE("/favorites/:listingId", favoriteH.Remove)
	authed.GET("/favorites/:listingId/status", favoriteH.Status)

	authed.POST("/messages/conversations", messageH.Start)
	authed.GET("/messages/conversations", messageH.Conversations)
	authed.GET("/messages/conversations/:id/messages", messageH.Messages)
	authed.POST("/messages/conversations/:id/messages", messageH.Send)
	authed.PATCH("/messages/conversations/:id/read", messageH.MarkRead)
	authed.GET("/messages/unread-count", messageH.UnreadCount)

	authed.GET("/notifications", notificationH.List)
	authed.GET("/notifications/unread-count", notificationH.UnreadCount)
	authed.PATCH("/notifications/:id/read", notificationH.MarkRead)
	authed.PATCH("/notifications/read-all", notificationH.MarkAllRead)
	authed.DELETE("/notifications/:id", notificationH.Delete)

	authed.POST("/users/:id/ratings", ratingH.Rate)
	authed.DELETE("/users/:id/ratings", ratingH.Remove)

	authed.GET("/stats/dashboard", statsH.Dashboard)

	// ---- 管理端（/api/admin）----
	MountAdminRoutes(api, d)

	// 公告 / FAQ：公开读 + 管理端维护
	adminContent := api.Group("/admin")
	adminContent.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin, domain.RoleModerator))
	handler.MountContentActions(api, adminContent, d.DB, d.Notifications)

	return r
}

// MountAdminRoutes 审核/用户/举报/统计，API 引擎与独立后台共用
func MountAdminRoutes(root *gin.RouterGroup, d Deps) {
	adminH := handler.NewAdminHandler(d.Listings, d.Users)
	reportH := handler.NewReportHandler(d.Reports)
	statsH := handler.NewStatsHandler(d.Stats)

	// admin + moderator 都能审核
	mod := root.Group("/admin")
	mod.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin, domain.RoleModerator))

	mod.GET("/animals", adminH.Listings)
	mod.PATCH("/animals/:id/approve", adminH.Approve)
	mod.PATCH("/animals/:id/reject", adminH.Reject)

	mod.GET("/reports", reportH.List)
	mod.PATCH("/reports/:id/review", reportH.StartReview)
	mod.PATCH("/reports/:id/close", reportH.Close)
	mod.PATCH("/reports/:id/reject", reportH.Reject)
	mod.PATCH("/reports/:id/dismiss", reportH.Dismiss)

	statsAdmin := root.Group("/stats")
	statsAdmin.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin, domain.RoleModerator))
	statsAdmin.GET("/admin", statsH.Admin)
	statsAdmin.GET("/site-traffic", statsH.SiteTraffic)

	// 角色 / 封禁只有 admin 能动
	adminOnly := root.Group("/admin")
	adminOnly.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin))
	adminOnly.GET("/users", adminH.Users)
	adminOnly.PATCH("/users/:id/role", adminH.SetRole)
	adminOnly.PATCH("/users/:id/ban", adminH.Ban)
	adminOnly.PATCH("/users/:id/unban", adminH.Unban)
}
