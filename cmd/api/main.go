package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"animal-market/internal/core/auth"
	"animal-market/internal/core/cache"
	"animal-market/internal/core/config"
	"animal-market/internal/core/database"
	"animal-market/internal/core/logger"
	"animal-market/internal/core/server"
	"animal-market/internal/domain"
	"animal-market/internal/repo"
	"animal-market/internal/service"
	"animal-market/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Listing{},
			&domain.ListingImage{},
			&domain.Favorite{},
			&domain.Conversation{},
			&domain.Message{},
			&domain.Rating{},
			&domain.Report{},
			&domain.Notification{},
			&domain.Announcement{},
			&domain.FAQItem{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis：CSRF 令牌、在线统计、列表缓存
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	d := buildDeps(cfg, log, db, c, jwter)
	r := router.NewAPIEngine(d)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("market api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("market api start FAILED", zap.Error(err))
		}
	}()
	log.Info("market api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("market api stopped gracefully")
}

func buildDeps(cfg *config.Config, log *zap.Logger, db *gorm.DB, c *cache.Cache, jwter *auth.JWTer) router.Deps {
	users := repo.NewUserRepo(db)
	listings := repo.NewListingRepo(db)
	convs := repo.NewConversationRepo(db)
	favorites := repo.NewFavoriteRepo(db)
	ratings := repo.NewRatingRepo(db)
	reports := repo.NewReportRepo(db)
	notifs := repo.NewNotificationRepo(db)

	notify := service.NewNotificationService(notifs, users, log)

	return router.Deps{
		Log:   log,
		DB:    db,
		JWT:   jwter,
		Cache: c,
		Cfg:   cfg,

		Users:         service.NewUserService(users, ratings, jwter),
		Listings:      service.NewListingService(listings, favorites, notify, c, log, cfg.Upload.MaxFiles),
		Messages:      service.NewMessageService(convs, users, notify),
		Favorites:     service.NewFavoriteService(favorites, listings),
		Ratings:       service.NewRatingService(ratings, users),
		Reports:       service.NewReportService(reports, listings),
		Notifications: notify,
		Stats:         service.NewStatsService(users, listings, reports, convs, notifs, favorites, c, log),
	}
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
