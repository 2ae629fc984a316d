package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"animal-market/internal/apperr"
	"animal-market/internal/domain"
	"animal-market/internal/service"
	"animal-market/internal/transport/http/ez"
)

// 公告 / FAQ 属于简单的后台内容维护，用 Action 一行一个接口注册。

func MountContentActions(public, admin *gin.RouterGroup, db *gorm.DB, notify *service.NotificationService) {
	ezPublic := ez.New(public)
	ezAdmin := ez.New(admin)

	// --- 公开端 ---

	ez.RegisterAction[struct{}, []domain.Announcement](ezPublic, db, ez.Action[struct{}, []domain.Announcement]{
		Method: http.MethodGet,
		Path:   "/announcements",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.Announcement, error) {
			var as []domain.Announcement
			if err := tx.Where("visible = ?", true).Order("created_at DESC").Find(&as).Error; err != nil {
				return nil, apperr.Internal("list announcements failed", err)
			}
			return as, nil
		},
	})

	ez.RegisterAction[struct{}, []domain.FAQItem](ezPublic, db, ez.Action[struct{}, []domain.FAQItem]{
		Method: http.MethodGet,
		Path:   "/faq",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) ([]domain.FAQItem, error) {
			var fs []domain.FAQItem
			if err := tx.Where("visible = ?", true).Order("position ASC, id ASC").Find(&fs).Error; err != nil {
				return nil, apperr.Internal("list faq failed", err)
			}
			return fs, nil
		},
	})

	// --- 管理端（分组已挂 admin/moderator 鉴权）---

	type announcementIn struct {
		Title   string `json:"title" binding:"required,max=128"`
		Body    string `json:"body"`
		Visible *bool  `json:"visible"`
	}

	ez.RegisterAction[announcementIn, domain.Announcement](ezAdmin, db, ez.Action[announcementIn, domain.Announcement]{
		Method: http.MethodPost,
		Path:   "/announcements",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *announcementIn) (domain.Announcement, error) {
			a := domain.Announcement{Title: in.Title, Body: in.Body, Visible: true}
			if in.Visible != nil {
				a.Visible = *in.Visible
			}
			if err := tx.Create(&a).Error; err != nil {
				return a, apperr.Internal("create announcement failed", err)
			}
			// 可见公告发布即对全站扇出通知（尽力而为）
			if a.Visible {
				notify.Broadcast(a.Title, a.Body, "/announcements")
			}
			return a, nil
		},
	})

	ez.RegisterAction[announcementIn, domain.Announcement](ezAdmin, db, ez.Action[announcementIn, domain.Announcement]{
		Method: http.MethodPatch,
		Path:   "/announcements/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *announcementIn) (domain.Announcement, error) {
			a, err := findByParam[domain.Announcement](c, tx)
			if err != nil {
				return domain.Announcement{}, err
			}
			a.Title = in.Title
			a.Body = in.Body
			if in.Visible != nil {
				a.Visible = *in.Visible
			}
			if err := tx.Save(a).Error; err != nil {
				return *a, apperr.Internal("update announcement failed", err)
			}
			return *a, nil
		},
	})

	ez.RegisterAction[struct{}, gin.H](ezAdmin, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/announcements/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			return deleteByParam[domain.Announcement](c, tx)
		},
	})

	type faqIn struct {
		Question string `json:"question" binding:"required,max=255"`
		Answer   string `json:"answer"`
		Position int    `json:"position"`
		Visible  *bool  `json:"visible"`
	}

	ez.RegisterAction[faqIn, domain.FAQItem](ezAdmin, db, ez.Action[faqIn, domain.FAQItem]{
		Method: http.MethodPost,
		Path:   "/faq",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *faqIn) (domain.FAQItem, error) {
			f := domain.FAQItem{Question: in.Question, Answer: in.Answer, Position: in.Position, Visible: true}
			if in.Visible != nil {
				f.Visible = *in.Visible
			}
			if err := tx.Create(&f).Error; err != nil {
				return f, apperr.Internal("create faq failed", err)
			}
			return f, nil
		},
	})

	ez.RegisterAction[faqIn, domain.FAQItem](ezAdmin, db, ez.Action[faqIn, domain.FAQItem]{
		Method: http.MethodPatch,
		Path:   "/faq/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *faqIn) (domain.FAQItem, error) {
			f, err := findByParam[domain.FAQItem](c, tx)
			if err != nil {
				return domain.FAQItem{}, err
			}
			f.Question = in.Question
			f.Answer = in.Answer
			f.Position = in.Position
			if in.Visible != nil {
				f.Visible = *in.Visible
			}
			if err := tx.Save(f).Error; err != nil {
				return *f, apperr.Internal("update faq failed", err)
			}
			return *f, nil
		},
	})

	ez.RegisterAction[struct{}, gin.H](ezAdmin, db, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/faq/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			return deleteByParam[domain.FAQItem](c, tx)
		},
	})
}

func paramID(c *gin.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.BadRequest("invalid id")
	}
	return uint(n), nil
}

func findByParam[T any](c *gin.Context, tx *gorm.DB) (*T, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}
	var m T
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not found")
		}
		return nil, apperr.Internal("load failed", err)
	}
	return &m, nil
}

func deleteByParam[T any](c *gin.Context, tx *gorm.DB) (gin.H, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}
	var m T
	res := tx.Where("id = ?", id).Delete(&m)
	if res.Error != nil {
		return nil, apperr.Internal("delete failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("not found")
	}
	return gin.H{"id": id}, nil
}
