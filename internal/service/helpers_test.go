package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glog "gorm.io/gorm/logger"

	"animal-market/internal/apperr"
	"animal-market/internal/core/auth"
	"animal-market/internal/domain"
	"animal-market/internal/repo"
)

var testDBSeq atomic.Int64

// 每个测试独立的内存库；cache=shared 让连接池里的连接看到同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   glog.Default.LogMode(glog.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  email,
		Role:         domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedListing(t *testing.T, db *gorm.DB, sellerID uint, title, status string, price float64) *domain.Listing {
	t.Helper()
	l := &domain.Listing{
		SellerID:     sellerID,
		Title:        title,
		Slug:         fmt.Sprintf("%s-%d", title, testDBSeq.Add(1)),
		Species:      "dog",
		Price:        price,
		Currency:     "EUR",
		Status:       status,
		Availability: domain.AvailabilityAvailable,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

func newNotifySvc(db *gorm.DB) *NotificationService {
	return NewNotificationService(repo.NewNotificationRepo(db), repo.NewUserRepo(db), zap.NewNop())
}

func newListingSvc(db *gorm.DB) *ListingService {
	return NewListingService(repo.NewListingRepo(db), repo.NewFavoriteRepo(db), newNotifySvc(db), nil, zap.NewNop(), 6)
}

func newMessageSvc(db *gorm.DB) *MessageService {
	return NewMessageService(repo.NewConversationRepo(db), repo.NewUserRepo(db), newNotifySvc(db))
}

func newFavoriteSvc(db *gorm.DB) *FavoriteService {
	return NewFavoriteService(repo.NewFavoriteRepo(db), repo.NewListingRepo(db))
}

func newRatingSvc(db *gorm.DB) *RatingService {
	return NewRatingService(repo.NewRatingRepo(db), repo.NewUserRepo(db))
}

func newReportSvc(db *gorm.DB) *ReportService {
	return NewReportService(repo.NewReportRepo(db), repo.NewListingRepo(db))
}

func newUserSvc(db *gorm.DB) *UserService {
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	return NewUserService(repo.NewUserRepo(db), repo.NewRatingRepo(db), jwter)
}

func errCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	code, _ := apperr.CodeOf(err)
	return code
}
