package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"animal-market/internal/apperr"
	"animal-market/internal/core/cache"
	"animal-market/internal/domain"
)

const (
	presenceTTL       = 2 * time.Minute
	presenceKeyPrefix = "presence:"
	trafficKeyPrefix  = "traffic:day:"
)

type StatsService struct {
	users    domain.UserRepository
	listings domain.ListingRepository
	reports  domain.ReportRepository
	convs    domain.ConversationRepository
	notifs   domain.NotificationRepository
	favs     domain.FavoriteRepository
	cache    *cache.Cache
	log      *zap.Logger
}

func NewStatsService(
	users domain.UserRepository,
	listings domain.ListingRepository,
	reports domain.ReportRepository,
	convs domain.ConversationRepository,
	notifs domain.NotificationRepository,
	favs domain.FavoriteRepository,
	c *cache.Cache,
	log *zap.Logger,
) *StatsService {
	return &StatsService{
		users: users, listings: listings, reports: reports,
		convs: convs, notifs: notifs, favs: favs, cache: c, log: log,
	}
}

// Heartbeat 记录在线状态，2 分钟 TTL；仅作近似统计
func (s *StatsService) Heartbeat(ctx context.Context, userID uint, anonKey string) {
	if s.cache == nil {
		return
	}
	key := presenceKeyPrefix
	if userID != 0 {
		key += fmt.Sprintf("u:%d", userID)
	} else if anonKey != "" {
		key += "a:" + anonKey
	} else {
		return
	}
	if err := s.cache.SetTTL(ctx, key, "1", presenceTTL); err != nil {
		s.log.Warn("heartbeat write failed", zap.Error(err))
	}
}

// TrackVisit 站点访问计数，按天累加；失败只记日志
func (s *StatsService) TrackVisit(ctx context.Context) {
	if s.cache == nil {
		return
	}
	key := trafficKeyPrefix + time.Now().Format("2006-01-02")
	if _, err := s.cache.Incr(ctx, key); err != nil {
		s.log.Warn("visit tracking failed", zap.Error(err))
	}
}

type SiteTraffic struct {
	Days []DayTraffic `json:"days"`
}

type DayTraffic struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

func (s *StatsService) SiteTraffic(ctx context.Context, days int) (*SiteTraffic, error) {
	if days <= 0 || days > 90 {
		days = 14
	}
	out := &SiteTraffic{Days: make([]DayTraffic, 0, days)}
	if s.cache == nil {
		return out, nil
	}
	now := time.Now()
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		n, err := s.cache.GetInt(ctx, trafficKeyPrefix+day)
		if err != nil {
			return nil, apperr.Internal("read traffic failed", err)
		}
		out.Days = append(out.Days, DayTraffic{Date: day, Visits: n})
	}
	return out, nil
}

type Dashboard struct {
	ListingsTotal       int64 `json:"listingsTotal"`
	ListingsPending     int64 `json:"listingsPending"`
	ListingsApproved    int64 `json:"listingsApproved"`
	ListingsRejected    int64 `json:"listingsRejected"`
	Favorites           int64 `json:"favorites"`
	UnreadMessages      int64 `json:"unreadMessages"`
	UnreadNotifications int64 `json:"unreadNotifications"`
}

// Dashboard 当前用户自己的概览
func (s *StatsService) Dashboard(userID uint) (*Dashboard, error) {
	d := &Dashboard{}
	for _, st := range []struct {
		status string
		dst    *int64
	}{
		{"", &d.ListingsTotal},
		{domain.StatusPending, &d.ListingsPending},
		{domain.StatusApproved, &d.ListingsApproved},
		{domain.StatusRejected, &d.ListingsRejected},
	} {
		_, total, err := s.listings.Search(domain.ListingFilter{SellerID: userID, Status: st.status}, domain.SortNewest, 0, 1)
		if err != nil {
			return nil, apperr.Internal("dashboard query failed", err)
		}
		*st.dst = total
	}
	var err error
	if d.Favorites, err = s.favs.CountByUser(userID); err != nil {
		return nil, apperr.Internal("dashboard query failed", err)
	}
	if d.UnreadMessages, err = s.convs.UnreadTotal(userID); err != nil {
		return nil, apperr.Internal("dashboard query failed", err)
	}
	if d.UnreadNotifications, err = s.notifs.UnreadCount(userID); err != nil {
		return nil, apperr.Internal("dashboard query failed", err)
	}
	return d, nil
}

type AdminStats struct {
	Users           int64 `json:"users"`
	Listings        int64 `json:"listings"`
	PendingListings int64 `json:"pendingListings"`
	OpenReports     int64 `json:"openReports"`
	OnlineUsers     int   `json:"onlineUsers"`
}

func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	out := &AdminStats{}
	var err error
	if out.Users, err = s.users.Count(); err != nil {
		return nil, apperr.Internal("admin stats failed", err)
	}
	if out.Listings, err = s.listings.CountByStatus(""); err != nil {
		return nil, apperr.Internal("admin stats failed", err)
	}
	if out.PendingListings, err = s.listings.CountByStatus(domain.StatusPending); err != nil {
		return nil, apperr.Internal("admin stats failed", err)
	}
	if out.OpenReports, err = s.reports.CountByStatus(domain.ReportOpen); err != nil {
		return nil, apperr.Internal("admin stats failed", err)
	}
	if s.cache != nil {
		if n, err := s.cache.CountKeys(ctx, presenceKeyPrefix+"*"); err == nil {
			out.OnlineUsers = n
		}
	}
	return out, nil
}
