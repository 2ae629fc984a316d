package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"animal-market/internal/domain"
	"animal-market/internal/repo"
)

func newStatsSvc(db *gorm.DB) *StatsService {
	return NewStatsService(
		repo.NewUserRepo(db),
		repo.NewListingRepo(db),
		repo.NewReportRepo(db),
		repo.NewConversationRepo(db),
		repo.NewNotificationRepo(db),
		repo.NewFavoriteRepo(db),
		nil, // 无 redis 时在线数退化为 0
		zap.NewNop(),
	)
}

func TestDashboard_PerUserCounters(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	buyer := seedUser(t, db, "buyer@x.io")

	seedListing(t, db, seller.ID, "a", domain.StatusApproved, 100)
	seedListing(t, db, seller.ID, "b", domain.StatusPending, 100)
	l := seedListing(t, db, seller.ID, "c", domain.StatusRejected, 100)

	favs := newFavoriteSvc(db)
	_, err := favs.Add(seller.ID, l.ID)
	require.NoError(t, err)

	msgs := newMessageSvc(db)
	c, err := msgs.StartOrGet(buyer.ID, seller.ID, nil)
	require.NoError(t, err)
	_, err = msgs.Send(c.ID, buyer.ID, "still available?")
	require.NoError(t, err)

	d, err := svc.Dashboard(seller.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, d.ListingsTotal)
	require.EqualValues(t, 1, d.ListingsPending)
	require.EqualValues(t, 1, d.ListingsApproved)
	require.EqualValues(t, 1, d.ListingsRejected)
	require.EqualValues(t, 1, d.Favorites)
	require.EqualValues(t, 1, d.UnreadMessages)
	require.EqualValues(t, 1, d.UnreadNotifications) // 发消息触发的站内通知
}

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	seedUser(t, db, "other@x.io")

	seedListing(t, db, seller.ID, "a", domain.StatusApproved, 100)
	l := seedListing(t, db, seller.ID, "b", domain.StatusPending, 100)

	reports := newReportSvc(db)
	_, err := reports.Create(l.ID, nil, "spam")
	require.NoError(t, err)

	out, err := svc.Admin(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, out.Users)
	require.EqualValues(t, 2, out.Listings)
	require.EqualValues(t, 1, out.PendingListings)
	require.EqualValues(t, 1, out.OpenReports)
	require.Zero(t, out.OnlineUsers)
}

func TestSiteTraffic_NoCacheDegradesEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsSvc(db)

	out, err := svc.SiteTraffic(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, out.Days)
}
