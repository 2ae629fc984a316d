package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"animal-market/internal/domain"
	"animal-market/internal/repo"
)

func TestListingCreate_PendingWithUniqueSlug(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")

	in := ListingInput{Title: "Golden Retriever Puppy", Species: "Dog", Price: 300}
	first, err := svc.Create(seller.ID, in)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, first.Status)
	require.Equal(t, "golden-retriever-puppy", first.Slug)
	require.Equal(t, "dog", first.Species)
	require.Equal(t, "EUR", first.Currency)

	second, err := svc.Create(seller.ID, in)
	require.NoError(t, err)
	require.Equal(t, "golden-retriever-puppy-1", second.Slug)
}

func TestDiscover_OnlyApprovedForPublic(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")

	seedListing(t, db, seller.ID, "pending-one", domain.StatusPending, 100)
	approved := seedListing(t, db, seller.ID, "approved-one", domain.StatusApproved, 100)

	items, total, err := svc.Discover(domain.ListingFilter{}, domain.SortNewest, 1, 10, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.Equal(t, approved.ID, items[0].ID)

	// 管理端不限状态
	_, total, err = svc.Discover(domain.ListingFilter{}, domain.SortNewest, 1, 10, true)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestDiscover_KeywordWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")

	seedListing(t, db, seller.ID, "sunny parrot", domain.StatusApproved, 80)
	seedListing(t, db, seller.ID, "50%_off gecko", domain.StatusApproved, 40)

	// 通配符当普通字符搜，"%" 不是全匹配
	_, total, err := svc.Discover(domain.ListingFilter{Keyword: "%"}, domain.SortNewest, 1, 10, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	_, total, err = svc.Discover(domain.ListingFilter{Keyword: "_"}, domain.SortNewest, 1, 10, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	items, total, err := svc.Discover(domain.ListingFilter{Keyword: "50%_off"}, domain.SortNewest, 1, 10, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "50%_off gecko", items[0].Title)

	_, total, err = svc.Discover(domain.ListingFilter{Keyword: "s_nny"}, domain.SortNewest, 1, 10, false)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
}

func TestDiscover_FiltersAreConjunctive(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")

	cheap := seedListing(t, db, seller.ID, "cheap-dog", domain.StatusApproved, 50)
	seedListing(t, db, seller.ID, "pricey-dog", domain.StatusApproved, 900)
	cat := seedListing(t, db, seller.ID, "cheap-cat", domain.StatusApproved, 50)
	require.NoError(t, db.Model(cat).Update("species", "cat").Error)

	max := 100.0
	items, total, err := svc.Discover(domain.ListingFilter{
		Species:  []string{"dog"},
		MaxPrice: &max,
	}, domain.SortNewest, 1, 10, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, cheap.ID, items[0].ID)
}

func TestDiscover_SortAndPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")

	prices := []float64{500, 100, 300, 200, 400}
	for i, p := range prices {
		seedListing(t, db, seller.ID, "dog-"+string(rune('a'+i)), domain.StatusApproved, p)
	}

	page1, total, err := svc.Discover(domain.ListingFilter{}, domain.SortPriceLow, 1, 2, false)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	require.LessOrEqual(t, page1[0].Price, page1[1].Price)

	page2, _, err := svc.Discover(domain.ListingFilter{}, domain.SortPriceLow, 2, 2, false)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	// 页与页之间不重叠且保持有序
	require.LessOrEqual(t, page1[1].Price, page2[0].Price)
	for _, a := range page1 {
		for _, b := range page2 {
			require.NotEqual(t, a.ID, b.ID)
		}
	}

	// 超出末页返回空集，total 不变
	empty, total, err := svc.Discover(domain.ListingFilter{}, domain.SortPriceLow, 9, 2, false)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Empty(t, empty)
}

func TestApproveRejectLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusPending, 100)

	// 驳回不带理由时落默认文案
	rejected, err := svc.Reject(l.ID, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, rejected.Status)
	require.Equal(t, defaultRejectionReason, rejected.RejectionReason)

	// 复审通过要清掉历史驳回原因
	approved, err := svc.Approve(l.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, approved.Status)
	require.Empty(t, approved.RejectionReason)

	var stored domain.Listing
	require.NoError(t, db.First(&stored, l.ID).Error)
	require.Equal(t, domain.StatusApproved, stored.Status)
	require.Empty(t, stored.RejectionReason)

	// 审核结果要通知卖家
	var n int64
	require.NoError(t, db.Model(&domain.Notification{}).Where("user_id = ?", seller.ID).Count(&n).Error)
	require.EqualValues(t, 2, n)
}

func TestGet_PendingHiddenFromStrangers(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	other := seedUser(t, db, "other@x.io")
	l := seedListing(t, db, seller.ID, "pending-pup", domain.StatusPending, 100)

	_, err := svc.Get(l.ID, other.ID, domain.RoleUser)
	require.Equal(t, http.StatusNotFound, errCode(t, err))

	got, err := svc.Get(l.ID, seller.ID, domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, l.ID, got.ID)

	got, err = svc.Get(l.ID, other.ID, domain.RoleModerator)
	require.NoError(t, err)
	require.Equal(t, l.ID, got.ID)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	other := seedUser(t, db, "other@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	_, err := svc.Update(l.ID, other.ID, domain.RoleUser, ListingInput{Title: "hijacked"})
	require.Equal(t, http.StatusForbidden, errCode(t, err))

	updated, err := svc.Update(l.ID, seller.ID, domain.RoleUser, ListingInput{Title: "renamed", Species: "dog", Price: 120})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, 120.0, updated.Price)
}

func TestSetAvailability_Validates(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	err := svc.SetAvailability(l.ID, seller.ID, domain.RoleUser, "gone")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	require.NoError(t, svc.SetAvailability(l.ID, seller.ID, domain.RoleUser, domain.AvailabilitySold))
	var stored domain.Listing
	require.NoError(t, db.First(&stored, l.ID).Error)
	require.Equal(t, domain.AvailabilitySold, stored.Availability)
}

func TestDelete_CleansFavorites(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	favs := newFavoriteSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	fan := seedUser(t, db, "fan@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	_, err := favs.Add(fan.ID, l.ID)
	require.NoError(t, err)

	_, err = svc.Delete(l.ID, fan.ID, domain.RoleUser)
	require.Equal(t, http.StatusForbidden, errCode(t, err))

	_, err = svc.Delete(l.ID, seller.ID, domain.RoleUser)
	require.NoError(t, err)

	ok, err := favs.IsFavorited(fan.ID, l.ID)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.Get(l.ID, seller.ID, domain.RoleUser)
	require.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestView_OwnerDoesNotCount(t *testing.T) {
	db := newTestDB(t)
	svc := newListingSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	viewer := seedUser(t, db, "viewer@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	svc.View(l.ID, seller.ID) // 本人不计
	svc.View(l.ID, viewer.ID)
	svc.View(l.ID, 0) // 游客计

	var stored domain.Listing
	require.NoError(t, db.First(&stored, l.ID).Error)
	require.EqualValues(t, 2, stored.Views)
}

func TestImages_CapPerListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(repo.NewListingRepo(db), repo.NewFavoriteRepo(db), newNotifySvc(db), nil, zap.NewNop(), 2)
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	_, err := svc.AddImage(l.ID, seller.ID, domain.RoleUser, "/uploads/animals/a.jpg", 0)
	require.NoError(t, err)
	img, err := svc.AddImage(l.ID, seller.ID, domain.RoleUser, "/uploads/animals/b.jpg", 1)
	require.NoError(t, err)

	_, err = svc.AddImage(l.ID, seller.ID, domain.RoleUser, "/uploads/animals/c.jpg", 2)
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	url, err := svc.DeleteImage(l.ID, img.ID, seller.ID, domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, "/uploads/animals/b.jpg", url)
}
