package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"animal-market/internal/domain"
)

func TestFavoriteAdd_NoDuplicateRows(t *testing.T) {
	db := newTestDB(t)
	svc := newFavoriteSvc(db)
	fan := seedUser(t, db, "fan@x.io")
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	res, err := svc.Add(fan.ID, l.ID)
	require.NoError(t, err)
	require.True(t, res.Favorited)
	require.False(t, res.AlreadyFavorited)

	res, err = svc.Add(fan.ID, l.ID)
	require.NoError(t, err)
	require.True(t, res.Favorited)
	require.True(t, res.AlreadyFavorited)

	var n int64
	require.NoError(t, db.Model(&domain.Favorite{}).Where("user_id = ?", fan.ID).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestFavoriteAdd_MissingListing(t *testing.T) {
	db := newTestDB(t)
	svc := newFavoriteSvc(db)
	fan := seedUser(t, db, "fan@x.io")

	_, err := svc.Add(fan.ID, 424242)
	require.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestFavoriteRemove_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newFavoriteSvc(db)
	fan := seedUser(t, db, "fan@x.io")
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	_, err := svc.Add(fan.ID, l.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(fan.ID, l.ID))
	require.NoError(t, svc.Remove(fan.ID, l.ID)) // 不存在也算成功

	ok, err := svc.IsFavorited(fan.ID, l.ID)
	require.NoError(t, err)
	require.False(t, ok)

	fs, err := svc.List(fan.ID)
	require.NoError(t, err)
	require.Empty(t, fs)
}
