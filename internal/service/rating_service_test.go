package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRate_Validations(t *testing.T) {
	db := newTestDB(t)
	svc := newRatingSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	_, err := svc.Rate(alice.ID, alice.ID, 5, "")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Rate(alice.ID, bob.ID, 0, "")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))
	_, err = svc.Rate(alice.ID, bob.ID, 6, "")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Rate(alice.ID, 424242, 4, "")
	require.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestRate_UpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := newRatingSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")
	carol := seedUser(t, db, "carol@x.io")

	_, err := svc.Rate(alice.ID, bob.ID, 5, "great seller")
	require.NoError(t, err)

	// 重评覆盖旧值，不产生第二行
	r, err := svc.Rate(alice.ID, bob.ID, 2, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, 2, r.Value)

	rs, err := svc.ListFor(bob.ID)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	require.Equal(t, 2, rs[0].Value)

	_, err = svc.Rate(carol.ID, bob.ID, 4, "")
	require.NoError(t, err)

	agg, err := svc.AggregateFor(bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, agg.Count)
	require.InDelta(t, 3.0, agg.Average, 0.001)
}

func TestRate_Remove(t *testing.T) {
	db := newTestDB(t)
	svc := newRatingSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	require.Equal(t, http.StatusNotFound, errCode(t, svc.Remove(alice.ID, bob.ID)))

	_, err := svc.Rate(alice.ID, bob.ID, 3, "")
	require.NoError(t, err)
	require.NoError(t, svc.Remove(alice.ID, bob.ID))

	agg, err := svc.AggregateFor(bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, agg.Count)
	require.Zero(t, agg.Average)
}
