package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"animal-market/internal/domain"
)

func TestReportCreate_GuestAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := newReportSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	_, err := svc.Create(l.ID, nil, "  ")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Create(424242, nil, "scam")
	require.Equal(t, http.StatusNotFound, errCode(t, err))

	r, err := svc.Create(l.ID, nil, "scam listing")
	require.NoError(t, err)
	require.Nil(t, r.ReporterID)
	require.Equal(t, domain.ReportOpen, r.Status)

	reporter := seedUser(t, db, "reporter@x.io")
	r, err = svc.Create(l.ID, &reporter.ID, "same here")
	require.NoError(t, err)
	require.NotNil(t, r.ReporterID)
	require.Equal(t, reporter.ID, *r.ReporterID)
}

func TestReportTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newReportSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	mk := func() uint {
		r, err := svc.Create(l.ID, nil, "spam")
		require.NoError(t, err)
		return r.ID
	}
	get := func(id uint) domain.Report {
		var r domain.Report
		require.NoError(t, db.First(&r, id).Error)
		return r
	}

	id := mk()
	require.NoError(t, svc.StartReview(id))
	require.Equal(t, domain.ReportReviewing, get(id).Status)

	require.NoError(t, svc.Close(id, "listing removed"))
	r := get(id)
	require.Equal(t, domain.ReportClosed, r.Status)
	require.Equal(t, "listing removed", r.Resolution)

	// reject / dismiss 都关单，靠 resolution 区分
	id = mk()
	require.NoError(t, svc.Reject(id))
	r = get(id)
	require.Equal(t, domain.ReportClosed, r.Status)
	require.Equal(t, "rejected", r.Resolution)

	id = mk()
	require.NoError(t, svc.Dismiss(id))
	r = get(id)
	require.Equal(t, domain.ReportClosed, r.Status)
	require.Equal(t, "dismissed", r.Resolution)

	require.Equal(t, http.StatusNotFound, errCode(t, svc.StartReview(424242)))
}

func TestReportList_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newReportSvc(db)
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)

	a, err := svc.Create(l.ID, nil, "one")
	require.NoError(t, err)
	_, err = svc.Create(l.ID, nil, "two")
	require.NoError(t, err)
	require.NoError(t, svc.Dismiss(a.ID))

	_, _, err = svc.List("bogus", 1, 10)
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	open, total, err := svc.List(domain.ReportOpen, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, open, 1)

	all, total, err := svc.List("", 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, all, 2)
}
