package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"animal-market/internal/domain"
)

func TestInbox_OwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	svc := newNotifySvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	svc.Dispatch(alice.ID, domain.NotifyMessage, "hi", "body", "/messages")
	svc.Dispatch(alice.ID, domain.NotifyListingApproved, "ok", "body", "/animals/x")

	ns, total, err := svc.Inbox(alice.ID, false, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, ns, 2)

	n, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	// 别人的通知动不了
	require.Equal(t, http.StatusForbidden, errCode(t, svc.MarkRead(ns[0].ID, bob.ID)))
	require.Equal(t, http.StatusForbidden, errCode(t, svc.Delete(ns[0].ID, bob.ID)))
	require.Equal(t, http.StatusNotFound, errCode(t, svc.MarkRead(424242, alice.ID)))

	require.NoError(t, svc.MarkRead(ns[0].ID, alice.ID))
	n, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, svc.MarkAllRead(alice.ID))
	n, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	unread, total, err := svc.Inbox(alice.ID, true, 1, 10)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, unread)
}

func TestBroadcast_SkipsBannedUsers(t *testing.T) {
	db := newTestDB(t)
	svc := newNotifySvc(db)
	alice := seedUser(t, db, "alice@x.io")
	banned := seedUser(t, db, "banned@x.io")
	require.NoError(t, db.Model(banned).Update("banned", true).Error)

	svc.Broadcast("Maintenance", "Sunday 02:00 UTC", "/announcements")

	n, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = svc.UnreadCount(banned.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}
