package service

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"animal-market/internal/domain"
	"animal-market/internal/repo"
)

func TestStartOrGet_CanonicalPair(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	c1, err := svc.StartOrGet(bob.ID, alice.ID, nil)
	require.NoError(t, err)
	require.Less(t, c1.User1ID, c1.User2ID)

	// 反方向发起落到同一条会话
	c2, err := svc.StartOrGet(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	require.Equal(t, c1.ID, c2.ID)

	// 挂在 listing 上的是另一条
	seller := seedUser(t, db, "seller@x.io")
	l := seedListing(t, db, seller.ID, "pup", domain.StatusApproved, 100)
	c3, err := svc.StartOrGet(alice.ID, bob.ID, &l.ID)
	require.NoError(t, err)
	require.NotEqual(t, c1.ID, c3.ID)
}

// blindPairRepo 前 misses 次 FindByPair 空手而归，模拟并发发起时
// 双方的预查都赶在对方 INSERT 之前
type blindPairRepo struct {
	domain.ConversationRepository
	misses int
}

func (r *blindPairRepo) FindByPair(user1, user2, listingID uint) (*domain.Conversation, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.ConversationRepository.FindByPair(user1, user2, listingID)
}

func TestStartOrGet_ConcurrentDirectMessageCollapses(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	c1, err := newMessageSvc(db).StartOrGet(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	// 无 listing 的会话也要撞唯一索引：第二次创建回退为取已有行
	raced := NewMessageService(
		&blindPairRepo{ConversationRepository: repo.NewConversationRepo(db), misses: 1},
		repo.NewUserRepo(db), newNotifySvc(db))
	c2, err := raced.StartOrGet(bob.ID, alice.ID, nil)
	require.NoError(t, err)
	require.Equal(t, c1.ID, c2.ID)

	var n int64
	require.NoError(t, db.Model(&domain.Conversation{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestStartOrGet_Rejections(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageSvc(db)
	alice := seedUser(t, db, "alice@x.io")

	_, err := svc.StartOrGet(alice.ID, alice.ID, nil)
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.StartOrGet(alice.ID, 9999, nil)
	require.Equal(t, http.StatusNotFound, errCode(t, err))
}

func TestSend_Validations(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")
	eve := seedUser(t, db, "eve@x.io")

	c, err := svc.StartOrGet(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	_, err = svc.Send(c.ID, alice.ID, "   ")
	require.Equal(t, http.StatusBadRequest, errCode(t, err))

	_, err = svc.Send(c.ID, eve.ID, "let me in")
	require.Equal(t, http.StatusForbidden, errCode(t, err))

	m, err := svc.Send(c.ID, alice.ID, "  hi bob  ")
	require.NoError(t, err)
	require.Equal(t, "hi bob", m.Content)

	// 对端要收到站内通知
	notify := newNotifySvc(db)
	n, err := notify.UnreadCount(bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestMessages_CursorPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	c, err := svc.StartOrGet(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	var ids []uint
	for i := 1; i <= 5; i++ {
		m, err := svc.Send(c.ID, alice.ID, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	// beforeID=0 取最新一页，返回按时间升序
	page, err := svc.Messages(c.ID, bob.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[3], page[0].ID)
	require.Equal(t, ids[4], page[1].ID)

	// 游标严格小于
	page, err = svc.Messages(c.ID, bob.ID, 2, page[0].ID)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, ids[1], page[0].ID)
	require.Equal(t, ids[2], page[1].ID)

	page, err = svc.Messages(c.ID, bob.ID, 10, page[0].ID)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, ids[0], page[0].ID)

	// 非参与者拿不到
	eve := seedUser(t, db, "eve@x.io")
	_, err = svc.Messages(c.ID, eve.ID, 10, 0)
	require.Equal(t, http.StatusForbidden, errCode(t, err))
}

func TestMarkRead_AndUnreadCounts(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	c, err := svc.StartOrGet(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	_, err = svc.Send(c.ID, alice.ID, "one")
	require.NoError(t, err)
	_, err = svc.Send(c.ID, alice.ID, "two")
	require.NoError(t, err)
	_, err = svc.Send(c.ID, bob.ID, "reply")
	require.NoError(t, err)

	n, err := svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	// 只清对方发的，自己发的不受影响
	require.NoError(t, svc.MarkRead(c.ID, bob.ID))
	n, err = svc.UnreadCount(bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	n, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// 幂等
	require.NoError(t, svc.MarkRead(c.ID, bob.ID))
}

func TestConversations_Summaries(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageSvc(db)
	alice := seedUser(t, db, "alice@x.io")
	bob := seedUser(t, db, "bob@x.io")

	c, err := svc.StartOrGet(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	_, err = svc.Send(c.ID, alice.ID, "first")
	require.NoError(t, err)
	last, err := svc.Send(c.ID, alice.ID, "second")
	require.NoError(t, err)

	sums, err := svc.Conversations(bob.ID)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.Equal(t, alice.ID, sums[0].Peer.ID)
	require.EqualValues(t, 2, sums[0].UnreadCount)
	require.NotNil(t, sums[0].LastMessage)
	require.Equal(t, last.ID, sums[0].LastMessage.ID)
}
