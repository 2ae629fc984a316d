package service

import (
	"strings"
	"time"

	"animal-market/internal/apperr"
	"animal-market/internal/domain"
)

const (
	DefaultMessagePageSize = 50
	MaxMessagePageSize     = 100
)

type MessageService struct {
	convs  domain.ConversationRepository
	users  domain.UserRepository
	notify *NotificationService
}

func NewMessageService(convs domain.ConversationRepository, users domain.UserRepository, notify *NotificationService) *MessageService {
	return &MessageService{convs: convs, users: users, notify: notify}
}

// StartOrGet 同一 (用户对, listing) 仅一条会话。先按规范化顺序查，
// 没有则建；并发撞唯一索引时回退为再查一次，不往上抛。
func (s *MessageService) StartOrGet(callerID, otherID uint, listingID *uint) (*domain.Conversation, error) {
	if callerID == otherID {
		return nil, apperr.BadRequest("cannot start a conversation with yourself")
	}
	other, err := s.users.FindByID(otherID)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if other == nil {
		return nil, apperr.NotFound("user not found")
	}

	u1, u2 := domain.CanonicalPair(callerID, otherID)
	// 存储层用 0 占位纯私聊，保证唯一索引覆盖无 listing 的会话
	var lid uint
	if listingID != nil {
		lid = *listingID
	}
	c, err := s.convs.FindByPair(u1, u2, lid)
	if err != nil {
		return nil, apperr.Internal("lookup conversation failed", err)
	}
	if c != nil {
		return c, nil
	}

	c = &domain.Conversation{User1ID: u1, User2ID: u2, ListingID: lid}
	if err := s.convs.Create(c); err != nil {
		if isDupKey(err) {
			// 两边同时发起：落到同一行
			c, err = s.convs.FindByPair(u1, u2, lid)
			if err != nil || c == nil {
				return nil, apperr.Internal("conversation lookup after conflict failed", err)
			}
			return c, nil
		}
		return nil, apperr.Internal("create conversation failed", err)
	}
	return c, nil
}

func (s *MessageService) Send(conversationID, senderID uint, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.BadRequest("message content cannot be empty")
	}
	c, err := s.mustParticipant(conversationID, senderID)
	if err != nil {
		return nil, err
	}
	m := &domain.Message{ConversationID: conversationID, SenderID: senderID, Content: content}
	if err := s.convs.CreateMessage(m); err != nil {
		return nil, apperr.Internal("send message failed", err)
	}
	// 会话列表按 updatedAt 排序，发消息要顶上去
	_ = s.convs.Touch(conversationID, time.Now())

	// 通知对端：尽力而为，失败不影响发送
	s.notify.Dispatch(c.OtherParticipant(senderID), domain.NotifyMessage,
		"New message", truncate(content, 120), "/messages")
	return m, nil
}

// Messages id 游标（beforeID=0 取最新一页），返回按时间升序
func (s *MessageService) Messages(conversationID, requesterID uint, limit int, beforeID uint) ([]domain.Message, error) {
	if _, err := s.mustParticipant(conversationID, requesterID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMessagePageSize
	}
	if limit > MaxMessagePageSize {
		limit = MaxMessagePageSize
	}
	ms, err := s.convs.ListMessages(conversationID, limit, beforeID)
	if err != nil {
		return nil, apperr.Internal("list messages failed", err)
	}
	if ms == nil {
		ms = []domain.Message{}
	}
	return ms, nil
}

func (s *MessageService) MarkRead(conversationID, readerID uint) error {
	if _, err := s.mustParticipant(conversationID, readerID); err != nil {
		return err
	}
	if err := s.convs.MarkRead(conversationID, readerID); err != nil {
		return apperr.Internal("mark read failed", err)
	}
	return nil
}

func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	n, err := s.convs.UnreadTotal(userID)
	if err != nil {
		return 0, apperr.Internal("unread count failed", err)
	}
	return n, nil
}

// Conversations 会话列表：对端资料 + 未读数 + 最后一条
func (s *MessageService) Conversations(userID uint) ([]domain.ConversationSummary, error) {
	cs, err := s.convs.ListByUser(userID)
	if err != nil {
		return nil, apperr.Internal("list conversations failed", err)
	}
	out := make([]domain.ConversationSummary, 0, len(cs))
	for _, c := range cs {
		sum := domain.ConversationSummary{Conversation: c}
		if peer, err := s.users.FindByID(c.OtherParticipant(userID)); err == nil && peer != nil {
			sum.Peer = peer.Public()
		}
		if n, err := s.convs.UnreadInConversation(c.ID, userID); err == nil {
			sum.UnreadCount = n
		}
		if last, err := s.convs.LastMessage(c.ID); err == nil {
			sum.LastMessage = last
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *MessageService) mustParticipant(conversationID, userID uint) (*domain.Conversation, error) {
	c, err := s.convs.FindByID(conversationID)
	if err != nil {
		return nil, apperr.Internal("load conversation failed", err)
	}
	if c == nil {
		return nil, apperr.NotFound("conversation not found")
	}
	if !c.HasParticipant(userID) {
		return nil, apperr.Forbidden("not a participant")
	}
	return c, nil
}

func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
