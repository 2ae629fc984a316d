package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"animal-market/internal/domain"
)

type ConversationRepo struct{ db *gorm.DB }

func NewConversationRepo(db *gorm.DB) *ConversationRepo { return &ConversationRepo{db: db} }

func (r *ConversationRepo) Create(c *domain.Conversation) error { return r.db.Create(c).Error }

func (r *ConversationRepo) FindByID(id uint) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.db.Preload("Listing").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

// FindByPair listingID=0 即纯私聊维度
func (r *ConversationRepo) FindByPair(user1, user2, listingID uint) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.db.Where("user1_id = ? AND user2_id = ? AND listing_id = ?", user1, user2, listingID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *ConversationRepo) ListByUser(userID uint) ([]domain.Conversation, error) {
	var cs []domain.Conversation
	err := r.db.Preload("Listing").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&cs).Error
	return cs, err
}

func (r *ConversationRepo) Touch(id uint, at time.Time) error {
	return r.db.Model(&domain.Conversation{}).Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

func (r *ConversationRepo) CreateMessage(m *domain.Message) error { return r.db.Create(m).Error }

// ListMessages id 游标分页，beforeID=0 表示从最新开始；返回按时间升序
func (r *ConversationRepo) ListMessages(conversationID uint, limit int, beforeID uint) ([]domain.Message, error) {
	q := r.db.Where("conversation_id = ?", conversationID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	var ms []domain.Message
	if err := q.Order("id DESC").Limit(limit).Find(&ms).Error; err != nil {
		return nil, err
	}
	// 取最近一段后翻转为升序，便于前端直接渲染
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
	return ms, nil
}

func (r *ConversationRepo) LastMessage(conversationID uint) (*domain.Message, error) {
	var m domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("id DESC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &m, err
}

// MarkRead 把对端发来的未读消息全部置已读；天然幂等
func (r *ConversationRepo) MarkRead(conversationID, readerID uint) error {
	return r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true).Error
}

func (r *ConversationRepo) UnreadInConversation(conversationID, userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Count(&n).Error
	return n, err
}

// UnreadTotal 单条聚合：所有会话里对端发来的未读消息数
func (r *ConversationRepo) UnreadTotal(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.user1_id = ? OR conversations.user2_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
