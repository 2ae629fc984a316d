package domain

import "time"

// Conversation 两个用户 + 可选 listing 维度上最多一条会话。
// 参与者按数值升序存储（User1ID < User2ID），唯一索引兜底并发创建。
// ListingID 用 0 表示纯私聊：唯一索引里 NULL 互不相等，兜不住并发，
// 必须落一个真实值才能让纯私聊也撞唯一键。
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User1ID   uint      `gorm:"uniqueIndex:uniq_conv_pair;not null" json:"user1Id"`
	User2ID   uint      `gorm:"uniqueIndex:uniq_conv_pair;not null" json:"user2Id"`
	ListingID uint      `gorm:"uniqueIndex:uniq_conv_pair;not null;default:0" json:"listingId,omitempty"`
	Listing   *Listing  `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

func (c *Conversation) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParticipant 返回对端用户 id；userID 不是参与者时返回 0
func (c *Conversation) OtherParticipant(userID uint) uint {
	switch userID {
	case c.User1ID:
		return c.User2ID
	case c.User2ID:
		return c.User1ID
	}
	return 0
}

// CanonicalPair 较小的 id 在前
func CanonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	SenderID       uint      `gorm:"not null" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Read           bool      `gorm:"column:is_read;not null;default:false" json:"read"` // read 在 MySQL 是保留字
	CreatedAt      time.Time `json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

// ConversationSummary 会话列表行：对端用户、关联 listing、未读数
type ConversationSummary struct {
	Conversation
	Peer        PublicUser `json:"peer"`
	UnreadCount int64      `json:"unreadCount"`
	LastMessage *Message   `json:"lastMessage,omitempty"`
}

type ConversationRepository interface {
	Create(c *Conversation) error
	FindByID(id uint) (*Conversation, error)
	FindByPair(user1, user2, listingID uint) (*Conversation, error)
	ListByUser(userID uint) ([]Conversation, error)
	Touch(id uint, at time.Time) error

	CreateMessage(m *Message) error
	ListMessages(conversationID uint, limit int, beforeID uint) ([]Message, error)
	LastMessage(conversationID uint) (*Message, error)
	MarkRead(conversationID, readerID uint) error
	UnreadInConversation(conversationID, userID uint) (int64, error)
	UnreadTotal(userID uint) (int64, error)
}
