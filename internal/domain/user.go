package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string         `gorm:"size:191;not null" json:"-"`
	DisplayName  string         `gorm:"size:64;not null" json:"displayName"`
	Country      string         `gorm:"size:64" json:"country"`
	City         string         `gorm:"size:64" json:"city"`
	Avatar       string         `gorm:"size:255" json:"avatar"`
	Role         string         `gorm:"size:16;not null;default:user" json:"role"`
	Banned       bool           `gorm:"not null;default:false" json:"banned"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// PublicUser 对外公开的用户视图（不含邮箱等隐私字段）
type PublicUser struct {
	ID          uint      `json:"id"`
	DisplayName string    `json:"displayName"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Country:     u.Country,
		City:        u.City,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
	}
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id uint) (*User, error)
	FindByEmail(email string) (*User, error)
	List(q string, offset, limit int) ([]User, int64, error)
	ListActiveIDs() ([]uint, error)
	Update(u *User) error
	UpdateRole(id uint, role string) error
	SetBanned(id uint, banned bool) error
	Count() (int64, error)
}
