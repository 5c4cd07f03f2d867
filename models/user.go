package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile 对应一名登录用户，邮箱唯一
type Profile struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	FullName     string `gorm:"size:255;not null" json:"fullName"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "eqp_profiles"
}

// UserRole 每用户一行，缺省角色 user
type UserRole struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Role   string `gorm:"size:20;not null;default:'user'" json:"role"`
}

func (UserRole) TableName() string {
	return "eqp_user_roles"
}

func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin
}
