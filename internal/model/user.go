package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// swagger:model User
type User struct {
	UUIDBase
	Name     string       `gorm:"size:100;not null" json:"name"`
	Email    string       `gorm:"size:100;unique;not null" json:"email"`
	Password string       `gorm:"size:100" json:"-"` // OAuth 用户无密码
	Role     UserRole     `gorm:"size:20;default:'student'" json:"role"`
	Provider AuthProvider `gorm:"size:20;default:'local'" json:"provider"`
	Avatar   string       `gorm:"size:255" json:"avatar"`
	Disabled bool         `gorm:"default:false" json:"disabled"`
	// 细粒度权限组（后台角色管理界面分配），与 Role 字段互不影响
	AccessRoleID *string   `gorm:"type:varchar(36)" json:"accessRoleId,omitempty"`
	LastLogin    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastLogin"`
	LastSeen     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
