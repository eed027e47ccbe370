package models

import "time"

// Role gates access to the admin surface.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// UserModel is a site user profile. Only admins and editors reach the CMS.
type UserModel struct {
	Base
	Username    string     `json:"username"      gorm:"uniqueIndex;not null"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Avatar      string     `json:"avatar"`
	Password    string     `json:"-"             gorm:"not null"`
	Role        Role       `json:"role"          gorm:"type:varchar(16);index;not null;default:'viewer'"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }
