package models

import (
	"time"
)

// Role IDs are a closed set; handlers and middleware compare against these
// constants instead of role-name strings.
const (
	RoleAuthor   = 1
	RoleReviewer = 2
	RoleEditor   = 3
	RoleAdmin    = 4
)

type User struct {
	UserID      int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName   string     `gorm:"column:first_name" json:"first_name"`
	LastName    string     `gorm:"column:last_name" json:"last_name"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	RoleID      int        `gorm:"column:role_id" json:"role_id"`
	Affiliation *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	Orcid       *string    `gorm:"column:orcid" json:"orcid,omitempty"`
	Expertise   *string    `gorm:"column:expertise" json:"expertise,omitempty"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName returns the display name used in notifications and emails.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsEditorialRole reports whether the role may perform editor actions.
func IsEditorialRole(roleID int) bool {
	return roleID == RoleEditor || roleID == RoleAdmin
}
