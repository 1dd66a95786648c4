package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r UserRole) bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	CompanyID    uint64    `gorm:"not null;index" json:"company_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Company       Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedTasks  []Task  `gorm:"foreignKey:CreatorID" json:"-"`
	AssignedTasks []Task  `gorm:"foreignKey:AssigneeID" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
