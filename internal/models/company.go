package models

import (
	"time"
)

type Company struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Users []User `gorm:"foreignKey:CompanyID" json:"users,omitempty"`
	Tasks []Task `gorm:"foreignKey:CompanyID" json:"tasks,omitempty"`
}
