package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is a job profile associating one or more tech stacks, used to scope
// which questions a candidate sees.
type Role struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null;uniqueIndex"`
	Description string         `json:"description,omitempty"`
	TechStacks  []TechStack    `json:"tech_stacks,omitempty" gorm:"many2many:role_tech_stacks;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
