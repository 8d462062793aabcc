package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Question struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TechStackID uint           `json:"tech_stack_id" gorm:"not null;index"`
	TechStack   TechStack      `json:"tech_stack,omitempty" gorm:"foreignKey:TechStackID"`
	Text        string         `json:"text" gorm:"type:text;not null"`
	Difficulty  string         `json:"difficulty" gorm:"not null;default:'medium'"` // "easy", "medium", "hard"
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
