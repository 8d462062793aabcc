package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	InterviewStatusScheduled  = "scheduled"
	InterviewStatusInProgress = "in-progress"
	InterviewStatusCompleted  = "completed"
	InterviewStatusCancelled  = "cancelled"
)

type Interview struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CandidateID     uint           `json:"candidate_id" gorm:"not null;index"`
	Candidate       User           `json:"candidate,omitempty" gorm:"foreignKey:CandidateID"`
	RoleID          *uint          `json:"role_id,omitempty" gorm:"index"`
	Role            *Role          `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	TechStacks      []TechStack    `json:"tech_stacks,omitempty" gorm:"many2many:interview_tech_stacks;"`
	Status          string         `json:"status" gorm:"not null;default:'scheduled'"`
	ScheduledAt     time.Time      `json:"scheduled_at" gorm:"not null"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	Answers         []Answer       `json:"answers,omitempty" gorm:"foreignKey:InterviewID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// WindowContains reports whether now falls inside [scheduledStart, scheduledStart+duration].
func (i *Interview) WindowContains(now time.Time) bool {
	start := i.ScheduledAt
	end := start.Add(time.Duration(i.DurationMinutes) * time.Minute)
	return !now.Before(start) && !now.After(end)
}

// CanTransitionTo enforces the forward-only status lifecycle:
// scheduled -> in-progress -> completed, or -> cancelled from any live state.
func (i *Interview) CanTransitionTo(next string) bool {
	switch i.Status {
	case InterviewStatusScheduled:
		return next == InterviewStatusInProgress || next == InterviewStatusCancelled
	case InterviewStatusInProgress:
		return next == InterviewStatusCompleted || next == InterviewStatusCancelled
	default:
		return false
	}
}
