package dto

import "time"

type InterviewCreateRequest struct {
	CandidateID     uint                     `json:"candidate_id" binding:"required"`
	RoleID          *uint                    `json:"role_id,omitempty"`
	TechStacks      []Ref[TechStackResponse] `json:"tech_stacks" binding:"required,min=1"`
	ScheduledAt     time.Time                `json:"scheduled_at" binding:"required"`
	DurationMinutes int                      `json:"duration_minutes" binding:"required,gt=0"`
}

type InterviewUpdateRequest struct {
	RoleID          *uint                    `json:"role_id,omitempty"`
	TechStacks      []Ref[TechStackResponse] `json:"tech_stacks,omitempty"`
	ScheduledAt     *time.Time               `json:"scheduled_at,omitempty"`
	DurationMinutes *int                     `json:"duration_minutes,omitempty"`
	Status          *string                  `json:"status,omitempty" binding:"omitempty,oneof=scheduled in-progress completed cancelled"`
}

type InterviewResponse struct {
	ID              uint                `json:"id"`
	CandidateID     uint                `json:"candidate_id"`
	Candidate       *UserResponse       `json:"candidate,omitempty"`
	RoleID          *uint               `json:"role_id,omitempty"`
	Role            *RoleResponse       `json:"role,omitempty"`
	TechStacks      []TechStackResponse `json:"tech_stacks,omitempty"`
	Status          string              `json:"status"`
	ScheduledAt     time.Time           `json:"scheduled_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// FinalizeRequest carries every session answer that never got a confirmed
// server persistence, so the finalizer can guarantee durability in one pass.
type FinalizeRequest struct {
	Answers []AnswerUpsertRequest `json:"answers" binding:"omitempty,dive"`
}

type FinalizeResponse struct {
	Interview InterviewResponse `json:"interview"`
	Persisted int               `json:"persisted"`
	Failed    []FinalizeFailure `json:"failed,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

type FinalizeFailure struct {
	QuestionID uint   `json:"question_id"`
	Reason     string `json:"reason"`
}
