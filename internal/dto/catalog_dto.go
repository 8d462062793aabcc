package dto

import "time"

// Admin CRUD payloads for tech stacks, roles and questions.

type TechStackUpsertRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

type TechStackResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoleUpsertRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description,omitempty"`
	TechStacks  []Ref[TechStackResponse] `json:"tech_stacks" binding:"omitempty"`
}

type RoleResponse struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	TechStacks  []TechStackResponse `json:"tech_stacks,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type QuestionUpsertRequest struct {
	TechStackID uint   `json:"tech_stack_id" binding:"required"`
	Text        string `json:"text" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=easy medium hard"`
}

type QuestionResponse struct {
	ID          uint      `json:"id"`
	TechStackID uint      `json:"tech_stack_id"`
	Text        string    `json:"text"`
	Difficulty  string    `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
