package dto

import (
	"time"

	"github.com/lehuyba/InterviewAce/internal/model"
)

type AnswerUpsertRequest struct {
	LocalID      string   `json:"local_id,omitempty"`
	InterviewID  uint     `json:"interview_id" binding:"required"`
	QuestionID   uint     `json:"question_id" binding:"required"`
	AudioURL     string   `json:"audio_url,omitempty"`
	Transcript   string   `json:"transcript,omitempty"`
	Code         string   `json:"code,omitempty"`
	CodeLanguage string   `json:"code_language,omitempty"`
	Score        *float64 `json:"score,omitempty" binding:"omitempty,gte=0,lte=10"`
	Feedback     string   `json:"feedback,omitempty"`

	Criteria *model.Criteria `json:"criteria,omitempty"`
}

type AnswerBatchRequest struct {
	InterviewID uint                  `json:"interview_id" binding:"required"`
	Answers     []AnswerUpsertRequest `json:"answers" binding:"required,min=1,dive"`
}

type AnswerResponse struct {
	ID           uint           `json:"id"`
	LocalID      string         `json:"local_id,omitempty"`
	InterviewID  uint           `json:"interview_id"`
	QuestionID   uint           `json:"question_id"`
	AudioURL     string         `json:"audio_url,omitempty"`
	Transcript   string         `json:"transcript,omitempty"`
	Code         string         `json:"code,omitempty"`
	CodeLanguage string         `json:"code_language,omitempty"`
	CodeFeedback string         `json:"code_feedback,omitempty"`
	Score        *float64       `json:"score,omitempty"`
	Feedback     string         `json:"feedback,omitempty"`
	Criteria     model.Criteria `json:"criteria"`
	Complete     bool           `json:"complete"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type AnswerBatchResponse struct {
	Persisted []AnswerResponse  `json:"persisted"`
	Failed    []FinalizeFailure `json:"failed,omitempty"`
}

// EvaluateRequest is the direct /ai/evaluate surface, mirroring what the
// assembler feeds the evaluator internally.
type EvaluateRequest struct {
	Question     string `json:"question" binding:"required"`
	Transcript   string `json:"transcript,omitempty"`
	Code         string `json:"code,omitempty"`
	CodeLanguage string `json:"code_language,omitempty"`
	TechStack    string `json:"tech_stack,omitempty"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
