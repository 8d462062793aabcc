package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// TranscriptUnavailable marks an answer whose transcription failed. The
// pipeline substitutes it instead of dropping the answer so the evaluator and
// the reviewer UI both see an explicit failure signal.
const TranscriptUnavailable = "[transcription failed]"

// Criteria is the four-axis rubric, each scored 0-10.
type Criteria struct {
	TechnicalAccuracy float64 `json:"technicalAccuracy"`
	Completeness      float64 `json:"completeness"`
	Clarity           float64 `json:"clarity"`
	Examples          float64 `json:"examples"`
}

type Answer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	LocalID      string         `json:"local_id,omitempty" gorm:"index"` // client-generated until the server id is confirmed
	InterviewID  uint           `json:"interview_id" gorm:"not null;uniqueIndex:idx_answers_interview_question"`
	QuestionID   uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_interview_question"`
	Question     Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AudioURL     string         `json:"audio_url,omitempty"`
	Transcript   string         `json:"transcript,omitempty" gorm:"type:text"`
	Code         string         `json:"code,omitempty" gorm:"type:text"`
	CodeLanguage string         `json:"code_language,omitempty"`
	CodeFeedback string         `json:"code_feedback,omitempty" gorm:"type:text"`
	Score        *float64       `json:"score,omitempty"`
	Feedback     string         `json:"feedback,omitempty" gorm:"type:text"`
	Criteria     Criteria       `json:"criteria" gorm:"embedded;embeddedPrefix:criteria_"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsComplete reports whether the answer carries usable content: a real
// transcript or submitted code. Score and feedback may lag behind, evaluation
// is asynchronous and best-effort.
func (a *Answer) IsComplete() bool {
	transcript := strings.TrimSpace(a.Transcript)
	if transcript != "" && transcript != TranscriptUnavailable {
		return true
	}
	return strings.TrimSpace(a.Code) != ""
}
