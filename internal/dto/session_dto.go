package dto

type SessionStateResponse struct {
	InterviewID      uint    `json:"interview_id"`
	Phase            string  `json:"phase"`
	QuestionIndex    int     `json:"question_index"`
	QuestionID       uint    `json:"question_id,omitempty"`
	QuestionText     string  `json:"question_text,omitempty"`
	Difficulty       string  `json:"difficulty,omitempty"`
	QuestionCount    int     `json:"question_count"`
	AnsweredIDs      []uint  `json:"answered_ids"`
	RemainingSeconds float64 `json:"remaining_seconds"`
	Warning          bool    `json:"warning,omitempty"`
	TimedOut         bool    `json:"timed_out,omitempty"`
}
