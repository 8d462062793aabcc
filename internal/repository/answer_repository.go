package repository

import (
	"errors"

	"github.com/lehuyba/InterviewAce/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByID(id uint) (*model.Answer, error)
	FindByInterviewID(interviewID uint) ([]model.Answer, error)
	FindByInterviewAndQuestion(interviewID, questionID uint) (*model.Answer, error)
	// Upsert writes the answer keyed by (interview, question): an existing row
	// is overwritten, otherwise a new one is created.
	Upsert(answer *model.Answer) error
	// BatchUpsert upserts all answers in one transaction; any failure rolls
	// back the whole batch so the caller can fall back to per-item writes.
	BatchUpsert(answers []*model.Answer) error
	Update(answer *model.Answer) error
	// ExistsForQuestion reports whether any answer references the question;
	// answered questions are immutable.
	ExistsForQuestion(questionID uint) (bool, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) FindByInterviewID(interviewID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Preload("Question").
		Preload("Question.TechStack").
		Where("interview_id = ?", interviewID).
		Order("question_id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) FindByInterviewAndQuestion(interviewID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Where("interview_id = ? AND question_id = ?", interviewID, questionID).First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) Upsert(answer *model.Answer) error {
	return upsertAnswer(r.db, answer)
}

func (r *answerRepository) BatchUpsert(answers []*model.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, answer := range answers {
			if err := upsertAnswer(tx, answer); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *answerRepository) Update(answer *model.Answer) error {
	return r.db.Save(answer).Error
}

func (r *answerRepository) ExistsForQuestion(questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Answer{}).Where("question_id = ?", questionID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func upsertAnswer(tx *gorm.DB, answer *model.Answer) error {
	var existing model.Answer
	err := tx.Where("interview_id = ? AND question_id = ?", answer.InterviewID, answer.QuestionID).
		First(&existing).Error
	switch {
	case err == nil:
		answer.ID = existing.ID
		answer.CreatedAt = existing.CreatedAt
		return tx.Save(answer).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(answer).Error
	default:
		return err
	}
}
