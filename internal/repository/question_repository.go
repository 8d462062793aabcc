package repository

import (
	"github.com/lehuyba/InterviewAce/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByIDWithTechStack(id uint) (*model.Question, error)
	FindAll(techStackID *uint) ([]model.Question, error)
	FindByTechStackIDs(ids []uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDWithTechStack(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("TechStack").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll(techStackID *uint) ([]model.Question, error) {
	query := r.db.Order("created_at DESC")
	if techStackID != nil {
		query = query.Where("tech_stack_id = ?", *techStackID)
	}
	var questions []model.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByTechStackIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("tech_stack_id IN ?", ids).Order("tech_stack_id ASC, id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}
