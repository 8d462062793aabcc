package repository

import (
	"github.com/lehuyba/InterviewAce/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	FindByID(id uint) (*model.Interview, error)
	FindByIDWithDetails(id uint) (*model.Interview, error)
	FindAll(candidateID *uint) ([]model.Interview, error)
	Update(interview *model.Interview) error
	ReplaceTechStacks(interview *model.Interview, stacks []model.TechStack) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *interviewRepository) FindByID(id uint) (*model.Interview, error) {
	var interview model.Interview
	if err := r.db.First(&interview, id).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByIDWithDetails(id uint) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.
		Preload("Candidate").
		Preload("Role").
		Preload("Role.TechStacks").
		Preload("TechStacks").
		Preload("Answers").
		First(&interview, id).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindAll(candidateID *uint) ([]model.Interview, error) {
	query := r.db.Preload("TechStacks").Order("scheduled_at DESC")
	if candidateID != nil {
		query = query.Where("candidate_id = ?", *candidateID)
	}
	var interviews []model.Interview
	if err := query.Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *interviewRepository) Update(interview *model.Interview) error {
	return r.db.Save(interview).Error
}

func (r *interviewRepository) ReplaceTechStacks(interview *model.Interview, stacks []model.TechStack) error {
	return r.db.Model(interview).Association("TechStacks").Replace(stacks)
}
