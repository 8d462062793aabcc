package repository

import (
	"github.com/lehuyba/InterviewAce/internal/model"
	"gorm.io/gorm"
)

type TechStackRepository interface {
	Create(stack *model.TechStack) error
	FindByID(id uint) (*model.TechStack, error)
	FindByIDs(ids []uint) ([]model.TechStack, error)
	FindAll() ([]model.TechStack, error)
	Update(stack *model.TechStack) error
	Delete(id uint) error
}

type techStackRepository struct {
	db *gorm.DB
}

func NewTechStackRepository(db *gorm.DB) TechStackRepository {
	return &techStackRepository{db: db}
}

func (r *techStackRepository) Create(stack *model.TechStack) error {
	return r.db.Create(stack).Error
}

func (r *techStackRepository) FindByID(id uint) (*model.TechStack, error) {
	var stack model.TechStack
	if err := r.db.First(&stack, id).Error; err != nil {
		return nil, err
	}
	return &stack, nil
}

func (r *techStackRepository) FindByIDs(ids []uint) ([]model.TechStack, error) {
	var stacks []model.TechStack
	if err := r.db.Where("id IN ?", ids).Find(&stacks).Error; err != nil {
		return nil, err
	}
	return stacks, nil
}

func (r *techStackRepository) FindAll() ([]model.TechStack, error) {
	var stacks []model.TechStack
	if err := r.db.Order("name ASC").Find(&stacks).Error; err != nil {
		return nil, err
	}
	return stacks, nil
}

func (r *techStackRepository) Update(stack *model.TechStack) error {
	return r.db.Save(stack).Error
}

func (r *techStackRepository) Delete(id uint) error {
	return r.db.Delete(&model.TechStack{}, id).Error
}
