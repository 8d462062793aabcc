package repository

import (
	"github.com/lehuyba/InterviewAce/internal/model"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(role *model.Role) error
	FindByID(id uint) (*model.Role, error)
	FindAll() ([]model.Role, error)
	Update(role *model.Role) error
	ReplaceTechStacks(role *model.Role, stacks []model.TechStack) error
	Delete(id uint) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(role *model.Role) error {
	return r.db.Create(role).Error
}

func (r *roleRepository) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("TechStacks").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindAll() ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.Preload("TechStacks").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Update(role *model.Role) error {
	return r.db.Save(role).Error
}

func (r *roleRepository) ReplaceTechStacks(role *model.Role, stacks []model.TechStack) error {
	return r.db.Model(role).Association("TechStacks").Replace(stacks)
}

func (r *roleRepository) Delete(id uint) error {
	return r.db.Delete(&model.Role{}, id).Error
}
