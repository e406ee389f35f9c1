package services

import (
	"context"
	"errors"
	"log"

	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Department errors
var (
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrDepartmentCodeExists = errors.New("department code already in use")
)

// DepartmentService handles department business logic
type DepartmentService struct {
	deptRepo repositories.DepartmentRepository
}

// NewDepartmentService creates a new department service
func NewDepartmentService(deptRepo repositories.DepartmentRepository) *DepartmentService {
	return &DepartmentService{deptRepo: deptRepo}
}

// DepartmentInput represents input for creating or updating a department
type DepartmentInput struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Head        string `json:"head"`
	Description string `json:"description"`
}

// ListDepartments lists all departments
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.deptRepo.List(ctx)
}

// GetDepartment gets a department by ID
func (s *DepartmentService) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return dept, nil
}

// CreateDepartment creates a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, input *DepartmentInput) (*models.Department, error) {
	// 1. Code must be unique
	exists, err := s.deptRepo.ExistsByCode(ctx, input.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDepartmentCodeExists
	}

	// 2. Create
	dept := &models.Department{
		Name:        input.Name,
		Code:        input.Code,
		Head:        input.Head,
		Description: input.Description,
	}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}

	log.Printf("✅ Department created: %s (%s)", dept.Name, dept.Code)
	return dept, nil
}

// UpdateDepartment updates an existing department
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uint, input *DepartmentInput) (*models.Department, error) {
	// 1. Load
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	// 2. Code must stay unique across the other rows
	if input.Code != dept.Code {
		exists, err := s.deptRepo.ExistsByCode(ctx, input.Code, dept.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDepartmentCodeExists
		}
	}

	// 3. Apply and save
	dept.Name = input.Name
	dept.Code = input.Code
	dept.Head = input.Head
	dept.Description = input.Description

	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, err
	}

	log.Printf("✅ Department updated: %s (ID: %d)", dept.Name, dept.ID)
	return dept, nil
}

// DeleteDepartment deletes a department
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint) error {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}

	if err := s.deptRepo.Delete(ctx, dept.ID); err != nil {
		return err
	}

	log.Printf("✅ Department deleted: %s (ID: %d)", dept.Name, dept.ID)
	return nil
}
