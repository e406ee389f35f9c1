package repositories

import (
	"context"

	"palika-console/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// departmentRepository implements DepartmentRepository interface
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create creates a new department
func (r *departmentRepository) Create(ctx context.Context, dept *models.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

// GetByID gets a department by ID
func (r *departmentRepository) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// GetByCode gets a department by its unique code
func (r *departmentRepository) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	var dept models.Department
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// Update updates a department
func (r *departmentRepository) Update(ctx context.Context, dept *models.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

// Delete soft deletes a department
func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Department{}, id).Error
}

// List lists all departments ordered by name
func (r *departmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	var depts []*models.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&depts).Error
	if err != nil {
		return nil, err
	}
	return depts, nil
}

// ExistsByCode checks if a department code is taken by another row
func (r *departmentRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Department{}).Where("code = ?", code)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Count counts all departments
func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Department{}).Count(&count).Error
	return count, err
}
