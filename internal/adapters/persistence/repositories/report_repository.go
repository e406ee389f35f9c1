package repositories

import (
	"context"

	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/core/domain"

	"gorm.io/gorm"
)

// reportRepository implements ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create creates a new report
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByID gets a report by ID with its department and creator
func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("CreatedBy").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Update updates a report
func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// Delete soft deletes a report
func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Report{}, id).Error
}

// List lists reports matching the filter, newest period first
func (r *reportRepository) List(ctx context.Context, filter *ReportFilter) ([]*models.Report, error) {
	q := r.db.WithContext(ctx).
		Preload("Department").
		Preload("CreatedBy").
		Order("year DESC, month DESC")

	if filter != nil {
		if filter.DepartmentID > 0 {
			q = q.Where("department_id = ?", filter.DepartmentID)
		}
		if filter.Month > 0 {
			q = q.Where("month = ?", filter.Month)
		}
		if filter.Year > 0 {
			q = q.Where("year = ?", filter.Year)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
	}

	var reports []*models.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// MarkDelayed flags pending/in-progress reports from periods before the
// given fiscal month as delayed. Returns the number of rows changed.
func (r *reportRepository) MarkDelayed(ctx context.Context, beforeYear, beforeMonth int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("status IN ?", []string{domain.ReportPending, domain.ReportInProgress}).
		Where("(year < ?) OR (year = ? AND month < ?)", beforeYear, beforeYear, beforeMonth).
		Update("status", domain.ReportDelayed)
	return res.RowsAffected, res.Error
}

// Count counts all reports
func (r *reportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&count).Error
	return count, err
}
