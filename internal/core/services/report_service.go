package services

import (
	"context"
	"errors"
	"log"

	"palika-console/internal/adapters/persistence/models"
	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/core/domain"

	"gorm.io/gorm"
)

// Report errors
var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportAccessDenied  = errors.New("only the creator or an admin can modify this report")
	ErrInvalidReportStatus = errors.New("invalid report status")
)

// ReportService handles monthly progress report business logic
type ReportService struct {
	reportRepo repositories.ReportRepository
	deptRepo   repositories.DepartmentRepository
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repositories.ReportRepository,
	deptRepo repositories.DepartmentRepository,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		deptRepo:   deptRepo,
	}
}

// ReportInput represents input for creating or updating a report
type ReportInput struct {
	DepartmentID uint   `json:"department_id"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Progress     int    `json:"progress"`
	Status       string `json:"status"`
}

func validReportStatus(status string) bool {
	switch status {
	case domain.ReportPending, domain.ReportInProgress, domain.ReportCompleted, domain.ReportDelayed:
		return true
	}
	return false
}

// ListReports lists reports matching the filter
func (s *ReportService) ListReports(ctx context.Context, filter *repositories.ReportFilter) ([]*models.ReportResponse, error) {
	reports, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, r.ToResponse())
	}
	return responses, nil
}

// GetReport gets a report by ID
func (s *ReportService) GetReport(ctx context.Context, id uint) (*models.ReportResponse, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report.ToResponse(), nil
}

// CreateReport files a new monthly report on behalf of creatorID
func (s *ReportService) CreateReport(ctx context.Context, creatorID uint, input *ReportInput) (*models.ReportResponse, error) {
	// 1. Resolve the department
	if _, err := s.deptRepo.GetByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownDepartment
		}
		return nil, err
	}

	// 2. Default and validate the status
	status := input.Status
	if status == "" {
		status = domain.ReportPending
	}
	if !validReportStatus(status) {
		return nil, ErrInvalidReportStatus
	}

	// 3. Create
	report := &models.Report{
		DepartmentID: input.DepartmentID,
		Month:        input.Month,
		Year:         input.Year,
		Title:        input.Title,
		Description:  input.Description,
		Progress:     input.Progress,
		Status:       status,
		CreatedByID:  creatorID,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	// Reload for the department/creator names
	created, err := s.reportRepo.GetByID(ctx, report.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Report filed: %q (%d/%d, department %d)", report.Title, report.Year, report.Month, report.DepartmentID)
	return created.ToResponse(), nil
}

// UpdateReport updates a report. Only the creator or an admin may edit.
func (s *ReportService) UpdateReport(ctx context.Context, id, actorID uint, actorRole string, input *ReportInput) (*models.ReportResponse, error) {
	// 1. Load
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	// 2. Creator-or-admin rule
	if actorRole != string(domain.RoleAdmin) && report.CreatedByID != actorID {
		return nil, ErrReportAccessDenied
	}

	// 3. Department move
	if input.DepartmentID != 0 && input.DepartmentID != report.DepartmentID {
		if _, err := s.deptRepo.GetByID(ctx, input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownDepartment
			}
			return nil, err
		}
		report.DepartmentID = input.DepartmentID
	}

	// 4. Status
	if input.Status != "" {
		if !validReportStatus(input.Status) {
			return nil, ErrInvalidReportStatus
		}
		report.Status = input.Status
	}

	// 5. Apply and save
	report.Month = input.Month
	report.Year = input.Year
	report.Title = input.Title
	report.Description = input.Description
	report.Progress = input.Progress

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	updated, err := s.reportRepo.GetByID(ctx, report.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Report updated: %q (ID: %d)", report.Title, report.ID)
	return updated.ToResponse(), nil
}

// DeleteReport deletes a report. Only the creator or an admin may delete.
func (s *ReportService) DeleteReport(ctx context.Context, id, actorID uint, actorRole string) error {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	if actorRole != string(domain.RoleAdmin) && report.CreatedByID != actorID {
		return ErrReportAccessDenied
	}

	if err := s.reportRepo.Delete(ctx, report.ID); err != nil {
		return err
	}

	log.Printf("✅ Report deleted: %q (ID: %d)", report.Title, report.ID)
	return nil
}
