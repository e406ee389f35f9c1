package services

import (
	"context"

	"palika-console/internal/adapters/persistence/repositories"
	"palika-console/internal/core/domain"

	"github.com/shopspring/decimal"
)

// DashboardService aggregates figures for the overview screen
type DashboardService struct {
	deptRepo   repositories.DepartmentRepository
	reportRepo repositories.ReportRepository
	budgetRepo repositories.BudgetRepository
	userRepo   repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	deptRepo repositories.DepartmentRepository,
	reportRepo repositories.ReportRepository,
	budgetRepo repositories.BudgetRepository,
	userRepo repositories.UserRepository,
) *DashboardService {
	return &DashboardService{
		deptRepo:   deptRepo,
		reportRepo: reportRepo,
		budgetRepo: budgetRepo,
		userRepo:   userRepo,
	}
}

// DashboardStats represents the overview figures
type DashboardStats struct {
	TotalDepartments int64 `json:"total_departments"`
	TotalReports     int64 `json:"total_reports"`
	TotalBudgets     int64 `json:"total_budgets"`
	TotalUsers       int64 `json:"total_users"`

	PendingReports   int64 `json:"pending_reports"`
	CompletedReports int64 `json:"completed_reports"`
	DelayedReports   int64 `json:"delayed_reports"`

	TotalAllocated  decimal.Decimal `json:"total_allocated"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}

// GetStats gathers the dashboard figures
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalAllocated:  decimal.Zero,
		TotalSpent:      decimal.Zero,
		RemainingBudget: decimal.Zero,
	}

	// 1. Record counts
	var err error
	if stats.TotalDepartments, err = s.deptRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalReports, err = s.reportRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBudgets, err = s.budgetRepo.Count(ctx); err != nil {
		return nil, err
	}
	if _, stats.TotalUsers, err = s.userRepo.List(ctx, 0, 1); err != nil {
		return nil, err
	}

	// 2. Report status breakdown
	reports, err := s.reportRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		switch r.Status {
		case domain.ReportPending, domain.ReportInProgress:
			stats.PendingReports++
		case domain.ReportCompleted:
			stats.CompletedReports++
		case domain.ReportDelayed:
			stats.DelayedReports++
		}
	}

	// 3. Budget totals across active budgets
	budgets, err := s.budgetRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if b.Status == domain.BudgetCancelled {
			continue
		}
		stats.TotalAllocated = stats.TotalAllocated.Add(b.AllocatedBudget)
		stats.TotalSpent = stats.TotalSpent.Add(b.SpentBudget())
	}
	stats.RemainingBudget = stats.TotalAllocated.Sub(stats.TotalSpent)

	return stats, nil
}
