package service

import (
	"context"

	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/repository"
)

// AnalyticsService serves the reporting endpoints straight off the
// aggregation queries.
type AnalyticsService struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(repo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// ProfessorEarnings aggregates a professor's sessions by month
func (s *AnalyticsService) ProfessorEarnings(ctx context.Context, professorID string, months int) ([]*domain.MonthlyEarnings, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	return s.repo.MonthlyEarnings(ctx, professorID, months)
}

// AdminOverview returns totals by status and per-professor aggregates
func (s *AnalyticsService) AdminOverview(ctx context.Context) ([]*domain.StatusTotals, []*domain.ProfessorTotals, error) {
	statusTotals, err := s.repo.StatusTotals(ctx)
	if err != nil {
		return nil, nil, err
	}
	professorTotals, err := s.repo.ProfessorTotals(ctx)
	if err != nil {
		return nil, nil, err
	}
	return statusTotals, professorTotals, nil
}
