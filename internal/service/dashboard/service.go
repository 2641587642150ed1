package dashboard

import (
	"context"
	"fmt"

	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository"
)

const recentVisitLimit = 5

type Service struct {
	statsRepo repository.StatsRepository
	visitRepo repository.VisitRepository
}

func NewService(statsRepo repository.StatsRepository, visitRepo repository.VisitRepository) *Service {
	return &Service{statsRepo: statsRepo, visitRepo: visitRepo}
}

func (s *Service) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentVisits, err = s.visitRepo.ListRecent(ctx, recentVisitLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent visits: %w", err)
	}
	return stats, nil
}
