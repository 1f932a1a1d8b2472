package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// GapService finds catalog standards the learner has not touched yet. Any
// progress record counts as touched, whatever its level. Pure read.
type GapService interface {
	UnmetStandards(ctx context.Context, userID uuid.UUID, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error)
}

type gapService struct {
	log          *logger.Logger
	standardRepo repos.StandardRepo
	progressRepo repos.StandardProgressRepo
}

func NewGapService(log *logger.Logger, standardRepo repos.StandardRepo, progressRepo repos.StandardProgressRepo) GapService {
	serviceLog := log.With("service", "GapService")
	return &gapService{log: serviceLog, standardRepo: standardRepo, progressRepo: progressRepo}
}

func (s *gapService) UnmetStandards(ctx context.Context, userID uuid.UUID, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error) {
	catalog, err := s.standardRepo.ListCatalog(ctx, nil, jurisdiction, gradeLevel, subject)
	if err != nil {
		return nil, apperr.Store("standard.list_catalog", err)
	}
	if len(catalog) == 0 {
		return []*types.Standard{}, nil
	}

	metIDs, err := s.progressRepo.ListStandardIDsByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperr.Store("standard_progress.list_ids", err)
	}
	met := make(map[uuid.UUID]struct{}, len(metIDs))
	for _, id := range metIDs {
		met[id] = struct{}{}
	}

	unmet := make([]*types.Standard, 0, len(catalog))
	for _, std := range catalog {
		if _, ok := met[std.ID]; !ok {
			unmet = append(unmet, std)
		}
	}
	return unmet, nil
}
