package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// ProgressService advances the per-(learner, standard) mastery ladder.
// Levels only climb; "mastered" is absorbing. A first demonstration lands
// on "developing" directly — one sighting is already past "introduced".
type ProgressService interface {
	RecordProgress(ctx context.Context, userID, standardID uuid.UUID, sourceType string, sourceID *uuid.UUID) (*types.StandardProgress, error)
	ListProgress(ctx context.Context, userID uuid.UUID) ([]*types.StandardProgress, error)
}

type progressService struct {
	log          *logger.Logger
	progressRepo repos.StandardProgressRepo
}

func NewProgressService(log *logger.Logger, progressRepo repos.StandardProgressRepo) ProgressService {
	serviceLog := log.With("service", "ProgressService")
	return &progressService{log: serviceLog, progressRepo: progressRepo}
}

func nextMasteryLevel(current types.MasteryLevel) types.MasteryLevel {
	switch current {
	case types.MasteryIntroduced:
		return types.MasteryDeveloping
	case types.MasteryDeveloping:
		return types.MasteryProficient
	case types.MasteryProficient:
		return types.MasteryMastered
	case types.MasteryMastered:
		return types.MasteryMastered
	default:
		return types.MasteryDeveloping
	}
}

func (s *progressService) RecordProgress(ctx context.Context, userID, standardID uuid.UUID, sourceType string, sourceID *uuid.UUID) (*types.StandardProgress, error) {
	if sourceType == "" {
		sourceType = types.ProgressSourceManual
	}

	rec, err := s.progressRepo.Get(ctx, nil, userID, standardID)
	switch {
	case err == nil:
		return s.advance(ctx, rec, sourceType, sourceID)
	case errors.Is(err, apperr.ErrNotFound):
		row := &types.StandardProgress{
			ID:             uuid.New(),
			UserID:         userID,
			StandardID:     standardID,
			Level:          types.MasteryDeveloping,
			SourceType:     sourceType,
			SourceID:       sourceID,
			DemonstratedAt: time.Now().UTC(),
		}
		cerr := s.progressRepo.Create(ctx, nil, row)
		if cerr == nil {
			return row, nil
		}
		if errors.Is(cerr, apperr.ErrConflict) {
			// Another writer created the record first; advance from
			// whatever level it landed on.
			winner, rerr := s.progressRepo.Get(ctx, nil, userID, standardID)
			if rerr != nil {
				return nil, apperr.Store("standard_progress.get_after_conflict", rerr)
			}
			return s.advance(ctx, winner, sourceType, sourceID)
		}
		return nil, apperr.Store("standard_progress.create", cerr)
	default:
		return nil, apperr.Store("standard_progress.get", err)
	}
}

// advance moves the record one step up the ladder. At "mastered" the level
// stays put but the timestamp and provenance refresh, so the newest
// demonstration is always the one on record.
func (s *progressService) advance(ctx context.Context, rec *types.StandardProgress, sourceType string, sourceID *uuid.UUID) (*types.StandardProgress, error) {
	next := nextMasteryLevel(rec.Level)
	if next.Rank() < rec.Level.Rank() {
		next = rec.Level
	}
	rec.Level = next
	rec.SourceType = sourceType
	rec.SourceID = sourceID
	rec.DemonstratedAt = time.Now().UTC()

	if err := s.progressRepo.Save(ctx, nil, rec); err != nil {
		return nil, apperr.Store("standard_progress.save", err)
	}
	return rec, nil
}

func (s *progressService) ListProgress(ctx context.Context, userID uuid.UUID) ([]*types.StandardProgress, error) {
	rows, err := s.progressRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperr.Store("standard_progress.list", err)
	}
	return rows, nil
}
