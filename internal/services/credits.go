package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// CreditsService reads and reconciles per-requirement credit totals. The
// stored totals are a read-side convenience; the skill ledger is the
// source of truth and Recompute rebuilds totals from it.
type CreditsService interface {
	Totals(ctx context.Context, userID uuid.UUID) ([]*types.CreditTotal, error)
	Recompute(ctx context.Context, userID uuid.UUID) ([]*types.CreditTotal, error)
}

type creditsService struct {
	log              *logger.Logger
	userRepo         repos.UserRepo
	studentSkillRepo repos.StudentSkillRepo
	requirementRepo  repos.GraduationRequirementRepo
	creditRepo       repos.CreditTotalRepo
}

func NewCreditsService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	studentSkillRepo repos.StudentSkillRepo,
	requirementRepo repos.GraduationRequirementRepo,
	creditRepo repos.CreditTotalRepo,
) CreditsService {
	serviceLog := log.With("service", "CreditsService")
	return &creditsService{
		log:              serviceLog,
		userRepo:         userRepo,
		studentSkillRepo: studentSkillRepo,
		requirementRepo:  requirementRepo,
		creditRepo:       creditRepo,
	}
}

func (s *creditsService) Totals(ctx context.Context, userID uuid.UUID) ([]*types.CreditTotal, error) {
	rows, err := s.creditRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperr.Store("credit_total.list", err)
	}
	return rows, nil
}

// Recompute sums the skill ledger by requirement category and overwrites
// every stored total for the user, including zeroing totals whose ledger
// rows have gone away.
func (s *creditsService) Recompute(ctx context.Context, userID uuid.UUID) ([]*types.CreditTotal, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Store("user.get", err)
	}

	records, err := s.studentSkillRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperr.Store("student_skill_record.list", err)
	}

	earnedByCategory := make(map[string]float64)
	for _, rec := range records {
		if rec.Skill == nil {
			continue
		}
		earnedByCategory[rec.Skill.Category] += rec.Skill.CreditValue
	}

	requirements, err := s.requirementRepo.ListByJurisdiction(ctx, nil, user.Jurisdiction)
	if err != nil {
		return nil, apperr.Store("graduation_requirement.list", err)
	}

	for _, req := range requirements {
		earned := earnedByCategory[req.Category]
		if err := s.creditRepo.SetCredits(ctx, nil, userID, req.ID, earned); err != nil {
			return nil, apperr.Store("credit_total.set", err)
		}
	}

	return s.Totals(ctx, userID)
}
