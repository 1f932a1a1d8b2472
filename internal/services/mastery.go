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

// Per-skill outcomes. The names are learner-facing: repeating a skill you
// already earned is "Depth of Study", a name we don't recognize yet is a
// "New Discovery".
const (
	SkillStatusMastered     = "Mastered"
	SkillStatusDepthOfStudy = "Depth of Study"
	SkillStatusNewDiscovery = "New Discovery"
)

type SkillResult struct {
	Skill        string  `json:"skill"`
	Status       string  `json:"status"`
	CreditEarned float64 `json:"credit_earned"`
	Category     string  `json:"category,omitempty"`
}

// MasteryService is the idempotent skill-mastery ledger. Processing the
// same names twice never awards credit twice, and no single name's failure
// aborts the rest of the batch.
type MasteryService interface {
	ProcessSkills(ctx context.Context, userID uuid.UUID, skillNames []string, source string) []SkillResult
}

type masteryService struct {
	log              *logger.Logger
	skillRepo        repos.SkillDefinitionRepo
	studentSkillRepo repos.StudentSkillRepo
	userRepo         repos.UserRepo
	requirementRepo  repos.GraduationRequirementRepo
	creditRepo       repos.CreditTotalRepo
}

func NewMasteryService(
	log *logger.Logger,
	skillRepo repos.SkillDefinitionRepo,
	studentSkillRepo repos.StudentSkillRepo,
	userRepo repos.UserRepo,
	requirementRepo repos.GraduationRequirementRepo,
	creditRepo repos.CreditTotalRepo,
) MasteryService {
	serviceLog := log.With("service", "MasteryService")
	return &masteryService{
		log:              serviceLog,
		skillRepo:        skillRepo,
		studentSkillRepo: studentSkillRepo,
		userRepo:         userRepo,
		requirementRepo:  requirementRepo,
		creditRepo:       creditRepo,
	}
}

func (s *masteryService) ProcessSkills(ctx context.Context, userID uuid.UUID, skillNames []string, source string) []SkillResult {
	if source == "" {
		source = types.SkillSourceManual
	}

	var jurisdiction string
	if user, err := s.userRepo.GetByID(ctx, nil, userID); err == nil {
		jurisdiction = user.Jurisdiction
	} else {
		s.log.Warn("could not load user for credit routing", "user_id", userID, "error", err)
	}

	results := make([]SkillResult, 0, len(skillNames))
	for _, name := range skillNames {
		results = append(results, s.processOne(ctx, userID, jurisdiction, name, source))
	}
	return results
}

func (s *masteryService) processOne(ctx context.Context, userID uuid.UUID, jurisdiction, name, source string) SkillResult {
	def, err := s.skillRepo.GetByName(ctx, nil, name)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Error("skill lookup failed", "skill", name, "error", err)
		}
		// Unresolved names are reported, never materialized.
		return SkillResult{Skill: name, Status: SkillStatusNewDiscovery, CreditEarned: 0}
	}

	if _, err := s.studentSkillRepo.Get(ctx, nil, userID, def.ID); err == nil {
		return SkillResult{Skill: name, Status: SkillStatusDepthOfStudy, CreditEarned: 0, Category: def.Category}
	} else if !errors.Is(err, apperr.ErrNotFound) {
		s.log.Error("skill record lookup failed", "skill", name, "error", err)
		return SkillResult{Skill: name, Status: SkillStatusNewDiscovery, CreditEarned: 0, Category: def.Category}
	}

	row := &types.StudentSkillRecord{
		ID:       uuid.New(),
		UserID:   userID,
		SkillID:  def.ID,
		Source:   source,
		EarnedAt: time.Now().UTC(),
	}
	if err := s.studentSkillRepo.Create(ctx, nil, row); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			// A concurrent writer won the race; the skill is earned
			// either way, just not by this call.
			return SkillResult{Skill: name, Status: SkillStatusDepthOfStudy, CreditEarned: 0, Category: def.Category}
		}
		s.log.Error("skill record insert failed", "skill", name, "error", err)
		return SkillResult{Skill: name, Status: SkillStatusNewDiscovery, CreditEarned: 0, Category: def.Category}
	}

	s.forwardCredit(ctx, userID, jurisdiction, def)
	return SkillResult{Skill: name, Status: SkillStatusMastered, CreditEarned: def.CreditValue, Category: def.Category}
}

// forwardCredit adds the skill's credit value to the matching graduation
// requirement bucket. Failures are logged only: the stored total is a
// read-side convenience, recomputable from the ledger at any time.
func (s *masteryService) forwardCredit(ctx context.Context, userID uuid.UUID, jurisdiction string, def *types.SkillDefinition) {
	if def.CreditValue <= 0 || jurisdiction == "" || def.Category == "" {
		return
	}

	req, err := s.requirementRepo.GetByCategory(ctx, nil, jurisdiction, def.Category)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("requirement lookup failed", "category", def.Category, "error", err)
		}
		return
	}
	if err := s.creditRepo.AddCredit(ctx, nil, userID, req.ID, def.CreditValue); err != nil {
		s.log.Warn("credit forward failed", "category", def.Category, "error", err)
	}
}
