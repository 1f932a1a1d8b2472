package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// ActivityInput is one logged learner activity as submitted.
type ActivityInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ActivityType string   `json:"activity_type"`
	Subject      string   `json:"subject"`
	SkillTags    []string `json:"skill_tags"`
	Completed    bool     `json:"completed"`
}

// ActivityResult is the full outcome of logging one activity: the stored
// row, the per-skill ledger outcomes, and any standards auto-linked from
// the free text.
type ActivityResult struct {
	Activity       *types.Activity   `json:"activity"`
	SkillResults   []SkillResult     `json:"skill_results"`
	LinkedStandard []*types.Standard `json:"linked_standards"`
}

// ActivityService is the write-side entry point: persist the activity,
// run the mastery ledger over its skill tags, then best-effort link the
// text to standards. Ledger and linker failures never fail the log call.
type ActivityService interface {
	LogActivity(ctx context.Context, userID uuid.UUID, input ActivityInput) (*ActivityResult, error)
	ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Activity, error)
}

type activityService struct {
	log           *logger.Logger
	activityRepo  repos.ActivityRepo
	userRepo      repos.UserRepo
	mastery       MasteryService
	linker        LinkerService
	autoLinkLevel Confidence
}

func NewActivityService(
	log *logger.Logger,
	activityRepo repos.ActivityRepo,
	userRepo repos.UserRepo,
	mastery MasteryService,
	linker LinkerService,
	autoLinkLevel Confidence,
) ActivityService {
	serviceLog := log.With("service", "ActivityService")
	if autoLinkLevel.Rank() == 0 {
		autoLinkLevel = ConfidenceMedium
	}
	return &activityService{
		log:           serviceLog,
		activityRepo:  activityRepo,
		userRepo:      userRepo,
		mastery:       mastery,
		linker:        linker,
		autoLinkLevel: autoLinkLevel,
	}
}

func (s *activityService) LogActivity(ctx context.Context, userID uuid.UUID, input ActivityInput) (*ActivityResult, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperr.ErrInvalidArgument
	}
	activityType := input.ActivityType
	if activityType == "" {
		activityType = types.ActivityTypeLesson
	}

	row := &types.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Description:  input.Description,
		ActivityType: activityType,
		Subject:      input.Subject,
	}
	if len(input.SkillTags) > 0 {
		if raw, err := json.Marshal(input.SkillTags); err == nil {
			row.SkillTags = raw
		}
	}
	if input.Completed {
		now := time.Now().UTC()
		row.CompletedAt = &now
	}

	if err := s.activityRepo.Create(ctx, nil, row); err != nil {
		return nil, apperr.Store("activity.create", err)
	}

	result := &ActivityResult{Activity: row}

	if len(input.SkillTags) > 0 {
		result.SkillResults = s.mastery.ProcessSkills(ctx, userID, input.SkillTags, types.SkillSourceActivity)
	}

	result.LinkedStandard = s.autoLink(ctx, userID, row, input)
	return result, nil
}

func (s *activityService) autoLink(ctx context.Context, userID uuid.UUID, row *types.Activity, input ActivityInput) []*types.Standard {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("user lookup for auto-link failed", "error", err)
		}
		return nil
	}

	activityID := row.ID
	req := SuggestionRequest{
		UserID:       userID,
		ActivityID:   &activityID,
		ActivityText: row.Title + "\n" + row.Description,
		ActivityAnalysis: strings.TrimSpace(strings.Join([]string{
			"type: " + row.ActivityType,
			"subject: " + row.Subject,
			"skills: " + strings.Join(input.SkillTags, ", "),
		}, "\n")),
		Jurisdiction: user.Jurisdiction,
		GradeLevel:   user.GradeLevel,
	}
	return s.linker.AutoLink(ctx, req, s.autoLinkLevel)
}

func (s *activityService) ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	rows, err := s.activityRepo.ListByUserID(ctx, nil, userID, limit)
	if err != nil {
		return nil, apperr.Store("activity.list", err)
	}
	return rows, nil
}
