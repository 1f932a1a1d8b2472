package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/types"
)

// PlanCache is a read-through cache for daily plans. The database row is
// always the source of truth; a cache miss or failure only costs a query.
type PlanCache interface {
	Get(ctx context.Context, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, bool)
	Set(ctx context.Context, plan *types.DailyPlan)
}

// RequirementStanding is one category's position against its credit target.
type RequirementStanding struct {
	Requirement      *types.GraduationRequirement `json:"requirement"`
	EarnedCredits    float64                      `json:"earned_credits"`
	RemainingCredits float64                      `json:"remaining_credits"`
	PercentComplete  float64                      `json:"percent_complete"`
	Priority         string                       `json:"priority"`
}

// PlannerService ranks graduation-requirement categories by deficit and
// materializes one recommended plan per learner per day.
type PlannerService interface {
	Standings(ctx context.Context, userID uuid.UUID) ([]RequirementStanding, error)
	GetOrCreateDailyPlan(ctx context.Context, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, error)
}

type plannerService struct {
	log             *logger.Logger
	userRepo        repos.UserRepo
	requirementRepo repos.GraduationRequirementRepo
	creditRepo      repos.CreditTotalRepo
	planRepo        repos.DailyPlanRepo
	activityRepo    repos.ActivityRepo
	gaps            GapService
	cache           PlanCache
	projectLookback time.Duration
}

func NewPlannerService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	requirementRepo repos.GraduationRequirementRepo,
	creditRepo repos.CreditTotalRepo,
	planRepo repos.DailyPlanRepo,
	activityRepo repos.ActivityRepo,
	gaps GapService,
	cache PlanCache,
) PlannerService {
	serviceLog := log.With("service", "PlannerService")
	return &plannerService{
		log:             serviceLog,
		userRepo:        userRepo,
		requirementRepo: requirementRepo,
		creditRepo:      creditRepo,
		planRepo:        planRepo,
		activityRepo:    activityRepo,
		gaps:            gaps,
		cache:           cache,
		projectLookback: 14 * 24 * time.Hour,
	}
}

func priorityFor(percentComplete float64) string {
	switch {
	case percentComplete < 25:
		return types.PlanPriorityCritical
	case percentComplete < 50:
		return types.PlanPriorityHigh
	case percentComplete < 75:
		return types.PlanPriorityMedium
	default:
		return types.PlanPriorityLow
	}
}

func prioritySeverity(priority string) int {
	switch priority {
	case types.PlanPriorityCritical:
		return 3
	case types.PlanPriorityHigh:
		return 2
	case types.PlanPriorityMedium:
		return 1
	default:
		return 0
	}
}

func (s *plannerService) Standings(ctx context.Context, userID uuid.UUID) ([]RequirementStanding, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Store("user.get", err)
	}

	var (
		requirements []*types.GraduationRequirement
		totals       []*types.CreditTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.requirementRepo.ListByJurisdiction(gctx, nil, user.Jurisdiction)
		if err != nil {
			return apperr.Store("graduation_requirement.list", err)
		}
		requirements = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.creditRepo.ListByUserID(gctx, nil, userID)
		if err != nil {
			return apperr.Store("credit_total.list", err)
		}
		totals = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	earnedByRequirement := make(map[uuid.UUID]float64, len(totals))
	for _, total := range totals {
		earnedByRequirement[total.RequirementID] = total.EarnedCredits
	}

	standings := make([]RequirementStanding, 0, len(requirements))
	for _, req := range requirements {
		if req.RequiredCredits <= 0 {
			continue
		}
		earned := earnedByRequirement[req.ID]
		remaining := req.RequiredCredits - earned
		if remaining <= 0 {
			continue
		}
		percent := earned / req.RequiredCredits * 100
		standings = append(standings, RequirementStanding{
			Requirement:      req,
			EarnedCredits:    earned,
			RemainingCredits: remaining,
			PercentComplete:  percent,
			Priority:         priorityFor(percent),
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		si, sj := prioritySeverity(standings[i].Priority), prioritySeverity(standings[j].Priority)
		if si != sj {
			return si > sj
		}
		return standings[i].RemainingCredits > standings[j].RemainingCredits
	})
	return standings, nil
}

func (s *plannerService) GetOrCreateDailyPlan(ctx context.Context, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, error) {
	planDate = truncateToDay(planDate)

	if s.cache != nil {
		if plan, ok := s.cache.Get(ctx, userID, planDate); ok {
			return plan, nil
		}
	}

	existing, err := s.planRepo.GetByUserAndDate(ctx, nil, userID, planDate)
	switch {
	case err == nil:
		s.cachePlan(ctx, existing)
		return existing, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, apperr.Store("daily_plan.get", err)
	}

	plan, err := s.buildPlan(ctx, userID, planDate)
	if err != nil {
		return nil, err
	}

	if err := s.planRepo.Create(ctx, nil, plan); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			winner, rerr := s.planRepo.GetByUserAndDate(ctx, nil, userID, planDate)
			if rerr != nil {
				return nil, apperr.Store("daily_plan.get_after_conflict", rerr)
			}
			s.cachePlan(ctx, winner)
			return winner, nil
		}
		return nil, apperr.Store("daily_plan.create", err)
	}
	s.cachePlan(ctx, plan)
	return plan, nil
}

func (s *plannerService) buildPlan(ctx context.Context, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, apperr.Store("user.get", err)
	}

	standings, err := s.Standings(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := &types.DailyPlan{
		ID:       uuid.New(),
		UserID:   userID,
		PlanDate: planDate,
	}

	if len(standings) == 0 {
		// All requirements satisfied: fall back to enrichment so the
		// learner still gets a plan for the day.
		tpl := defaultPlanTemplate
		s.fillFromTemplate(plan, tpl, "Enrichment")
		plan.Reason = "All graduation requirements are met. Keep momentum with enrichment work."
		plan.Priority = types.PlanPriorityLow
	} else {
		top := standings[0]
		tpl, ok := planTemplates[top.Requirement.Category]
		if !ok {
			tpl = defaultPlanTemplate
		}
		s.fillFromTemplate(plan, tpl, top.Requirement.Category)
		plan.Reason = fmt.Sprintf(
			"%s is %.0f%% complete (%.2f of %.2f credits). Earning here closes the largest gap.",
			top.Requirement.Category, top.PercentComplete, top.EarnedCredits, top.Requirement.RequiredCredits,
		)
		plan.Priority = top.Priority
		reqID := top.Requirement.ID
		plan.RequirementID = &reqID
		plan.EstimatedCredit = tpl.EstimatedCredit

		s.attachTargetStandards(ctx, plan, user)
	}

	s.applyProjectOverride(ctx, plan, userID, planDate)
	return plan, nil
}

// attachTargetStandards pins up to three unmet catalog standards for the
// plan's subject so the day's work lines up with coverage gaps.
func (s *plannerService) attachTargetStandards(ctx context.Context, plan *types.DailyPlan, user *types.User) {
	subject := plan.Subject
	unmet, err := s.gaps.UnmetStandards(ctx, user.ID, user.Jurisdiction, user.GradeLevel, &subject)
	if err != nil {
		s.log.Warn("gap lookup for plan targets failed", "error", err)
		return
	}
	if len(unmet) == 0 {
		return
	}
	if len(unmet) > 3 {
		unmet = unmet[:3]
	}
	codes := make([]string, 0, len(unmet))
	for _, std := range unmet {
		codes = append(codes, std.Code)
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return
	}
	plan.TargetStandards = raw
}

// applyProjectOverride swaps the plan's topic and activities for
// continue-project content when an unfinished project is recent enough.
// Subject, priority and credit target stay as the deficit ranking chose.
func (s *plannerService) applyProjectOverride(ctx context.Context, plan *types.DailyPlan, userID uuid.UUID, planDate time.Time) {
	since := planDate.Add(-s.projectLookback)
	project, err := s.activityRepo.LatestUnfinishedProject(ctx, nil, userID, since)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("project lookup failed", "error", err)
		}
		return
	}

	plan.Topic = fmt.Sprintf("Continue project: %s", project.Title)
	plan.Description = "Pick up where the project left off and push it toward completion."
	plan.Activities = mustJSONList(
		fmt.Sprintf("Review progress on %q and set today's milestone", project.Title),
		"Work the next concrete step of the project",
		"Note what was finished and what remains",
	)
	plan.Objectives = mustJSONList(
		"Make visible progress on the open project",
		"Practice sustained, self-directed work",
	)
}

func (s *plannerService) fillFromTemplate(plan *types.DailyPlan, tpl planTemplate, subject string) {
	plan.Subject = subject
	plan.Topic = tpl.Topics[rand.Intn(len(tpl.Topics))]
	plan.Description = tpl.Description
	plan.Activities = mustJSONList(tpl.Activities...)
	plan.Objectives = mustJSONList(tpl.Objectives...)
	plan.EstimatedCredit = tpl.EstimatedCredit
}

func (s *plannerService) cachePlan(ctx context.Context, plan *types.DailyPlan) {
	if s.cache != nil {
		s.cache.Set(ctx, plan)
	}
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mustJSONList(items ...string) []byte {
	raw, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return raw
}

type planTemplate struct {
	Topics          []string
	Description     string
	Activities      []string
	Objectives      []string
	EstimatedCredit float64
}

var planTemplates = map[string]planTemplate{
	"Mathematics": {
		Topics: []string{
			"Fractions in the kitchen",
			"Geometry scavenger hunt",
			"Real-world measurement",
			"Money math and budgeting",
		},
		Description: "Hands-on math grounded in everyday objects and routines.",
		Activities: []string{
			"Warm up with ten minutes of mental math",
			"Work the day's topic with physical materials",
			"Explain one solved problem out loud",
		},
		Objectives: []string{
			"Apply the topic to a concrete situation",
			"Show reasoning, not just answers",
		},
		EstimatedCredit: 0.25,
	},
	"Science": {
		Topics: []string{
			"Backyard ecosystem observation",
			"Kitchen chemistry experiment",
			"States of matter demonstrations",
			"Simple machines around the house",
		},
		Description: "Observation-first science with a recorded prediction and result.",
		Activities: []string{
			"Write a prediction before starting",
			"Run the experiment or observation",
			"Record what happened and compare to the prediction",
		},
		Objectives: []string{
			"Practice the observe-predict-test loop",
			"Keep an honest record of results",
		},
		EstimatedCredit: 0.25,
	},
	"English Language Arts": {
		Topics: []string{
			"Character deep-dive from the current read-aloud",
			"Write and revise a short narrative",
			"Poetry reading and response",
			"Letter to a friend or relative",
		},
		Description: "Reading and writing connected to what the learner cares about.",
		Activities: []string{
			"Read for twenty minutes",
			"Write on the day's topic",
			"Revise one paragraph for clarity",
		},
		Objectives: []string{
			"Produce a finished piece of writing",
			"Support an opinion with evidence from the text",
		},
		EstimatedCredit: 0.25,
	},
	"Social Studies": {
		Topics: []string{
			"Map your neighborhood",
			"Interview a family elder about the past",
			"Local government in action",
			"Comparing daily life across cultures",
		},
		Description: "Community-scale social studies built from primary sources.",
		Activities: []string{
			"Gather one primary source (interview, map, document)",
			"Summarize what it shows",
			"Connect it to a bigger historical or civic idea",
		},
		Objectives: []string{
			"Work from evidence, not summaries",
			"Relate local detail to broader context",
		},
		EstimatedCredit: 0.25,
	},
}

var defaultPlanTemplate = planTemplate{
	Topics: []string{
		"Learner's choice deep dive",
		"Document and present a recent interest",
	},
	Description: "Open-ended study of whatever currently has the learner's attention.",
	Activities: []string{
		"Pick the topic and write one question to answer",
		"Research or build for forty minutes",
		"Share what was learned with someone",
	},
	Objectives: []string{
		"Practice self-directed learning",
		"Turn curiosity into a finished artifact",
	},
	EstimatedCredit: 0.25,
}
