package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type activityFixture struct {
	svc          ActivityService
	userID       uuid.UUID
	activityRepo *fakeActivityRepo
	progressRepo *fakeProgressRepo
	credits      *fakeCreditTotalRepo
}

func newActivityFixture(t *testing.T, provider SuggestionProvider, catalog []*types.Standard, skills []*types.SkillDefinition) *activityFixture {
	t.Helper()
	log := testLogger(t)
	userID := uuid.New()
	users := newFakeUserRepo(&types.User{ID: userID, Email: "kid@example.com", Jurisdiction: "US-CA", GradeLevel: "3"})

	mathReq := &types.GraduationRequirement{ID: uuid.New(), Jurisdiction: "US-CA", Category: "Mathematics", RequiredCredits: 4}
	requirements := &fakeRequirementRepo{requirements: []*types.GraduationRequirement{mathReq}}
	credits := newFakeCreditTotalRepo()
	mastery := NewMasteryService(log, &fakeSkillDefinitionRepo{defs: skills}, newFakeStudentSkillRepo(), users, requirements, credits)

	standards := NewStandardsService(log, &fakeStandardRepo{standards: catalog}, &fakeComponentRepo{})
	progressRepo := newFakeProgressRepo()
	progress := NewProgressService(log, progressRepo)
	linker := NewLinkerService(log, provider, standards, progress)

	activityRepo := &fakeActivityRepo{}
	svc := NewActivityService(log, activityRepo, users, mastery, linker, ConfidenceMedium)
	return &activityFixture{
		svc:          svc,
		userID:       userID,
		activityRepo: activityRepo,
		progressRepo: progressRepo,
		credits:      credits,
	}
}

func TestLogActivityFullFlow(t *testing.T) {
	std := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics", GradeLevel: "3"}
	provider := &fakeSuggestionProvider{suggestions: []StandardSuggestion{
		{Code: "M.3.1", Confidence: ConfidenceHigh},
	}}
	baking := &types.SkillDefinition{ID: uuid.New(), Name: "Baking", Category: "Mathematics", CreditValue: 0.25}
	fx := newActivityFixture(t, provider, []*types.Standard{std}, []*types.SkillDefinition{baking})

	result, err := fx.svc.LogActivity(context.Background(), fx.userID, ActivityInput{
		Title:     "Baked bread with fractions",
		Subject:   "Mathematics",
		SkillTags: []string{"Baking"},
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(fx.activityRepo.activities) != 1 {
		t.Fatalf("activity row should persist")
	}
	if len(result.SkillResults) != 1 || result.SkillResults[0].Status != SkillStatusMastered {
		t.Fatalf("skill should be mastered, got %+v", result.SkillResults)
	}
	if len(result.LinkedStandard) != 1 || result.LinkedStandard[0].ID != std.ID {
		t.Fatalf("standard should auto-link, got %d", len(result.LinkedStandard))
	}
	rec, err := fx.progressRepo.Get(context.Background(), nil, fx.userID, std.ID)
	if err != nil {
		t.Fatalf("progress row: %v", err)
	}
	if rec.SourceID == nil || *rec.SourceID != result.Activity.ID {
		t.Fatalf("progress should cite the activity")
	}
}

func TestLogActivitySurvivesProviderOutage(t *testing.T) {
	provider := &fakeSuggestionProvider{err: fmt.Errorf("%w: 503", apperr.ErrProviderUnavailable)}
	fx := newActivityFixture(t, provider, nil, nil)

	result, err := fx.svc.LogActivity(context.Background(), fx.userID, ActivityInput{Title: "Nature walk"})
	if err != nil {
		t.Fatalf("provider outage must not fail the log: %v", err)
	}
	if len(result.LinkedStandard) != 0 {
		t.Fatalf("no links expected during an outage")
	}
	if len(fx.activityRepo.activities) != 1 {
		t.Fatalf("activity row should still persist")
	}
}

func TestLogActivityRejectsEmptyTitle(t *testing.T) {
	fx := newActivityFixture(t, &fakeSuggestionProvider{}, nil, nil)
	if _, err := fx.svc.LogActivity(context.Background(), fx.userID, ActivityInput{Title: "   "}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
