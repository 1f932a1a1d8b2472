package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/types"
)

func TestProcessSkillsOutcomes(t *testing.T) {
	log := testLogger(t)
	userID := uuid.New()
	users := newFakeUserRepo(&types.User{ID: userID, Email: "kid@example.com", Jurisdiction: "US-CA"})

	baking := &types.SkillDefinition{ID: uuid.New(), Name: "Baking", Category: "Mathematics", CreditValue: 0.25}
	reading := &types.SkillDefinition{ID: uuid.New(), Name: "Close Reading", Category: "English Language Arts", CreditValue: 0.5}
	skills := &fakeSkillDefinitionRepo{defs: []*types.SkillDefinition{baking, reading}}

	mathReq := &types.GraduationRequirement{ID: uuid.New(), Jurisdiction: "US-CA", Category: "Mathematics", RequiredCredits: 4}
	requirements := &fakeRequirementRepo{requirements: []*types.GraduationRequirement{mathReq}}

	records := newFakeStudentSkillRepo()
	credits := newFakeCreditTotalRepo()
	svc := NewMasteryService(log, skills, records, users, requirements, credits)

	results := svc.ProcessSkills(context.Background(), userID, []string{"baking", "Underwater Basket Weaving"}, types.SkillSourceActivity)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != SkillStatusMastered || results[0].CreditEarned != 0.25 {
		t.Fatalf("baking: got %+v", results[0])
	}
	if results[1].Status != SkillStatusNewDiscovery || results[1].CreditEarned != 0 {
		t.Fatalf("unknown skill: got %+v", results[1])
	}

	if earned := credits.totals[creditKey{userID, mathReq.ID}]; earned != 0.25 {
		t.Fatalf("expected 0.25 credits forwarded, got %v", earned)
	}
}

func TestProcessSkillsIdempotent(t *testing.T) {
	log := testLogger(t)
	userID := uuid.New()
	users := newFakeUserRepo(&types.User{ID: userID, Email: "kid@example.com", Jurisdiction: "US-CA"})

	baking := &types.SkillDefinition{ID: uuid.New(), Name: "Baking", Category: "Mathematics", CreditValue: 0.25}
	skills := &fakeSkillDefinitionRepo{defs: []*types.SkillDefinition{baking}}
	mathReq := &types.GraduationRequirement{ID: uuid.New(), Jurisdiction: "US-CA", Category: "Mathematics", RequiredCredits: 4}
	requirements := &fakeRequirementRepo{requirements: []*types.GraduationRequirement{mathReq}}

	records := newFakeStudentSkillRepo()
	credits := newFakeCreditTotalRepo()
	svc := NewMasteryService(log, skills, records, users, requirements, credits)

	first := svc.ProcessSkills(context.Background(), userID, []string{"Baking"}, "")
	second := svc.ProcessSkills(context.Background(), userID, []string{"Baking"}, "")

	if first[0].Status != SkillStatusMastered {
		t.Fatalf("first pass: got %q", first[0].Status)
	}
	if second[0].Status != SkillStatusDepthOfStudy {
		t.Fatalf("second pass: got %q", second[0].Status)
	}
	if second[0].CreditEarned != 0 {
		t.Fatalf("second pass must not award credit, got %v", second[0].CreditEarned)
	}
	if earned := credits.totals[creditKey{userID, mathReq.ID}]; earned != 0.25 {
		t.Fatalf("credits double-counted: %v", earned)
	}
}

func TestProcessSkillsInsertRaceLost(t *testing.T) {
	log := testLogger(t)
	userID := uuid.New()
	users := newFakeUserRepo(&types.User{ID: userID, Email: "kid@example.com", Jurisdiction: "US-CA"})

	baking := &types.SkillDefinition{ID: uuid.New(), Name: "Baking", Category: "Mathematics", CreditValue: 0.25}
	skills := &fakeSkillDefinitionRepo{defs: []*types.SkillDefinition{baking}}

	records := newFakeStudentSkillRepo()
	// Simulate losing the insert race: the lookup misses but the
	// create comes back as a uniqueness conflict.
	records.createErr = apperr.ErrConflict

	credits := newFakeCreditTotalRepo()
	svc := NewMasteryService(log, skills, records, users, &fakeRequirementRepo{}, credits)

	results := svc.ProcessSkills(context.Background(), userID, []string{"Baking"}, "")
	if results[0].Status != SkillStatusDepthOfStudy {
		t.Fatalf("race loser should be Depth of Study, got %q", results[0].Status)
	}
	if len(credits.totals) != 0 {
		t.Fatalf("race loser must not earn credit")
	}
}

func TestProcessSkillsStoreFailureDegrades(t *testing.T) {
	log := testLogger(t)
	userID := uuid.New()
	users := newFakeUserRepo(&types.User{ID: userID, Email: "kid@example.com", Jurisdiction: "US-CA"})

	baking := &types.SkillDefinition{ID: uuid.New(), Name: "Baking", Category: "Mathematics", CreditValue: 0.25}
	skills := &fakeSkillDefinitionRepo{defs: []*types.SkillDefinition{baking}}

	records := newFakeStudentSkillRepo()
	records.createErr = errors.New("connection reset")

	svc := NewMasteryService(log, skills, records, users, &fakeRequirementRepo{}, newFakeCreditTotalRepo())

	results := svc.ProcessSkills(context.Background(), userID, []string{"Baking", "Baking Again"}, "")
	if len(results) != 2 {
		t.Fatalf("one failure must not abort the batch")
	}
	if results[0].Status != SkillStatusNewDiscovery {
		t.Fatalf("store failure should degrade to New Discovery, got %q", results[0].Status)
	}
}