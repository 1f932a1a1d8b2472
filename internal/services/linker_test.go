package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/types"
)

func newLinkerFixture(t *testing.T, provider SuggestionProvider, catalog ...*types.Standard) (LinkerService, *fakeProgressRepo) {
	t.Helper()
	log := testLogger(t)
	standards := NewStandardsService(log, &fakeStandardRepo{standards: catalog}, &fakeComponentRepo{})
	progressRepo := newFakeProgressRepo()
	progress := NewProgressService(log, progressRepo)
	return NewLinkerService(log, provider, standards, progress), progressRepo
}

func TestSuggestStandardsResolvesCandidates(t *testing.T) {
	std := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics"}
	provider := &fakeSuggestionProvider{suggestions: []StandardSuggestion{
		{Code: "M.3.1", Subject: "Mathematics", Confidence: ConfidenceHigh},
		{Code: "M.9.9", Subject: "Mathematics", Confidence: ConfidenceHigh},
	}}
	svc, _ := newLinkerFixture(t, provider, std)

	got := svc.SuggestStandards(context.Background(), SuggestionRequest{Jurisdiction: "US-CA"})
	if len(got) != 2 {
		t.Fatalf("unresolved candidates must be kept, got %d", len(got))
	}
	if got[0].Standard == nil || got[0].Standard.ID != std.ID {
		t.Fatalf("known code should resolve")
	}
	if got[1].Standard != nil {
		t.Fatalf("unknown code must stay unmatched")
	}
}

func TestSuggestStandardsProviderOutage(t *testing.T) {
	provider := &fakeSuggestionProvider{err: fmt.Errorf("%w: timeout", apperr.ErrProviderUnavailable)}
	svc, _ := newLinkerFixture(t, provider)

	if got := svc.SuggestStandards(context.Background(), SuggestionRequest{Jurisdiction: "US-CA"}); len(got) != 0 {
		t.Fatalf("outage must degrade to no suggestions, got %d", len(got))
	}
}

func TestAutoLinkConfidenceGate(t *testing.T) {
	std := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics"}
	provider := &fakeSuggestionProvider{suggestions: []StandardSuggestion{
		{Code: "M.3.1", Confidence: ConfidenceLow},
	}}
	svc, progressRepo := newLinkerFixture(t, provider, std)

	userID := uuid.New()
	linked := svc.AutoLink(context.Background(), SuggestionRequest{UserID: userID, Jurisdiction: "US-CA"}, ConfidenceMedium)
	if len(linked) != 0 {
		t.Fatalf("low-confidence suggestion must not link at medium threshold")
	}
	if ids, _ := progressRepo.ListStandardIDsByUserID(context.Background(), nil, userID); len(ids) != 0 {
		t.Fatalf("no progress should be recorded below the threshold")
	}
}

func TestAutoLinkRecordsProgress(t *testing.T) {
	std := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics"}
	provider := &fakeSuggestionProvider{suggestions: []StandardSuggestion{
		{Code: "M.3.1", Confidence: ConfidenceHigh},
		{Code: "M.9.9", Confidence: ConfidenceHigh}, // unresolved, must be skipped
	}}
	svc, progressRepo := newLinkerFixture(t, provider, std)

	userID := uuid.New()
	activityID := uuid.New()
	linked := svc.AutoLink(context.Background(), SuggestionRequest{
		UserID:       userID,
		ActivityID:   &activityID,
		Jurisdiction: "US-CA",
	}, ConfidenceMedium)

	if len(linked) != 1 || linked[0].ID != std.ID {
		t.Fatalf("expected exactly the resolved high-confidence standard, got %d", len(linked))
	}
	rec, err := progressRepo.Get(context.Background(), nil, userID, std.ID)
	if err != nil {
		t.Fatalf("progress should be recorded: %v", err)
	}
	if rec.SourceType != types.ProgressSourceActivity || rec.SourceID == nil || *rec.SourceID != activityID {
		t.Fatalf("progress provenance should point at the activity, got %+v", rec)
	}
}
