package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/types"
)

func TestStandardCodeJurisdictionUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewStandardRepo(db, repoTestLogger(t))
	ctx := context.Background()

	first := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics", GradeLevel: "3", Statement: "x"}
	if err := repo.Create(ctx, nil, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics", GradeLevel: "3", Statement: "y"}
	if err := repo.Create(ctx, nil, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Same code under another jurisdiction is a distinct standard.
	other := &types.Standard{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-TX", Subject: "Mathematics", GradeLevel: "3", Statement: "z"}
	if err := repo.Create(ctx, nil, other); err != nil {
		t.Fatalf("other jurisdiction: %v", err)
	}
}

func TestStandardListCatalogFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewStandardRepo(db, repoTestLogger(t))
	ctx := context.Background()

	rows := []*types.Standard{
		{ID: uuid.New(), Code: "M.3.1", Jurisdiction: "US-CA", Subject: "Mathematics", GradeLevel: "3", Statement: "a"},
		{ID: uuid.New(), Code: "S.3.1", Jurisdiction: "US-CA", Subject: "Science", GradeLevel: "3", Statement: "b"},
		{ID: uuid.New(), Code: "M.4.1", Jurisdiction: "US-CA", Subject: "Mathematics", GradeLevel: "4", Statement: "c"},
	}
	for _, row := range rows {
		if err := repo.Create(ctx, nil, row); err != nil {
			t.Fatalf("seed %s: %v", row.Code, err)
		}
	}

	all, err := repo.ListCatalog(ctx, nil, "US-CA", "3", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 grade-3 standards, got %d", len(all))
	}

	subject := "Mathematics"
	math, err := repo.ListCatalog(ctx, nil, "US-CA", "3", &subject)
	if err != nil {
		t.Fatalf("list with subject: %v", err)
	}
	if len(math) != 1 || math[0].Code != "M.3.1" {
		t.Fatalf("subject filter wrong: %d rows", len(math))
	}
}
