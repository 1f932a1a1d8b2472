package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/types"
)

func TestStudentSkillCreateConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewStudentSkillRepo(db, repoTestLogger(t))
	ctx := context.Background()

	userID, skillID := uuid.New(), uuid.New()
	first := &types.StudentSkillRecord{ID: uuid.New(), UserID: userID, SkillID: skillID}
	if err := repo.Create(ctx, nil, first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	dup := &types.StudentSkillRecord{ID: uuid.New(), UserID: userID, SkillID: skillID}
	if err := repo.Create(ctx, nil, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := repo.Get(ctx, nil, userID, skillID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("the first writer's row must survive")
	}
}

func TestStudentSkillGetMiss(t *testing.T) {
	db := openTestDB(t)
	repo := NewStudentSkillRepo(db, repoTestLogger(t))

	if _, err := repo.Get(context.Background(), nil, uuid.New(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
