package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/types"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type fakeUserTokenRepo struct {
	tokens map[string]*types.UserToken
}

func newFakeUserTokenRepo() *fakeUserTokenRepo {
	return &fakeUserTokenRepo{tokens: map[string]*types.UserToken{}}
}

func (r *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserToken) error {
	r.tokens[row.TokenHash] = row
	return nil
}

func (r *fakeUserTokenRepo) GetByHash(ctx context.Context, tx *gorm.DB, tokenHash string) (*types.UserToken, error) {
	if row, ok := r.tokens[tokenHash]; ok {
		return row, nil
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserTokenRepo) Revoke(ctx context.Context, tx *gorm.DB, tokenHash string) error {
	row, ok := r.tokens[tokenHash]
	if !ok {
		return apperr.ErrNotFound
	}
	now := time.Now()
	row.RevokedAt = &now
	return nil
}

var _ repos.UserTokenRepo = (*fakeUserTokenRepo)(nil)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeUserTokenRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	log := testLogger(t)
	users := newFakeUserRepo()
	tokens := newFakeUserTokenRepo()
	return NewAuthService(log, users, tokens), users, tokens
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{
		Email:        "Parent@Example.com",
		Password:     "hunter2hunter2",
		Name:         "Jordan",
		Jurisdiction: "US-CA",
		GradeLevel:   "3",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "parent@example.com" {
		t.Fatalf("email should normalize, got %q", user.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("register should issue tokens")
	}

	loggedIn, _, err := svc.Login(ctx, "parent@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned a different user")
	}

	if _, _, err := svc.Login(ctx, "parent@example.com", "wrong"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("bad password should be unauthorized, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	input := RegisterInput{Email: "parent@example.com", Password: "hunter2hunter2", Name: "Jordan"}
	if _, _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, input); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterInput{Email: "parent@example.com", Password: "hunter2hunter2", Name: "Jordan"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("refresh must rotate the token")
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("spent refresh token must be rejected, got %v", err)
	}
}

func TestSetContextFromToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{Email: "parent@example.com", Password: "hunter2hunter2", Name: "Jordan"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	if got := requestdata.UserID(authed); got != user.ID {
		t.Fatalf("context should carry the user id, got %s", got)
	}

	if _, err := svc.SetContextFromToken(ctx, "not-a-jwt"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("garbage token should be unauthorized, got %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, uuid.NewString()); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("non-jwt token should be unauthorized, got %v", err)
	}
}
