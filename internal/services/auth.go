package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/types"
	"github.com/brightloop/brightloop-backend/internal/utils"
)

// RegisterInput is a new account request.
type RegisterInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction"`
	GradeLevel   string `json:"grade_level"`
}

// TokenPair is what login/refresh hand back: a short-lived JWT access
// token and an opaque refresh token stored hashed server-side.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// SetContextFromToken validates the access token and returns a ctx
	// carrying the authenticated user id for downstream handlers.
	SetContextFromToken(ctx context.Context, accessToken string) (context.Context, error)
}

type authService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	tokenRepo  repos.UserTokenRepo
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo) AuthService {
	serviceLog := log.With("service", "AuthService")
	secret := utils.GetEnv("JWT_SECRET", "", serviceLog)
	if secret == "" {
		serviceLog.Fatal("JWT_SECRET must be set")
	}
	accessMinutes := utils.GetEnvAsInt("JWT_ACCESS_TTL_MINUTES", 15, serviceLog)
	refreshDays := utils.GetEnvAsInt("JWT_REFRESH_TTL_DAYS", 30, serviceLog)
	return &authService{
		log:        serviceLog,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtSecret:  []byte(secret),
		accessTTL:  time.Duration(accessMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshDays) * 24 * time.Hour,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*types.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || len(input.Password) < 8 {
		return nil, nil, apperr.ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		Jurisdiction: input.Jurisdiction,
		GradeLevel:   input.GradeLevel,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, nil, apperr.ErrConflict
		}
		return nil, nil, apperr.Store("user.create", err)
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, nil, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, apperr.ErrUnauthorized
		}
		return nil, nil, apperr.Store("user.get_by_email", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, apperr.ErrUnauthorized
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	row, err := s.tokenRepo.GetByHash(ctx, nil, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, apperr.Store("user_token.get", err)
	}
	if row.RevokedAt != nil || time.Now().After(row.ExpiresAt) {
		return nil, apperr.ErrUnauthorized
	}

	// Rotate: the old refresh token dies with the exchange.
	if err := s.tokenRepo.Revoke(ctx, nil, row.TokenHash); err != nil {
		return nil, apperr.Store("user_token.revoke", err)
	}
	return s.issueTokens(ctx, row.UserID)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenRepo.Revoke(ctx, nil, hashToken(refreshToken)); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return apperr.Store("user_token.revoke", err)
	}
	return nil
}

func (s *authService) SetContextFromToken(ctx context.Context, accessToken string) (context.Context, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(accessToken, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ctx, apperr.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apperr.ErrUnauthorized
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		rd = &requestdata.RequestData{}
	}
	rd.TokenString = accessToken
	rd.UserID = userID
	return requestdata.WithRequestData(ctx, rd), nil
}

func (s *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		Issuer:    "brightloop-backend",
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	row := &types.UserToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken(refresh),
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.tokenRepo.Create(ctx, nil, row); err != nil {
		return nil, apperr.Store("user_token.create", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
