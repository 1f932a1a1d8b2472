package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type DailyPlanRepo interface {
	// Create returns apperr.ErrConflict when a plan already exists for the
	// (user, date) key; callers re-read and return the winner.
	Create(ctx context.Context, tx *gorm.DB, row *types.DailyPlan) error
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DailyPlan, error)
}

type dailyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyPlanRepo(db *gorm.DB, baseLog *logger.Logger) DailyPlanRepo {
	repoLog := baseLog.With("repo", "DailyPlanRepo")
	return &dailyPlanRepo{db: db, log: repoLog}
}

func (r *dailyPlanRepo) Create(ctx context.Context, tx *gorm.DB, row *types.DailyPlan) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *dailyPlanRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, planDate time.Time) (*types.DailyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.DailyPlan
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND plan_date = ?", userID, planDate).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *dailyPlanRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.DailyPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyPlan
	if userID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 {
		limit = 30
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("plan_date DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
