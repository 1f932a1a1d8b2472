package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type StandardProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.StandardProgress) error
	Save(ctx context.Context, tx *gorm.DB, row *types.StandardProgress) error
	Get(ctx context.Context, tx *gorm.DB, userID, standardID uuid.UUID) (*types.StandardProgress, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StandardProgress, error)
	ListStandardIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
}

type standardProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStandardProgressRepo(db *gorm.DB, baseLog *logger.Logger) StandardProgressRepo {
	repoLog := baseLog.With("repo", "StandardProgressRepo")
	return &standardProgressRepo{db: db, log: repoLog}
}

func (r *standardProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StandardProgress) error {
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

func (r *standardProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.StandardProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *standardProgressRepo) Get(ctx context.Context, tx *gorm.DB, userID, standardID uuid.UUID) (*types.StandardProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.StandardProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND standard_id = ?", userID, standardID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *standardProgressRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StandardProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StandardProgress
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Standard").
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *standardProgressRepo) ListStandardIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.StandardProgress{}).
		Where("user_id = ?", userID).
		Pluck("standard_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
