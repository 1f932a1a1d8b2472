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

type StandardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Standard) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Standard, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code, jurisdiction string) (*types.Standard, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Standard, error)
	ListCatalog(ctx context.Context, tx *gorm.DB, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error)
}

type standardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStandardRepo(db *gorm.DB, baseLog *logger.Logger) StandardRepo {
	repoLog := baseLog.With("repo", "StandardRepo")
	return &standardRepo{db: db, log: repoLog}
}

func (r *standardRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Standard) error {
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

func (r *standardRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Standard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Standard
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *standardRepo) GetByCode(ctx context.Context, tx *gorm.DB, code, jurisdiction string) (*types.Standard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Standard
	if err := transaction.WithContext(ctx).
		Where("code = ? AND jurisdiction = ?", code, jurisdiction).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *standardRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Standard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Standard
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *standardRepo) ListCatalog(ctx context.Context, tx *gorm.DB, jurisdiction, gradeLevel string, subject *string) ([]*types.Standard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("jurisdiction = ? AND grade_level = ?", jurisdiction, gradeLevel)
	if subject != nil && *subject != "" {
		query = query.Where("subject = ?", *subject)
	}

	var results []*types.Standard
	if err := query.Order("code ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
