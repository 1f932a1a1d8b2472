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

type GraduationRequirementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.GraduationRequirement) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GraduationRequirement, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, jurisdiction, category string) (*types.GraduationRequirement, error)
	ListByJurisdiction(ctx context.Context, tx *gorm.DB, jurisdiction string) ([]*types.GraduationRequirement, error)
}

type graduationRequirementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGraduationRequirementRepo(db *gorm.DB, baseLog *logger.Logger) GraduationRequirementRepo {
	repoLog := baseLog.With("repo", "GraduationRequirementRepo")
	return &graduationRequirementRepo{db: db, log: repoLog}
}

func (r *graduationRequirementRepo) Create(ctx context.Context, tx *gorm.DB, row *types.GraduationRequirement) error {
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

func (r *graduationRequirementRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GraduationRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.GraduationRequirement
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

func (r *graduationRequirementRepo) GetByCategory(ctx context.Context, tx *gorm.DB, jurisdiction, category string) (*types.GraduationRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.GraduationRequirement
	if err := transaction.WithContext(ctx).
		Where("jurisdiction = ? AND category = ?", jurisdiction, category).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *graduationRequirementRepo) ListByJurisdiction(ctx context.Context, tx *gorm.DB, jurisdiction string) ([]*types.GraduationRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GraduationRequirement
	if err := transaction.WithContext(ctx).
		Where("jurisdiction = ?", jurisdiction).
		Order("category ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
