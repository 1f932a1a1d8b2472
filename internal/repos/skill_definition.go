package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type SkillDefinitionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.SkillDefinition) error
	// GetByName matches case-insensitively on the exact name.
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SkillDefinition, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.SkillDefinition, error)
}

type skillDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) SkillDefinitionRepo {
	repoLog := baseLog.With("repo", "SkillDefinitionRepo")
	return &skillDefinitionRepo{db: db, log: repoLog}
}

func (r *skillDefinitionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SkillDefinition) error {
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

func (r *skillDefinitionRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.SkillDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.SkillDefinition
	if err := transaction.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *skillDefinitionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.SkillDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SkillDefinition
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
