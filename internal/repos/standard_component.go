package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type StandardComponentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.StandardComponent) error
	ListByStandardID(ctx context.Context, tx *gorm.DB, standardID uuid.UUID) ([]*types.StandardComponent, error)
}

type standardComponentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStandardComponentRepo(db *gorm.DB, baseLog *logger.Logger) StandardComponentRepo {
	repoLog := baseLog.With("repo", "StandardComponentRepo")
	return &standardComponentRepo{db: db, log: repoLog}
}

func (r *standardComponentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StandardComponent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *standardComponentRepo) ListByStandardID(ctx context.Context, tx *gorm.DB, standardID uuid.UUID) ([]*types.StandardComponent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StandardComponent
	if err := transaction.WithContext(ctx).
		Where("standard_id = ?", standardID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
