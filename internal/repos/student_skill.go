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

type StudentSkillRepo interface {
	// Create returns apperr.ErrConflict when the (user, skill) row already
	// exists; that race is an expected outcome, not a failure.
	Create(ctx context.Context, tx *gorm.DB, row *types.StudentSkillRecord) error
	Get(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID) (*types.StudentSkillRecord, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudentSkillRecord, error)
}

type studentSkillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentSkillRepo(db *gorm.DB, baseLog *logger.Logger) StudentSkillRepo {
	repoLog := baseLog.With("repo", "StudentSkillRepo")
	return &studentSkillRepo{db: db, log: repoLog}
}

func (r *studentSkillRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StudentSkillRecord) error {
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

func (r *studentSkillRepo) Get(ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID) (*types.StudentSkillRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.StudentSkillRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *studentSkillRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudentSkillRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudentSkillRecord
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Skill").
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
