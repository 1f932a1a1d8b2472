package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type CreditTotalRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID) (*types.CreditTotal, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CreditTotal, error)
	// AddCredit upserts the (user, requirement) row and increments it by
	// delta atomically.
	AddCredit(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID, delta float64) error
	// SetCredits overwrites the stored total; used by recomputation from
	// the skill ledger.
	SetCredits(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID, credits float64) error
}

type creditTotalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCreditTotalRepo(db *gorm.DB, baseLog *logger.Logger) CreditTotalRepo {
	repoLog := baseLog.With("repo", "CreditTotalRepo")
	return &creditTotalRepo{db: db, log: repoLog}
}

func (r *creditTotalRepo) Get(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID) (*types.CreditTotal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.CreditTotal
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND requirement_id = ?", userID, requirementID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *creditTotalRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CreditTotal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CreditTotal
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Requirement").
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *creditTotalRepo) AddCredit(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID, delta float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := types.CreditTotal{
		ID:            uuid.New(),
		UserID:        userID,
		RequirementID: requirementID,
		EarnedCredits: delta,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "requirement_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"earned_credits": gorm.Expr("earned_credits + ?", delta),
				"updated_at":     time.Now().UTC(),
			}),
		}).
		Create(&row).Error; err != nil {
		return err
	}
	return nil
}

func (r *creditTotalRepo) SetCredits(ctx context.Context, tx *gorm.DB, userID, requirementID uuid.UUID, credits float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := types.CreditTotal{
		ID:            uuid.New(),
		UserID:        userID,
		RequirementID: requirementID,
		EarnedCredits: credits,
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "requirement_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"earned_credits": credits,
				"updated_at":     time.Now().UTC(),
			}),
		}).
		Create(&row).Error; err != nil {
		return err
	}
	return nil
}
