package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type SuggestionCallLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.SuggestionCallLog) error
}

type suggestionCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSuggestionCallLogRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionCallLogRepo {
	repoLog := baseLog.With("repo", "SuggestionCallLogRepo")
	return &suggestionCallLogRepo{db: db, log: repoLog}
}

func (r *suggestionCallLogRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SuggestionCallLog) error {
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
