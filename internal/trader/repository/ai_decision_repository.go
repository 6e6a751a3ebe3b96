package repository

import (
	"context"

	"golang-ai-trader/internal/entity"

	"gorm.io/gorm"
)

// AIDecisionRepository appends validated inference decisions to the decision
// log. The pipeline only writes here; nothing reads it back for decisions.
type AIDecisionRepository interface {
	Create(ctx context.Context, decision *entity.AIDecision) error
}

type aiDecisionRepository struct {
	db *gorm.DB
}

// NewAIDecisionRepository creates a new AI decision repository.
func NewAIDecisionRepository(db *gorm.DB) AIDecisionRepository {
	return &aiDecisionRepository{db: db}
}

func (r *aiDecisionRepository) Create(ctx context.Context, decision *entity.AIDecision) error {
	return r.db.WithContext(ctx).Create(decision).Error
}
