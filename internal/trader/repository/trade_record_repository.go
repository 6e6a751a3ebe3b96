package repository

import (
	"context"
	"time"

	"golang-ai-trader/internal/entity"

	"gorm.io/gorm"
)

// TradeRecordRepository appends to and reads from the trade log. The log is
// append-only; nothing updates or deletes rows.
type TradeRecordRepository interface {
	Create(ctx context.Context, record *entity.TradeRecord) error
	FindSince(ctx context.Context, since time.Time) ([]entity.TradeRecord, error)
}

type tradeRecordRepository struct {
	db *gorm.DB
}

// NewTradeRecordRepository creates a new trade record repository.
func NewTradeRecordRepository(db *gorm.DB) TradeRecordRepository {
	return &tradeRecordRepository{db: db}
}

func (r *tradeRecordRepository) Create(ctx context.Context, record *entity.TradeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *tradeRecordRepository) FindSince(ctx context.Context, since time.Time) ([]entity.TradeRecord, error) {
	var records []entity.TradeRecord
	err := r.db.WithContext(ctx).
		Where("timestamp >= ?", since).
		Order("timestamp asc").
		Find(&records).Error
	return records, err
}
