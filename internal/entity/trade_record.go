package entity

import "time"

// TradeRecord is an append-only row for every order the bot submits.
type TradeRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
	Symbol       string    `gorm:"not null" json:"symbol"`
	Action       string    `gorm:"not null" json:"action"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	Price        float64   `gorm:"not null" json:"price"`
	Total        float64   `gorm:"not null" json:"total"`
	TradeType    string    `gorm:"not null" json:"trade_type"`
	OrderID      string    `json:"order_id"`
	OrderStatus  string    `json:"order_status"`
	AIConfidence float64   `json:"ai_confidence"`
	Reasoning    string    `json:"reasoning"`
	Sector       string    `json:"sector,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TradeRecord) TableName() string {
	return "trade_records"
}
