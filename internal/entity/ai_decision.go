package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AIDecision is an append-only log of every validated inference response.
type AIDecision struct {
	ID           int64          `json:"id"`
	Symbol       string         `json:"symbol"`
	Action       string         `json:"action"`
	Confidence   float64        `json:"confidence"`
	PositionSize float64        `json:"position_size"`
	RiskLevel    string         `json:"risk_level"`
	TimeHorizon  string         `json:"time_horizon"`
	StopLoss     float64        `json:"stop_loss"`
	TakeProfit   float64        `json:"take_profit"`
	CurrentPrice float64        `json:"current_price"`
	Reasoning    string         `json:"reasoning"`
	Data         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (AIDecision) TableName() string {
	return "ai_decisions"
}
