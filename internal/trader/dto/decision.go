package dto

import (
	"fmt"
	"time"

	"golang-ai-trader/pkg/common"
)

// Decision is a validated trading recommendation from the inference service.
// Symbol, CurrentPrice and Timestamp are stamped by the decision engine after
// validation; the remaining fields come from the model's JSON response.
type Decision struct {
	Symbol       string    `json:"symbol"`
	Action       string    `json:"action"`
	Confidence   float64   `json:"confidence"`
	Reasoning    string    `json:"reasoning"`
	PositionSize float64   `json:"position_size"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`
	RiskLevel    string    `json:"risk_level"`
	TimeHorizon  string    `json:"time_horizon"`
	CurrentPrice float64   `json:"current_price"`
	Timestamp    time.Time `json:"timestamp"`
}

// Validate checks every enum field against its closed set and every numeric
// field against its domain. A decision that fails validation yields no trade
// for the symbol; it is never partially accepted.
func (d *Decision) Validate() error {
	switch d.Action {
	case common.ActionBuy, common.ActionSell, common.ActionHold:
	default:
		return fmt.Errorf("invalid action %q", d.Action)
	}

	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %.4f out of range [0,1]", d.Confidence)
	}

	if d.PositionSize < 0 || d.PositionSize > 1 {
		return fmt.Errorf("position_size %.4f out of range [0,1]", d.PositionSize)
	}

	switch d.RiskLevel {
	case common.RiskLow, common.RiskMedium, common.RiskHigh:
	default:
		return fmt.Errorf("invalid risk_level %q", d.RiskLevel)
	}

	switch d.TimeHorizon {
	case common.HorizonShort, common.HorizonMedium, common.HorizonLong:
	default:
		return fmt.Errorf("invalid time_horizon %q", d.TimeHorizon)
	}

	return nil
}
