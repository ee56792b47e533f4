package models

import (
	"consensus-market/internal/analysis"
	"consensus-market/internal/market"
	"consensus-market/internal/model"
	"consensus-market/internal/sweep"
)

// MarketResponse describes a market after it was created or changed.
type MarketResponse struct {
	ID           string               `json:"id"`
	State        market.State         `json:"state"`
	Policy       string               `json:"policy"`
	Participants []market.Participant `json:"participants"`
}

// MarketDetailResponse adds the aggregate curve and the display text.
type MarketDetailResponse struct {
	MarketResponse
	Aggregate []model.Point `json:"aggregate"`
	Display   string        `json:"display"`
}

// ClearResponse is the result of clearing one offer. Loads covers the
// buildings the market was created with; remote participants have no
// response curve.
type ClearResponse struct {
	Offer     float64      `json:"offer"`
	Price     float64      `json:"price"`
	Loads     []sweep.Load `json:"loads"`
	TotalLoad float64      `json:"total_load"`
}

// SweepResponse holds every sweep row plus summary statistics.
type SweepResponse struct {
	Range        sweep.Range            `json:"range"`
	Buildings    []string               `json:"buildings"`
	Rows         []sweep.Row            `json:"rows"`
	MaxTotalLoad float64                `json:"max_total_load"`
	Summary      analysis.Summary       `json:"summary"`
	Flexibility  []analysis.Flexibility `json:"flexibility"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
