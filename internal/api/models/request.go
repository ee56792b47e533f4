package models

import "consensus-market/internal/data"

// CreateMarketRequest represents the request body for creating a market.
// Buildings may be empty; participants can join later.
type CreateMarketRequest struct {
	Buildings       []data.BuildingRecord `json:"buildings"`
	MonotonicPolicy string                `json:"monotonic_policy,omitempty"` // "reject" (default) or "canonicalize"
}

// ParticipantRequest adds a remote participant from interleaved price/quantity values.
type ParticipantRequest struct {
	Name   string    `json:"name" binding:"required"`
	Points []float64 `json:"points"`
}

// ClearRequest holds the query parameters of a clearing request.
type ClearRequest struct {
	Offer *float64 `form:"offer" binding:"required"`
}

// SweepRequest selects the offers to sweep. Omitted fields use the defaults
// (0 to 1900 step 100).
type SweepRequest struct {
	Start float64 `json:"start"`
	Stop  float64 `json:"stop"`
	Step  float64 `json:"step"`
}
