package model

import (
	"fmt"
	"io"
	"strings"
)

// BuildingSpec is the structured record a Building is built from.
// Units:
// - BidP: $/MWh
// - BidQ: kW demanded at the matching price
// - ResponseQ: kW load
// - ResponseV: response attribute at that load (e.g. degF offset)
type BuildingSpec struct {
	Name string `json:"name" yaml:"name"`
	// N is the declared number of bid points; 0 means "use len(BidP)".
	N         int       `json:"n,omitempty" yaml:"n"`
	BidP      []float64 `json:"bid_p" yaml:"bid_p"`
	BidQ      []float64 `json:"bid_q" yaml:"bid_q"`
	ResponseQ []float64 `json:"response_q" yaml:"response_q"`
	ResponseV []float64 `json:"response_v" yaml:"response_v"`
}

// Building is a named participant with a demand curve (price -> quantity) and
// a response curve (quantity -> response attribute).
// The caller owns Buildings; a Market only ever reads them.
type Building struct {
	Name     string
	Demand   *BidCurve
	Response *BidCurve
}

func NewBuilding(spec BuildingSpec) (*Building, error) {
	return NewBuildingWithPolicy(spec, PolicyReject)
}

// NewBuildingWithPolicy validates spec and builds both curves. The demand
// curve must be monotonic (subject to policy); the response curve only needs
// strictly monotonic quantities.
func NewBuildingWithPolicy(spec BuildingSpec, policy MonotonicPolicy) (*Building, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	demand, err := NewMonotoneCurve(spec.BidP, spec.BidQ, policy)
	if err != nil {
		return nil, fmt.Errorf("building %q demand curve: %w", spec.Name, err)
	}
	response, err := NewBidCurve(spec.ResponseQ, spec.ResponseV)
	if err != nil {
		return nil, fmt.Errorf("building %q response curve: %w", spec.Name, err)
	}
	return &Building{Name: spec.Name, Demand: demand, Response: response}, nil
}

// Validate checks presence and lengths of the record's fields.
func (s BuildingSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ConfigErrorf("name", "is required")
	}
	if len(s.BidP) == 0 {
		return ConfigErrorf("bid_p", "building %q: is required", s.Name)
	}
	if len(s.BidQ) == 0 {
		return ConfigErrorf("bid_q", "building %q: is required", s.Name)
	}
	if len(s.BidP) != len(s.BidQ) {
		return ConfigErrorf("bid_q", "building %q: length %d does not match bid_p length %d", s.Name, len(s.BidQ), len(s.BidP))
	}
	if s.N != 0 && s.N != len(s.BidP) {
		return ConfigErrorf("n", "building %q: declared %d bid points, got %d", s.Name, s.N, len(s.BidP))
	}
	if len(s.ResponseQ) == 0 {
		return ConfigErrorf("response_q", "building %q: is required", s.Name)
	}
	if len(s.ResponseV) == 0 {
		return ConfigErrorf("response_v", "building %q: is required", s.Name)
	}
	if len(s.ResponseQ) != len(s.ResponseV) {
		return ConfigErrorf("response_v", "building %q: length %d does not match response_q length %d", s.Name, len(s.ResponseV), len(s.ResponseQ))
	}
	return nil
}

// LoadAtPrice returns the quantity demanded at price p.
func (b *Building) LoadAtPrice(p float64) float64 {
	return b.Demand.ValueAt(p)
}

// ResponseAtLoad returns the response attribute at load q.
func (b *Building) ResponseAtLoad(q float64) float64 {
	return b.Response.ValueAt(q)
}

// FlattenBid returns the demand curve as interleaved price/quantity values,
// the form a remote participant is submitted in.
func (b *Building) FlattenBid() []float64 {
	pts := b.Demand.Points()
	out := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		out = append(out, p.X, p.Y)
	}
	return out
}

// Display writes a human-readable summary of the building.
func (b *Building) Display(w io.Writer) {
	fmt.Fprintf(w, "Building %s: %d bid points, %d response points\n", b.Name, b.Demand.Len(), b.Response.Len())
	fmt.Fprintf(w, "  %12s %12s\n", "price", "quantity")
	for _, p := range b.Demand.Points() {
		fmt.Fprintf(w, "  %12.4f %12.4f\n", p.X, p.Y)
	}
	fmt.Fprintf(w, "  %12s %12s\n", "load", "response")
	for _, p := range b.Response.Points() {
		fmt.Fprintf(w, "  %12.4f %12.4f\n", p.X, p.Y)
	}
}
