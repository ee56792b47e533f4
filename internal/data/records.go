package data

import (
	"fmt"

	"consensus-market/internal/bidding"
	"consensus-market/internal/model"
)

// BuildingRecord is one building entry of a buildings document. The demand
// curve is given either as bid_p/bid_q arrays or as a four_point bid.
type BuildingRecord struct {
	model.BuildingSpec `yaml:",inline"`
	FourPoint *bidding.FourPointSpec `json:"four_point,omitempty" yaml:"four_point"`
}

// Spec resolves the record into a plain BuildingSpec.
func (r BuildingRecord) Spec() (model.BuildingSpec, error) {
	spec := r.BuildingSpec
	if r.FourPoint == nil {
		return spec, nil
	}
	if len(spec.BidP) > 0 || len(spec.BidQ) > 0 {
		return model.BuildingSpec{}, model.ConfigErrorf("four_point", "building %q: give either bid_p/bid_q or four_point, not both", spec.Name)
	}
	bid, err := bidding.NewFourPointBid(*r.FourPoint)
	if err != nil {
		return model.BuildingSpec{}, fmt.Errorf("building %q: %w", spec.Name, err)
	}
	spec.BidP, spec.BidQ = bid.DemandArrays()
	spec.N = len(spec.BidP)
	return spec, nil
}

// BuildBuildings constructs Buildings from records, rejecting repeated names.
// The returned buildings are owned by the caller.
func BuildBuildings(records []BuildingRecord, policy model.MonotonicPolicy) ([]*model.Building, error) {
	out := make([]*model.Building, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		spec, err := r.Spec()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if seen[spec.Name] {
			return nil, model.ConfigErrorf("name", "building %q appears more than once", spec.Name)
		}
		seen[spec.Name] = true

		b, err := model.NewBuildingWithPolicy(spec, policy)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// RecordFromBuilding renders a constructed building back into record form,
// with its demand curve as plain bid arrays in breakpoint order.
func RecordFromBuilding(b *model.Building) BuildingRecord {
	spec := model.BuildingSpec{Name: b.Name}
	for _, p := range b.Demand.Points() {
		spec.BidP = append(spec.BidP, p.X)
		spec.BidQ = append(spec.BidQ, p.Y)
	}
	for _, p := range b.Response.Points() {
		spec.ResponseQ = append(spec.ResponseQ, p.X)
		spec.ResponseV = append(spec.ResponseV, p.Y)
	}
	spec.N = len(spec.BidP)
	return BuildingRecord{BuildingSpec: spec}
}
