// Package bidding turns compact bid formats into demand-curve breakpoints.
package bidding

import (
	"math"
	"sort"

	"consensus-market/internal/model"
)

// Point is one (quantity, price) knot of a four-point bid.
type Point struct {
	Quantity float64 `json:"q"`
	Price    float64 `json:"p"`
}

// FourPointSpec is the record form of a four-point bid.
// Points are [quantity, price] pairs. MaxQuantity and PriceCap, when > 0,
// bound the points from above; both axes are always bounded below by 0.
type FourPointSpec struct {
	Points      [][2]float64 `json:"points" yaml:"points"`
	MaxQuantity float64      `json:"max_quantity,omitempty" yaml:"max_quantity"`
	PriceCap    float64      `json:"price_cap,omitempty" yaml:"price_cap"`
}

// FourPointBid is the four-knot bid an HVAC agent submits to the real-time
// market: the first two knots bracket the optimal quantity at the high-price
// end and the last two at the low-price end.
type FourPointBid struct {
	Points [4]Point
}

func NewFourPointBid(spec FourPointSpec) (*FourPointBid, error) {
	if len(spec.Points) != 4 {
		return nil, model.ConfigErrorf("four_point", "need exactly 4 points, got %d", len(spec.Points))
	}
	b := &FourPointBid{}
	for i, qp := range spec.Points {
		if math.IsNaN(qp[0]) || math.IsNaN(qp[1]) || math.IsInf(qp[0], 0) || math.IsInf(qp[1], 0) {
			return nil, model.ConfigErrorf("four_point", "point %d is not finite", i)
		}
		b.Points[i] = Point{Quantity: qp[0], Price: qp[1]}
	}
	b.Clamp(spec.MaxQuantity, spec.PriceCap)
	return b, nil
}

// Clamp bounds quantities to [0, maxQuantity] and prices to [0, priceCap].
// A non-positive bound leaves that side open.
func (b *FourPointBid) Clamp(maxQuantity, priceCap float64) {
	for i := range b.Points {
		p := &b.Points[i]
		if maxQuantity > 0 && p.Quantity > maxQuantity {
			p.Quantity = maxQuantity
		}
		if p.Quantity < 0 {
			p.Quantity = 0
		}
		if priceCap > 0 && p.Price > priceCap {
			p.Price = priceCap
		}
		if p.Price < 0 {
			p.Price = 0
		}
	}
}

// MarginalPriceCurve orders the knots by price and accumulates their
// quantities. Each output point carries the cumulative quantity and the
// price of the knot that was added.
func (b FourPointBid) MarginalPriceCurve(dir model.Direction) []Point {
	sorted := b.Points
	sort.SliceStable(sorted[:], func(i, j int) bool {
		if dir == model.DirectionDescending {
			return sorted[i].Price > sorted[j].Price
		}
		return sorted[i].Price < sorted[j].Price
	})
	out := make([]Point, 0, len(sorted))
	cumulative := 0.0
	for _, p := range sorted {
		cumulative += p.Quantity
		out = append(out, Point{Quantity: cumulative, Price: p.Price})
	}
	return out
}

// DemandArrays converts the bid into price/quantity arrays usable as a demand
// curve: prices strictly descending, quantities non-decreasing. Knots sharing
// a price collapse to the largest quantity.
func (b FourPointBid) DemandArrays() (prices, quantities []float64) {
	sorted := b.Points
	sort.SliceStable(sorted[:], func(i, j int) bool { return sorted[i].Price > sorted[j].Price })

	for _, p := range sorted {
		n := len(prices)
		if n > 0 && prices[n-1] == p.Price {
			quantities[n-1] = math.Max(quantities[n-1], p.Quantity)
			continue
		}
		prices = append(prices, p.Price)
		quantities = append(quantities, p.Quantity)
	}
	for i := 1; i < len(quantities); i++ {
		if quantities[i] < quantities[i-1] {
			quantities[i] = quantities[i-1]
		}
	}
	return prices, quantities
}
