package market

import (
	"sort"

	"consensus-market/internal/model"
)

// buildAggregate merges the participants' demand curves into one curve of
// price -> summed quantity.
//
// The merged prices are the union of every breakpoint price, sorted
// descending with exact duplicates collapsed. Quantities are summed in
// participant order so the result is reproducible bit for bit.
func buildAggregate(curves []*model.BidCurve) (*model.BidCurve, error) {
	if len(curves) == 0 {
		return nil, nil
	}

	total := 0
	for _, c := range curves {
		total += c.Len()
	}
	prices := make([]float64, 0, total)
	for _, c := range curves {
		prices = append(prices, c.Xs()...)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(prices)))

	merged := make([]float64, 0, len(prices))
	for _, p := range prices {
		if n := len(merged); n > 0 && merged[n-1] == p {
			continue
		}
		merged = append(merged, p)
	}

	quantities := make([]float64, len(merged))
	for i, p := range merged {
		sum := 0.0
		for _, c := range curves {
			sum += c.ValueAt(p)
		}
		quantities[i] = sum
	}
	return model.NewBidCurve(merged, quantities)
}
