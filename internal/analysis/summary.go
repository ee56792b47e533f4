package analysis

import (
	"math"
	"sort"

	"consensus-market/internal/sweep"
)

// Summary describes the clearing prices of a sweep. It is what the CLI logs
// after a run and what the API returns alongside sweep rows.
type Summary struct {
	Count int `json:"count"`

	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MeanPrice float64 `json:"mean_price"`
	P05Price  float64 `json:"p05_price"`
	P95Price  float64 `json:"p95_price"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`

	// MaxTrackingError is the largest |TotalLoad - Offer| over the sweep.
	// It is non-zero where an offer falls outside what the buildings can
	// absorb.
	MaxTrackingError float64 `json:"max_tracking_error"`
}

func Summarize(res *sweep.Result) Summary {
	s := Summary{}
	if res == nil || len(res.Rows) == 0 {
		return s
	}
	s.Count = len(res.Rows)

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(res.Rows))
	for _, r := range res.Rows {
		v := r.Price
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		s.MaxTrackingError = math.Max(s.MaxTrackingError, math.Abs(r.TotalLoad-r.Offer))
	}
	sort.Float64s(vals)
	s.MinPrice = minv
	s.MaxPrice = maxv
	s.MeanPrice = sum / float64(len(vals))
	s.P05Price = percentileSorted(vals, 0.05)
	s.P95Price = percentileSorted(vals, 0.95)
	s.SpreadP95P05 = s.P95Price - s.P05Price
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
