package analysis

import (
	"math"
	"sort"

	"consensus-market/internal/sweep"
)

// Flexibility is how far one building's load moved across a sweep.
type Flexibility struct {
	Name        string  `json:"name"`
	MinQuantity float64 `json:"min_quantity"`
	MaxQuantity float64 `json:"max_quantity"`
	Swing       float64 `json:"swing"`
	// ResponseAtMax is the response attribute at MaxQuantity.
	ResponseAtMax float64 `json:"response_at_max"`
}

// RankByFlexibility sorts buildings by load swing, largest first. Equal
// swings are ordered by name.
func RankByFlexibility(res *sweep.Result) []Flexibility {
	if res == nil || len(res.Rows) == 0 {
		return nil
	}
	out := make([]Flexibility, len(res.Buildings))
	for i, name := range res.Buildings {
		out[i] = Flexibility{Name: name, MinQuantity: math.Inf(1), MaxQuantity: math.Inf(-1)}
	}
	for _, r := range res.Rows {
		for i, l := range r.Loads {
			f := &out[i]
			f.MinQuantity = math.Min(f.MinQuantity, l.Quantity)
			if l.Quantity > f.MaxQuantity {
				f.MaxQuantity = l.Quantity
				f.ResponseAtMax = l.Response
			}
		}
	}
	for i := range out {
		out[i].Swing = out[i].MaxQuantity - out[i].MinQuantity
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Swing != out[j].Swing {
			return out[i].Swing > out[j].Swing
		}
		return out[i].Name < out[j].Name
	})
	return out
}
