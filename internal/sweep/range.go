package sweep

import (
	"fmt"
	"math"

	"consensus-market/internal/model"
)

// MaxOffers bounds the number of offers a single sweep may evaluate.
const MaxOffers = 100000

// Range describes offers start, start+step, ... up to and including stop.
type Range struct {
	Start float64 `json:"start" yaml:"start"`
	Stop  float64 `json:"stop" yaml:"stop"`
	Step  float64 `json:"step" yaml:"step"`
}

func (r Range) Validate() error {
	for _, v := range []float64{r.Start, r.Stop, r.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.ConfigErrorf("sweep", "start/stop/step must be finite")
		}
	}
	if r.Step <= 0 {
		return model.ConfigErrorf("sweep.step", "must be > 0, got %g", r.Step)
	}
	if r.Stop < r.Start {
		return model.ConfigErrorf("sweep.stop", "must be >= start (%g < %g)", r.Stop, r.Start)
	}
	// Checked as a float: the offer count may not fit in an int.
	if n := math.Floor((r.Stop-r.Start)/r.Step+1e-9) + 1; n > MaxOffers {
		return model.ConfigErrorf("sweep", "%g offers exceeds the limit of %d", n, MaxOffers)
	}
	return nil
}

// count is only meaningful for a validated range.
func (r Range) count() int {
	return int(math.Floor((r.Stop-r.Start)/r.Step+1e-9)) + 1
}

// Offers expands the range. Each offer is computed as start + i*step, so
// there is no accumulated drift, and stop is included when it lies on the
// grid to within 1e-9 steps.
func (r Range) Offers() ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	n := r.count()
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Start + float64(i)*r.Step
	}
	return out, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%g..%g step %g", r.Start, r.Stop, r.Step)
}
