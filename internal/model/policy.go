package model

import (
	"fmt"
	"sort"
	"strings"
)

// MonotonicPolicy decides what happens to demand curves that are not monotonic.
type MonotonicPolicy string

const (
	// PolicyReject fails construction of a non-monotonic curve.
	PolicyReject MonotonicPolicy = "reject"
	// PolicyCanonicalize sorts and repairs the curve instead (see Canonicalize).
	PolicyCanonicalize MonotonicPolicy = "canonicalize"
)

// ParseMonotonicPolicy accepts "reject", "canonicalize", or "" (reject).
func ParseMonotonicPolicy(s string) (MonotonicPolicy, error) {
	switch MonotonicPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyReject:
		return PolicyReject, nil
	case PolicyCanonicalize:
		return PolicyCanonicalize, nil
	default:
		return "", fmt.Errorf("unknown monotonic policy %q (want %q or %q)", s, PolicyReject, PolicyCanonicalize)
	}
}

// Canonicalize returns a repaired copy of a demand curve's breakpoints:
//   - points are sorted by x descending (stable);
//   - for repeated x the first occurrence in the input wins;
//   - y is forced monotonic along the sorted order by a running clamp. The
//     direction is that of the net change y[last]-y[first]; a flat net change
//     is treated as non-decreasing.
//
// The inputs are not modified.
func Canonicalize(xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, ConfigErrorf("curve", "x/y length mismatch (%d != %d)", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, nil, ConfigErrorf("curve", "at least one breakpoint is required")
	}
	pts := make([]Point, len(xs))
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			return nil, nil, ConfigErrorf("curve", "breakpoint %d is not finite (%v, %v)", i, xs[i], ys[i])
		}
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X > pts[j].X })

	outX := make([]float64, 0, len(pts))
	outY := make([]float64, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p.X == pts[i-1].X {
			continue
		}
		outX = append(outX, p.X)
		outY = append(outY, p.Y)
	}

	decreasing := outY[len(outY)-1] < outY[0]
	for i := 1; i < len(outY); i++ {
		if decreasing && outY[i] > outY[i-1] {
			outY[i] = outY[i-1]
		}
		if !decreasing && outY[i] < outY[i-1] {
			outY[i] = outY[i-1]
		}
	}
	return outX, outY, nil
}
