package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Point is one breakpoint of a BidCurve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BidCurve is an immutable piecewise-linear function over breakpoints whose
// x values are strictly monotonic.
//
// Evaluation outside [min x, max x] clamps to the nearest endpoint value; it
// never extrapolates. Accessors return copies, so a *BidCurve can be shared
// freely once constructed.
type BidCurve struct {
	// points in the order they were supplied.
	points []Point

	// xs/ys sorted by ascending x, used for searching.
	xs []float64
	ys []float64

	xDir Direction
	yDir Direction
}

// NewBidCurve validates paired x/y slices and builds a curve.
// It requires n >= 1, equal lengths, finite values, and strictly monotonic x.
// y may move in any direction; see NewMonotoneCurve for demand curves.
func NewBidCurve(xs, ys []float64) (*BidCurve, error) {
	if len(xs) != len(ys) {
		return nil, ConfigErrorf("curve", "x/y length mismatch (%d != %d)", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, ConfigErrorf("curve", "at least one breakpoint is required")
	}
	for i := range xs {
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			return nil, ConfigErrorf("curve", "breakpoint %d is not finite (%v, %v)", i, xs[i], ys[i])
		}
	}

	xDir := DirectionFlat
	if len(xs) > 1 {
		xDir = DirectionFromDelta(xs[1] - xs[0])
		for i := 1; i < len(xs); i++ {
			if DirectionFromDelta(xs[i]-xs[i-1]) != xDir || xDir == DirectionFlat {
				return nil, ConfigErrorf("curve", "x values must be strictly monotonic (breakpoint %d: %v after %v)", i, xs[i], xs[i-1])
			}
		}
	}

	c := &BidCurve{
		points: make([]Point, len(xs)),
		xs:     make([]float64, len(xs)),
		ys:     make([]float64, len(xs)),
		xDir:   xDir,
	}
	for i := range xs {
		c.points[i] = Point{X: xs[i], Y: ys[i]}
		j := i
		if xDir == DirectionDescending {
			j = len(xs) - 1 - i
		}
		c.xs[j] = xs[i]
		c.ys[j] = ys[i]
	}
	c.yDir = directionOf(c.ys)
	return c, nil
}

// NewMonotoneCurve builds a curve whose y values must also be monotonic, which
// InverseAt relies on. Under PolicyCanonicalize the input is repaired first.
func NewMonotoneCurve(xs, ys []float64, policy MonotonicPolicy) (*BidCurve, error) {
	if policy == PolicyCanonicalize {
		var err error
		xs, ys, err = Canonicalize(xs, ys)
		if err != nil {
			return nil, err
		}
	}
	c, err := NewBidCurve(xs, ys)
	if err != nil {
		return nil, err
	}
	if !c.yDir.Monotone() {
		return nil, ConfigErrorf("curve", "y values must be monotonic")
	}
	return c, nil
}

// Len returns the number of breakpoints.
func (c *BidCurve) Len() int { return len(c.points) }

// Points returns a copy of the breakpoints in their original order.
func (c *BidCurve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Xs returns a copy of the x values in their original order.
func (c *BidCurve) Xs() []float64 {
	out := make([]float64, len(c.points))
	for i, p := range c.points {
		out[i] = p.X
	}
	return out
}

// Domain returns the smallest and largest x.
func (c *BidCurve) Domain() (lo, hi float64) {
	return c.xs[0], c.xs[len(c.xs)-1]
}

// Range returns the smallest and largest y.
func (c *BidCurve) Range() (lo, hi float64) {
	lo, hi = c.ys[0], c.ys[0]
	for _, y := range c.ys[1:] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return lo, hi
}

// XDirection is the direction of x in the original breakpoint order.
func (c *BidCurve) XDirection() Direction { return c.xDir }

// YDirection is the direction of y as x increases.
func (c *BidCurve) YDirection() Direction { return c.yDir }

// ValueAt returns the linearly interpolated y at x, clamping to the endpoint
// values outside the domain. At a breakpoint it returns that breakpoint's y
// exactly.
func (c *BidCurve) ValueAt(x float64) float64 {
	n := len(c.xs)
	if math.IsNaN(x) {
		return math.NaN()
	}
	if n == 1 || x <= c.xs[0] {
		return c.ys[0]
	}
	if x >= c.xs[n-1] {
		return c.ys[n-1]
	}
	i := sort.SearchFloat64s(c.xs, x)
	if c.xs[i] == x {
		return c.ys[i]
	}
	return interpolate(x, c.xs[i-1], c.ys[i-1], c.xs[i], c.ys[i])
}

// InverseAt returns the x at which the curve reaches y.
//
// y outside the curve's range clamps to the boundary. When several x map to y
// (a flat run) the smallest such x is returned.
func (c *BidCurve) InverseAt(y float64) float64 {
	n := len(c.xs)
	if math.IsNaN(y) {
		return math.NaN()
	}
	if n == 1 {
		return c.xs[0]
	}

	var i int
	switch c.yDir {
	case DirectionAscending, DirectionFlat:
		y = clamp(y, c.ys[0], c.ys[n-1])
		i = sort.Search(n, func(k int) bool { return c.ys[k] >= y })
	case DirectionDescending:
		y = clamp(y, c.ys[n-1], c.ys[0])
		i = sort.Search(n, func(k int) bool { return c.ys[k] <= y })
	default:
		return c.scanInverse(y)
	}
	if c.ys[i] == y {
		return c.xs[i]
	}
	return interpolate(y, c.ys[i-1], c.xs[i-1], c.ys[i], c.xs[i])
}

// scanInverse handles curves whose y changes direction: the first crossing in
// ascending x wins, and an unreachable y maps to the first x with the closest y.
func (c *BidCurve) scanInverse(y float64) float64 {
	best, bestDist := 0, math.Inf(1)
	for i := range c.ys {
		if c.ys[i] == y {
			return c.xs[i]
		}
		if i+1 < len(c.ys) {
			lo, hi := c.ys[i], c.ys[i+1]
			if (lo < y && y < hi) || (lo > y && y > hi) {
				return interpolate(y, lo, c.xs[i], hi, c.xs[i+1])
			}
		}
		if d := math.Abs(c.ys[i] - y); d < bestDist {
			best, bestDist = i, d
		}
	}
	return c.xs[best]
}

func (c *BidCurve) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, p := range c.points {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "(%g,%g)", p.X, p.Y)
	}
	b.WriteString("]")
	return b.String()
}

// interpolate evaluates the line through (x0,y0) and (x1,y1) at x. The result
// is kept within [y0, y1] so rounding cannot step outside the segment.
func interpolate(x, x0, y0, x1, y1 float64) float64 {
	y := y0 + (x-x0)*(y1-y0)/(x1-x0)
	return clamp(y, math.Min(y0, y1), math.Max(y0, y1))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
