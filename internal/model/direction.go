package model

// Direction describes how a sequence of values moves.
// Keep these values stable; they appear in error messages.
type Direction string

const (
	DirectionAscending  Direction = "ASCENDING"
	DirectionDescending Direction = "DESCENDING"
	DirectionFlat       Direction = "FLAT"
	DirectionMixed      Direction = "MIXED"
)

func DirectionFromDelta(delta float64) Direction {
	switch {
	case delta > 0:
		return DirectionAscending
	case delta < 0:
		return DirectionDescending
	default:
		return DirectionFlat
	}
}

// Monotone reports whether the sequence never changes direction.
func (d Direction) Monotone() bool {
	return d != DirectionMixed
}

// directionOf classifies vs, ignoring flat steps.
func directionOf(vs []float64) Direction {
	up, down := false, false
	for i := 1; i < len(vs); i++ {
		switch DirectionFromDelta(vs[i] - vs[i-1]) {
		case DirectionAscending:
			up = true
		case DirectionDescending:
			down = true
		}
	}
	switch {
	case up && down:
		return DirectionMixed
	case up:
		return DirectionAscending
	case down:
		return DirectionDescending
	default:
		return DirectionFlat
	}
}
