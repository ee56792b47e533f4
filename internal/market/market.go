// Package market aggregates building demand curves and clears offers against
// the aggregate.
//
// A Market has no internal locking. It is meant to be driven by a single
// caller; anything that shares one across goroutines must serialize access
// itself.
package market

import (
	"errors"
	"fmt"
	"io"

	"consensus-market/internal/model"
)

var (
	// ErrNoParticipants is returned by queries on a market with nobody in it.
	ErrNoParticipants = errors.New("market has no participants")

	ErrDuplicateName = fmt.Errorf("%w: duplicate participant name", model.ErrConfiguration)
	ErrOddPoints     = fmt.Errorf("%w: flattened points must hold price/quantity pairs", model.ErrConfiguration)
)

// Options configures a Market.
type Options struct {
	// Policy applies to remote participant curves. Initial buildings were
	// already validated when they were constructed.
	Policy model.MonotonicPolicy
}

// Participant is a read-only view of one market member.
type Participant struct {
	Name   string        `json:"name"`
	Remote bool          `json:"remote"`
	Points []model.Point `json:"points"`
}

type participant struct {
	name   string
	demand *model.BidCurve
	// owner is the caller's Building for non-remote members. The market
	// never writes through it.
	owner *model.Building
}

type Market struct {
	opts         Options
	participants []participant
	byName       map[string]int
	aggregate    *model.BidCurve
	// slope is the shared direction of participant quantity as price rises.
	slope model.Direction
	state State
}

// New builds a market from zero or more caller-owned buildings. The market
// keeps references to them but never modifies them.
func New(opts Options, initial ...*model.Building) (*Market, error) {
	policy, err := model.ParseMonotonicPolicy(string(opts.Policy))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	opts.Policy = policy

	m := &Market{
		opts:   opts,
		byName: make(map[string]int),
		slope:  model.DirectionFlat,
		state:  StateCreated,
	}
	for _, b := range initial {
		if b == nil {
			return nil, model.ConfigErrorf("building", "nil building")
		}
		if err := m.add(b.Name, b.Demand, b); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddRemoteBuilding adds a participant known only by its curve. points holds
// interleaved price/quantity values and is copied. On error the market is
// left exactly as it was.
func (m *Market) AddRemoteBuilding(name string, points []float64) error {
	if len(points)%2 != 0 {
		return fmt.Errorf("%w: participant %q has %d values", ErrOddPoints, name, len(points))
	}
	prices := make([]float64, 0, len(points)/2)
	quantities := make([]float64, 0, len(points)/2)
	for i := 0; i < len(points); i += 2 {
		prices = append(prices, points[i])
		quantities = append(quantities, points[i+1])
	}
	demand, err := model.NewMonotoneCurve(prices, quantities, m.opts.Policy)
	if err != nil {
		return fmt.Errorf("participant %q: %w", name, err)
	}
	if err := m.add(name, demand, nil); err != nil {
		return err
	}
	m.state = StateOpen
	return nil
}

// AddBuilding adds a caller-owned building after construction.
func (m *Market) AddBuilding(b *model.Building) error {
	if b == nil {
		return model.ConfigErrorf("building", "nil building")
	}
	if err := m.add(b.Name, b.Demand, b); err != nil {
		return err
	}
	m.state = StateOpen
	return nil
}

func (m *Market) add(name string, demand *model.BidCurve, owner *model.Building) error {
	if name == "" {
		return model.ConfigErrorf("name", "participant name is required")
	}
	if _, ok := m.byName[name]; ok {
		return fmt.Errorf("%w %q", ErrDuplicateName, name)
	}
	if demand == nil {
		return model.ConfigErrorf("demand", "participant %q has no demand curve", name)
	}
	dir := demand.YDirection()
	if !dir.Monotone() {
		return model.ConfigErrorf("demand", "participant %q: quantity must be monotonic in price", name)
	}
	slope := m.slope
	if dir != model.DirectionFlat {
		if slope != model.DirectionFlat && slope != dir {
			return model.ConfigErrorf("demand", "participant %q: quantity is %s in price, market is %s", name, dir, slope)
		}
		slope = dir
	}

	curves := make([]*model.BidCurve, 0, len(m.participants)+1)
	for _, p := range m.participants {
		curves = append(curves, p.demand)
	}
	curves = append(curves, demand)
	agg, err := buildAggregate(curves)
	if err != nil {
		return fmt.Errorf("rebuild aggregate with %q: %w", name, err)
	}

	m.participants = append(m.participants, participant{name: name, demand: demand, owner: owner})
	m.byName[name] = len(m.participants) - 1
	m.aggregate = agg
	m.slope = slope
	return nil
}

// ClearOffer returns the price at which aggregate demand equals offer.
// Offers beyond the aggregate's range clamp to the boundary price.
func (m *Market) ClearOffer(offer float64) (float64, error) {
	if m.aggregate == nil {
		return 0, ErrNoParticipants
	}
	return m.aggregate.InverseAt(offer), nil
}

// AggregateAt returns the total quantity demanded at price.
func (m *Market) AggregateAt(price float64) (float64, error) {
	if m.aggregate == nil {
		return 0, ErrNoParticipants
	}
	return m.aggregate.ValueAt(price), nil
}

// Aggregate returns the current aggregate curve, or nil for an empty market.
// The curve is immutable and stays valid after later adds.
func (m *Market) Aggregate() *model.BidCurve { return m.aggregate }

func (m *Market) Len() int { return len(m.participants) }

func (m *Market) State() State { return m.state }

func (m *Market) Policy() model.MonotonicPolicy { return m.opts.Policy }

// Names returns participant names in insertion order.
func (m *Market) Names() []string {
	out := make([]string, len(m.participants))
	for i, p := range m.participants {
		out[i] = p.name
	}
	return out
}

// Participants returns a snapshot of every member's demand breakpoints.
func (m *Market) Participants() []Participant {
	out := make([]Participant, len(m.participants))
	for i, p := range m.participants {
		out[i] = Participant{Name: p.name, Remote: p.owner == nil, Points: p.demand.Points()}
	}
	return out
}

// Display writes every participant and the aggregate breakpoints.
func (m *Market) Display(w io.Writer) {
	fmt.Fprintf(w, "Market %s: %d participants, policy %s\n", m.state, len(m.participants), m.opts.Policy)
	for _, p := range m.participants {
		kind := "local"
		if p.owner == nil {
			kind = "remote"
		}
		fmt.Fprintf(w, "  %-20s %-6s %s\n", p.name, kind, p.demand)
	}
	if m.aggregate == nil {
		fmt.Fprintln(w, "Aggregate: empty")
		return
	}
	fmt.Fprintf(w, "Aggregate: %d points\n", m.aggregate.Len())
	fmt.Fprintf(w, "  %12s %12s\n", "price", "quantity")
	for _, p := range m.aggregate.Points() {
		fmt.Fprintf(w, "  %12.4f %12.4f\n", p.X, p.Y)
	}
}
