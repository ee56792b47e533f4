// Package sweep clears a market at a series of offers and tabulates how each
// building responds.
package sweep

import (
	"fmt"
	"math"

	"consensus-market/internal/model"

	"github.com/zeromicro/go-zero/core/logx"
)

// Clearer is the part of a market a sweep needs.
type Clearer interface {
	ClearOffer(offer float64) (float64, error)
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run clears every offer in r and evaluates each building at the resulting
// price. Buildings are reported in the order given.
func (e *Engine) Run(m Clearer, buildings []*model.Building, r Range) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("market is nil")
	}
	offers, err := r.Offers()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(buildings))
	for i, b := range buildings {
		if b == nil {
			return nil, fmt.Errorf("building %d is nil", i)
		}
		names[i] = b.Name
	}

	rows := make([]Row, 0, len(offers))
	maxTotal := math.Inf(-1)
	for _, offer := range offers {
		price, err := m.ClearOffer(offer)
		if err != nil {
			return nil, fmt.Errorf("offer %g: %w", offer, err)
		}
		row := Row{Offer: offer, Price: price, Loads: make([]Load, len(buildings))}
		for i, b := range buildings {
			q := b.LoadAtPrice(price)
			row.Loads[i] = Load{Name: b.Name, Quantity: q, Response: b.ResponseAtLoad(q)}
			row.TotalLoad += q
		}
		maxTotal = math.Max(maxTotal, row.TotalLoad)
		rows = append(rows, row)
	}

	logx.Debugf("sweep %s: %d offers over %d buildings", r, len(rows), len(buildings))
	return &Result{
		Range:        r,
		Buildings:    names,
		Rows:         rows,
		MaxTotalLoad: maxTotal,
	}, nil
}
