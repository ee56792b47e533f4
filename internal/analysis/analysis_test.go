package analysis

import (
	"testing"

	"consensus-market/internal/sweep"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *sweep.Result {
	row := func(offer, price, qa, qb float64) sweep.Row {
		return sweep.Row{
			Offer: offer,
			Price: price,
			Loads: []sweep.Load{
				{Name: "b", Quantity: qa, Response: -qa / 10},
				{Name: "a", Quantity: qb, Response: -qb / 10},
			},
			TotalLoad: qa + qb,
		}
	}
	return &sweep.Result{
		Buildings: []string{"b", "a"},
		Rows: []sweep.Row{
			row(0, 100, 0, 0),
			row(50, 60, 20, 30),
			row(100, 20, 40, 60),
			row(200, 0, 60, 60),
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(fixture())

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 0.0, s.MinPrice)
	assert.Equal(t, 100.0, s.MaxPrice)
	assert.Equal(t, 45.0, s.MeanPrice)
	assert.InDelta(t, 3.0, s.P05Price, 1e-9, "interpolated between the two lowest prices")
	assert.InDelta(t, 94.0, s.P95Price, 1e-9)
	assert.InDelta(t, 91.0, s.SpreadP95P05, 1e-9)
	assert.Equal(t, 80.0, s.MaxTrackingError, "offer 200 against 120 absorbed")

	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{}, Summarize(&sweep.Result{}))
}

func TestRankByFlexibility(t *testing.T) {
	ranked := RankByFlexibility(fixture())
	require.Len(t, ranked, 2)

	assert.Equal(t, "a", ranked[0].Name, "equal swing ties break by name")
	assert.Equal(t, "b", ranked[1].Name)
	assert.Equal(t, Flexibility{Name: "a", MinQuantity: 0, MaxQuantity: 60, Swing: 60, ResponseAtMax: -6}, ranked[0])

	res := fixture()
	res.Rows[3].Loads[0].Quantity = 90
	ranked = RankByFlexibility(res)
	assert.Equal(t, "b", ranked[0].Name, "larger swing ranks first")
	assert.Equal(t, 90.0, ranked[0].Swing)

	assert.Nil(t, RankByFlexibility(&sweep.Result{}))
}
