package sweep

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"consensus-market/internal/market"
	"consensus-market/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMarket(t *testing.T) (*market.Market, []*model.Building) {
	t.Helper()
	a, err := model.NewBuilding(model.BuildingSpec{
		Name:      "a",
		BidP:      []float64{100, 50, 0},
		BidQ:      []float64{0, 50, 100},
		ResponseQ: []float64{0, 100},
		ResponseV: []float64{0, -4},
	})
	require.NoError(t, err)
	b, err := model.NewBuilding(model.BuildingSpec{
		Name:      "b",
		BidP:      []float64{100, 0},
		BidQ:      []float64{0, 100},
		ResponseQ: []float64{0, 100},
		ResponseV: []float64{0, -2},
	})
	require.NoError(t, err)

	m, err := market.New(market.Options{}, a)
	require.NoError(t, err)
	require.NoError(t, m.AddRemoteBuilding(b.Name, b.FlattenBid()))
	return m, []*model.Building{a, b}
}

func TestRange_Offers(t *testing.T) {
	offers, err := Range{Start: 0, Stop: 1900, Step: 100}.Offers()
	require.NoError(t, err)
	require.Len(t, offers, 20)
	assert.Equal(t, 0.0, offers[0])
	assert.Equal(t, 1900.0, offers[19])

	offers, err = Range{Start: 0, Stop: 0.3, Step: 0.1}.Offers()
	require.NoError(t, err)
	assert.Len(t, offers, 4, "stop is included despite float rounding")

	offers, err = Range{Start: 5, Stop: 5, Step: 1}.Offers()
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, offers)

	offers, err = Range{Start: 0, Stop: 250, Step: 100}.Offers()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100, 200}, offers, "stop off the grid is not reached")
}

func TestRange_Validate(t *testing.T) {
	for name, r := range map[string]Range{
		"ZeroStep":     {Start: 0, Stop: 10, Step: 0},
		"NegativeStep": {Start: 0, Stop: 10, Step: -1},
		"Backwards":    {Start: 10, Stop: 0, Step: 1},
		"TooMany":      {Start: 0, Stop: 1e9, Step: 1},
		"Overflow":     {Start: 0, Stop: 1e20, Step: 1},
		"TinyStep":     {Start: 0, Stop: 1e300, Step: 1e-10},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, r.Validate(), model.ErrConfiguration)
			assert.NotPanics(t, func() {
				_, err := r.Offers()
				assert.ErrorIs(t, err, model.ErrConfiguration)
			})
		})
	}
}

func TestEngine_Run(t *testing.T) {
	m, buildings := buildMarket(t)
	res, err := New().Run(m, buildings, Range{Start: 0, Stop: 200, Step: 100})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, res.Buildings)
	require.Len(t, res.Rows, 3)

	mid := res.Rows[1]
	assert.Equal(t, 100.0, mid.Offer)
	assert.Equal(t, 50.0, mid.Price, "two buildings each take 50 at price 50")
	assert.Equal(t, Load{Name: "a", Quantity: 50, Response: -2}, mid.Loads[0])
	assert.Equal(t, Load{Name: "b", Quantity: 50, Response: -1}, mid.Loads[1])
	assert.Equal(t, 100.0, mid.TotalLoad)

	last := res.Rows[2]
	assert.Equal(t, 0.0, last.Price)
	assert.Equal(t, 200.0, last.TotalLoad)
	assert.Equal(t, 200.0, res.MaxTotalLoad)
}

func TestEngine_RunErrors(t *testing.T) {
	m, buildings := buildMarket(t)

	_, err := New().Run(nil, buildings, Range{Step: 1})
	assert.Error(t, err)

	_, err = New().Run(m, buildings, Range{Start: 1, Stop: 0, Step: 1})
	assert.ErrorIs(t, err, model.ErrConfiguration)

	empty, err := market.New(market.Options{})
	require.NoError(t, err)
	_, err = New().Run(empty, nil, Range{Stop: 1, Step: 1})
	assert.True(t, errors.Is(err, market.ErrNoParticipants), "got %v", err)
}

func TestWriteTable(t *testing.T) {
	m, buildings := buildMarket(t)
	res, err := New().Run(m, buildings, Range{Start: 0, Stop: 100, Step: 100})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, res))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, strings.Repeat(" ", 39)+"a"+strings.Repeat(" ", 19)+"b", lines[0])
	assert.Equal(t, "     Offer     Price   DeltaKW DeltaDegF   DeltaKW DeltaDegF   TotLoad", lines[1])
	assert.Equal(t, "    100.00     50.00     50.00     -2.00     50.00     -1.00    100.00", lines[3])
}

func TestWriteCSVFile(t *testing.T) {
	m, buildings := buildMarket(t)
	res, err := New().Run(m, buildings, Range{Start: 0, Stop: 100, Step: 100})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "sweep.csv")
	require.NoError(t, WriteCSVFile(path, res))
	written, err := os.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res))
	assert.Equal(t, buf.String(), string(written), "file and writer output match")
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"offer", "price", "a_kw", "a_response", "b_kw", "b_response", "total_load"}, records[0])
	assert.Equal(t, "100.000000", records[2][0])
	assert.Equal(t, "50.000000", records[2][1])
}

func TestWriteTableFile(t *testing.T) {
	m, buildings := buildMarket(t)
	res, err := New().Run(m, buildings, Range{Start: 0, Stop: 100, Step: 100})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "sweep.txt")
	require.NoError(t, WriteTableFile(path, res))

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, res))
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(written))

	assert.Error(t, WriteTableFile(t.TempDir(), res), "a directory cannot be created as a file")
}
