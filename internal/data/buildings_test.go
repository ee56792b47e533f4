package data

import (
	"os"
	"path/filepath"
	"testing"

	"consensus-market/internal/bidding"
	"consensus-market/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectDoc = `{
  "zeta":  {"n": 2, "bid_p": [80, 20], "bid_q": [10, 30], "response_q": [0, 50], "response_v": [0, -1]},
  "alpha": {"bid_p": [100, 0], "bid_q": [0, 100], "response_q": [0, 100], "response_v": [0, -2]}
}`

func TestParseBuildings_Object(t *testing.T) {
	records, err := ParseBuildings([]byte(objectDoc))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "alpha", records[0].Name, "object keys are sorted and become names")
	assert.Equal(t, "zeta", records[1].Name)
	assert.Equal(t, 2, records[1].N)
	assert.Equal(t, []float64{80, 20}, records[1].BidP)
}

func TestParseBuildings_Array(t *testing.T) {
	doc := `[{"name": "b", "bid_p": [1], "bid_q": [2], "response_q": [0], "response_v": [0]},
	         {"name": "a", "bid_p": [1], "bid_q": [2], "response_q": [0], "response_v": [0]}]`
	records, err := ParseBuildings([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "b", records[0].Name, "array order is preserved")
	assert.Equal(t, "a", records[1].Name)
}

func TestParseBuildings_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"Empty":       "  ",
		"EmptyArray":  "[]",
		"EmptyObject": "{}",
		"Scalar":      "42",
		"KeyMismatch": `{"a": {"name": "b"}}`,
		"BadJSON":     `[{"name": }]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBuildings([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndSaveBuildings(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bldg.json")
	require.NoError(t, os.WriteFile(src, []byte(objectDoc), 0644))

	records, err := LoadBuildings(src)
	require.NoError(t, err)

	out := filepath.Join(dir, "nested", "copy.json")
	require.NoError(t, SaveBuildings(records, out))

	again, err := LoadBuildings(out)
	require.NoError(t, err)
	assert.Equal(t, records, again)

	_, err = LoadBuildings(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestBuildBuildings(t *testing.T) {
	records, err := ParseBuildings([]byte(objectDoc))
	require.NoError(t, err)
	records = append(records, BuildingRecord{
		BuildingSpec: model.BuildingSpec{
			Name:      "hvac",
			ResponseQ: []float64{0, 10},
			ResponseV: []float64{0, -3},
		},
		FourPoint: &bidding.FourPointSpec{
			Points:   [][2]float64{{1, 40}, {3, 30}, {3, 20}, {6, 10}},
			PriceCap: 100,
		},
	})

	buildings, err := BuildBuildings(records, model.PolicyReject)
	require.NoError(t, err)
	require.Len(t, buildings, 3)
	assert.Equal(t, "hvac", buildings[2].Name)
	assert.Equal(t, 2.0, buildings[2].LoadAtPrice(35), "four-point bid becomes the demand curve")
}

func TestBuildBuildings_Errors(t *testing.T) {
	records, err := ParseBuildings([]byte(objectDoc))
	require.NoError(t, err)

	dup := append([]BuildingRecord{}, records...)
	dup = append(dup, records[0])
	_, err = BuildBuildings(dup, model.PolicyReject)
	assert.ErrorIs(t, err, model.ErrConfiguration)

	both := records[0]
	both.FourPoint = &bidding.FourPointSpec{Points: [][2]float64{{1, 4}, {2, 3}, {3, 2}, {4, 1}}}
	_, err = BuildBuildings([]BuildingRecord{both}, model.PolicyReject)
	assert.ErrorIs(t, err, model.ErrConfiguration)

	bad := records[0]
	bad.BidQ = []float64{1}
	_, err = BuildBuildings([]BuildingRecord{bad}, model.PolicyReject)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestRecordFromBuilding_SavesResolvedBids(t *testing.T) {
	record := BuildingRecord{
		BuildingSpec: model.BuildingSpec{
			Name:      "hvac",
			ResponseQ: []float64{0, 10},
			ResponseV: []float64{0, -3},
		},
		FourPoint: &bidding.FourPointSpec{
			Points: [][2]float64{{1, 40}, {3, 30}, {3, 20}, {6, 10}},
		},
	}
	buildings, err := BuildBuildings([]BuildingRecord{record}, model.PolicyReject)
	require.NoError(t, err)

	resolved := RecordFromBuilding(buildings[0])
	assert.Nil(t, resolved.FourPoint)
	assert.Equal(t, []float64{40, 30, 20, 10}, resolved.BidP)
	assert.Equal(t, []float64{1, 3, 3, 6}, resolved.BidQ)
	assert.Equal(t, 4, resolved.N)

	path := filepath.Join(t.TempDir(), "buildings.json")
	require.NoError(t, SaveBuildings([]BuildingRecord{resolved}, path))
	loaded, err := LoadBuildings(path)
	require.NoError(t, err)
	rebuilt, err := BuildBuildings(loaded, model.PolicyReject)
	require.NoError(t, err)
	assert.Equal(t, buildings[0].FlattenBid(), rebuilt[0].FlattenBid(), "saved document rebuilds the same demand curve")
}
