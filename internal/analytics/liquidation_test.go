package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// swingFixture has one strict low at index 5 (90) and one strict high at
// index 15 (120), with the last close at 100.
func swingFixture() (closes, volumes, highs, lows []float64) {
	closes = []float64{
		100, 99, 98, 97, 96, 90, 96, 97, 98, 99,
		100, 105, 110, 112, 115, 120, 115, 112, 110, 105,
		102, 101, 100.5, 100.2, 100,
	}
	volumes = make([]float64, len(closes))
	highs = make([]float64, len(closes))
	lows = make([]float64, len(closes))
	for i, c := range closes {
		volumes[i] = 1000
		highs[i] = c + 1
		lows[i] = c - 1
	}
	volumes[5] = 10000
	volumes[15] = 10000
	return closes, volumes, highs, lows
}

func TestLiquidationZones_TooFewBars(t *testing.T) {
	closes, volumes, highs, lows := swingFixture()
	zones := LiquidationZones(closes[:19], volumes[:19], highs[:19], lows[:19])
	assert.NotNil(t, zones)
	assert.Empty(t, zones)

	assert.Empty(t, LiquidationZones(nil, nil, nil, nil))
}

func TestLiquidationZones_SwingLevels(t *testing.T) {
	closes, volumes, highs, lows := swingFixture()

	zones := LiquidationZones(closes, volumes, highs, lows)

	require.Len(t, zones, 2)
	assert.Equal(t, models.ZoneShort, zones[0].Type)
	assert.Equal(t, 120.0, zones[0].Price)
	assert.Equal(t, 1.0, zones[0].Intensity)
	assert.InDelta(t, 24000, zones[0].LiquidationAmount, 1e-6)

	assert.Equal(t, models.ZoneLong, zones[1].Type)
	assert.Equal(t, 90.0, zones[1].Price)
	assert.Equal(t, 1.0, zones[1].Intensity)
	assert.InDelta(t, 18000, zones[1].LiquidationAmount, 1e-6)
}

func TestLiquidationZones_PartialIntensityAmount(t *testing.T) {
	closes, volumes, highs, lows := swingFixture()
	for i := range volumes {
		volumes[i] = 10000
	}
	volumes[5] = 100000
	volumes[15] = 13000

	zones := LiquidationZones(closes, volumes, highs, lows)

	require.Len(t, zones, 2)
	short := zones[1]
	require.Equal(t, models.ZoneShort, short.Type)
	// 13000 / 13720 * 0.5 + 0.3
	assert.InDelta(t, 0.77376, short.Intensity, 1e-5)
	assert.Less(t, short.Intensity, 1.0)
	assert.Equal(t, 13000*120*(short.Intensity*0.02), short.LiquidationAmount)
}

func TestLiquidationZones_FiltersSmallAmounts(t *testing.T) {
	closes, volumes, highs, lows := swingFixture()
	// 5000 * 90 * 0.02 = 9000 for the low, below the cutoff
	volumes[5] = 5000
	zones := LiquidationZones(closes, volumes, highs, lows)

	require.Len(t, zones, 1)
	assert.Equal(t, models.ZoneShort, zones[0].Type)
}

func TestLiquidationZones_PlateauProducesNothing(t *testing.T) {
	closes := make([]float64, 30)
	volumes := make([]float64, 30)
	highs := make([]float64, 30)
	lows := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1e6
		highs[i] = 101
		lows[i] = 99
	}
	assert.Empty(t, LiquidationZones(closes, volumes, highs, lows))
}

func TestLiquidationZones_ZeroVolume(t *testing.T) {
	closes, volumes, highs, lows := swingFixture()
	for i := range volumes {
		volumes[i] = 0
	}
	assert.Empty(t, LiquidationZones(closes, volumes, highs, lows))
}

func TestLiquidationZones_Properties(t *testing.T) {
	n := 300
	closes := make([]float64, n)
	volumes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := range closes {
		closes[i] = 30000 + 800*math.Sin(float64(i)/4) + 300*math.Cos(float64(i)*1.3)
		volumes[i] = 50 + 40*math.Abs(math.Sin(float64(i)*0.7))
		highs[i] = closes[i] + 50
		lows[i] = closes[i] - 50
	}

	zones := LiquidationZones(closes, volumes, highs, lows)

	require.NotEmpty(t, zones)
	assert.LessOrEqual(t, len(zones), 5)
	current := closes[n-1]
	for i, z := range zones {
		assert.GreaterOrEqual(t, z.Intensity, 0.0)
		assert.LessOrEqual(t, z.Intensity, 1.0)
		assert.Greater(t, z.LiquidationAmount, 10000.0)
		if z.Type == models.ZoneLong {
			assert.Less(t, z.Price, current)
		} else {
			assert.Greater(t, z.Price, current)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, zones[i-1].LiquidationAmount, z.LiquidationAmount)
		}
	}
}

func TestSwingLevels_StrictNeighbours(t *testing.T) {
	closes := []float64{5, 4, 3, 3, 4, 5, 6, 7, 6, 5}
	supports, resistances := swingLevels(closes, 5)
	// the 3,3 trough is flat and produces nothing
	assert.Empty(t, supports)
	assert.Equal(t, []float64{7}, resistances)
}
