package analytics

import (
	"sort"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

const (
	minLiquidationBars   = 20
	zoneWidthFraction    = 0.02
	baselineIntensity    = 0.3
	liquidationFraction  = 0.02
	minLiquidationAmount = 10000
	maxLiquidationZones  = 5
	extremumNeighbors    = 2
)

// LiquidationZones estimates up to five price levels where leveraged
// positions are likely clustered. Swing lows below the last close become
// long zones, swing highs above it become short zones. Each level is scored
// by the volume traded near it and the list is sorted by liquidation amount,
// largest first. Fewer than 20 closes yields an empty list.
func LiquidationZones(closes, volumes, highs, lows []float64) []models.LiquidationZone {
	zones := []models.LiquidationZone{}
	if len(closes) < minLiquidationBars || len(highs) == 0 || len(lows) == 0 {
		return zones
	}

	currentPrice := closes[len(closes)-1]
	zoneSize := zoneWidthFraction * (maxOf(highs) - minOf(lows))
	avgVolume := mean(volumes)
	if avgVolume <= 0 {
		return zones
	}

	supports, resistances := swingLevels(closes, currentPrice)

	score := func(level float64, zoneType models.ZoneType) {
		zoneVolume := nearbyVolume(closes, volumes, level, zoneSize)
		intensity := zoneVolume/avgVolume*0.5 + baselineIntensity
		if intensity > 1 {
			intensity = 1
		}
		amount := zoneVolume * level * (intensity * liquidationFraction)
		if intensity > baselineIntensity && amount > minLiquidationAmount {
			zones = append(zones, models.LiquidationZone{
				Price:             level,
				Intensity:         intensity,
				Type:              zoneType,
				LiquidationAmount: amount,
			})
		}
	}
	for _, level := range supports {
		score(level, models.ZoneLong)
	}
	for _, level := range resistances {
		score(level, models.ZoneShort)
	}

	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].LiquidationAmount > zones[j].LiquidationAmount
	})
	if len(zones) > maxLiquidationZones {
		zones = zones[:maxLiquidationZones]
	}
	return zones
}

// swingLevels returns strict local minima below price and strict local maxima
// above it, each compared against two neighbours on either side.
func swingLevels(closes []float64, price float64) (supports, resistances []float64) {
	for i := extremumNeighbors; i < len(closes)-extremumNeighbors; i++ {
		c := closes[i]
		isMin, isMax := true, true
		for d := 1; d <= extremumNeighbors; d++ {
			for _, n := range [2]float64{closes[i-d], closes[i+d]} {
				if c >= n {
					isMin = false
				}
				if c <= n {
					isMax = false
				}
			}
		}
		if isMin && c < price {
			supports = append(supports, c)
		}
		if isMax && c > price {
			resistances = append(resistances, c)
		}
	}
	return supports, resistances
}

// nearbyVolume is the mean volume of bars closing strictly within zoneSize of level.
func nearbyVolume(closes, volumes []float64, level, zoneSize float64) float64 {
	n := len(closes)
	if len(volumes) < n {
		n = len(volumes)
	}
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		diff := closes[i] - level
		if diff < 0 {
			diff = -diff
		}
		if diff < zoneSize {
			sum += volumes[i]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
