package analytics

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

const neutralRSI = 50.0

// RSI computes the Relative Strength Index over the last period close-to-close
// changes using simple averages (not Wilder smoothing). It returns 50 when
// there are fewer than period+1 closes and 100 when the window has no losses.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return neutralRSI
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs))
}
