package analytics

// EMA seeds with the simple mean of the first period values and smooths
// forward with multiplier 2/(period+1). With fewer than period values it
// returns the last value unrounded, or 0 for an empty slice.
func EMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		if len(values) == 0 {
			return 0
		}
		return values[len(values)-1]
	}

	multiplier := 2 / float64(period+1)
	ema := mean(values[:period])
	for _, v := range values[period:] {
		ema = (v-ema)*multiplier + ema
	}
	return round2(ema)
}

// emaState is a running EMA advanced one value at a time. It performs the
// same floating point operations, in the same order, as EMA.
type emaState struct {
	period     int
	multiplier float64
	count      int
	sum        float64
	value      float64
}

func newEMAState(period int) *emaState {
	return &emaState{period: period, multiplier: 2 / float64(period+1)}
}

// update feeds v and reports the current EMA once the seed window is full.
func (e *emaState) update(v float64) (float64, bool) {
	e.count++
	if e.count < e.period {
		e.sum += v
		return 0, false
	}
	if e.count == e.period {
		e.sum += v
		e.value = e.sum / float64(e.period)
		return e.value, true
	}
	e.value = (v-e.value)*e.multiplier + e.value
	return e.value, true
}
