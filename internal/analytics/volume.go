package analytics

import "github.com/irfndi/paragon-ai-go/internal/models"

// DefaultVolumeSpikeThreshold is the multiple of the average volume that counts as a spike.
const DefaultVolumeSpikeThreshold = 1.5

// HasVolumeSpike reports whether the last volume strictly exceeds threshold
// times the mean of all preceding volumes.
func HasVolumeSpike(volumes []float64, threshold float64) bool {
	if len(volumes) < 2 {
		return false
	}
	avg := mean(volumes[:len(volumes)-1])
	return volumes[len(volumes)-1] > avg*threshold
}

// Volume summarises the last volume against the mean of the preceding ones.
func Volume(volumes []float64, threshold float64) models.VolumeStats {
	if len(volumes) == 0 {
		return models.VolumeStats{}
	}
	stats := models.VolumeStats{
		Current: volumes[len(volumes)-1],
		Spike:   HasVolumeSpike(volumes, threshold),
	}
	if len(volumes) > 1 {
		stats.Average = mean(volumes[:len(volumes)-1])
	}
	if stats.Average > 0 {
		stats.Ratio = round2(stats.Current / stats.Average)
	}
	return stats
}
