package audio

import "math"

// dbEpsilon keeps DBFS finite for all-zero buffers. -240 dBFS is far below
// any usable gate, so silence is still rejected by every threshold.
const dbEpsilon = 1e-12

// RMS returns sqrt(mean(sample^2)) over the buffer. An empty buffer is
// treated as a single zero sample so the mean is always defined.
func RMS(samples []float32) float64 {
	n := len(samples)
	if n < 1 {
		n = 1
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(n))
}

// DBFS returns the buffer's RMS level in dB relative to full scale.
func DBFS(samples []float32) float64 {
	return 20 * math.Log10(RMS(samples)+dbEpsilon)
}
