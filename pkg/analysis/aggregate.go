package analysis

// ScoreAggregator accumulates per-frame score vectors into a running
// per-class sum. Accumulation is a read-modify-write across frames, so the
// scoring loop is strictly sequential.
type ScoreAggregator struct {
	sums   []float64
	frames int
}

// NewScoreAggregator creates an aggregator for numClasses classes.
func NewScoreAggregator(numClasses int) *ScoreAggregator {
	return &ScoreAggregator{sums: make([]float64, numClasses)}
}

// Add accumulates one frame's scores. Vectors longer than the class count
// are truncated; shorter ones contribute what they have.
func (a *ScoreAggregator) Add(scores []float32) {
	n := len(scores)
	if n > len(a.sums) {
		n = len(a.sums)
	}
	for i := 0; i < n; i++ {
		a.sums[i] += float64(scores[i])
	}
	a.frames++
}

// FrameCount returns the number of frames accumulated so far.
func (a *ScoreAggregator) FrameCount() int { return a.frames }

// Average returns the per-class mean over the frames actually scored. It
// returns nil when no frame was scored, which is the documented "no
// detection" outcome, not an error.
func (a *ScoreAggregator) Average() []float64 {
	if a.frames == 0 {
		return nil
	}
	avg := make([]float64, len(a.sums))
	for i, sum := range a.sums {
		avg[i] = sum / float64(a.frames)
	}
	return avg
}
