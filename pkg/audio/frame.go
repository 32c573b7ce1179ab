package audio

// Frame is one fixed-length analysis window. Samples is always exactly the
// configured frame length, zero-padded past Occupancy when the window ran
// off the end of the signal.
type Frame struct {
	Samples   []float32
	Start     int
	Occupancy int
}

// FrameConfig controls how a signal is sliced into classifier windows.
type FrameConfig struct {
	// Length is the window size in samples, fixed by the model's input.
	Length int
	// Hop is the scan advance between windows, in samples.
	Hop int
	// MaxFrames caps the number of emitted windows, bounding inference
	// cost per recording.
	MaxFrames int
}

// SplitFrames slices a mono sample buffer into overlapping windows.
//
// The scan starts at offset 0 and advances by Hop. It terminates when
// MaxFrames windows have been emitted, when a window reaches the signal's
// last sample, or, as a hard stop, when the candidate window holds fewer
// than Length/4 real samples (the remaining tail is too short to score).
func SplitFrames(samples []float32, cfg FrameConfig) []Frame {
	n := len(samples)
	if n == 0 || cfg.Length <= 0 || cfg.Hop <= 0 || cfg.MaxFrames <= 0 {
		return nil
	}

	var frames []Frame
	for start := 0; len(frames) < cfg.MaxFrames && start < n; start += cfg.Hop {
		avail := n - start
		if avail > cfg.Length {
			avail = cfg.Length
		}
		if avail < cfg.Length/4 {
			break
		}

		buf := make([]float32, cfg.Length)
		copy(buf, samples[start:start+avail])
		frames = append(frames, Frame{Samples: buf, Start: start, Occupancy: avail})

		if start+cfg.Length >= n {
			break
		}
	}
	return frames
}
