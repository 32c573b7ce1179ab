package audio

// Resample converts a mono signal to targetRate using nearest-neighbor
// (zero-order-hold) sample selection. There is no anti-aliasing filter: the
// pipeline trades spectral fidelity for speed on low-end devices, and the
// downstream classifier was validated against exactly this conversion.
//
// Output length is floor(len * targetRate / sourceRate); each output index i
// reads source index floor(i * sourceRate / targetRate), clamped to the
// valid range. A signal already at targetRate is returned unchanged.
func Resample(in Signal, targetRate int) Signal {
	if in.SampleRate == targetRate || in.SampleRate <= 0 || len(in.Samples) == 0 {
		return Signal{Samples: in.Samples, SampleRate: targetRate}
	}

	srcLen := len(in.Samples)
	outLen := srcLen * targetRate / in.SampleRate
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		src := i * in.SampleRate / targetRate
		if src >= srcLen {
			src = srcLen - 1
		}
		out[i] = in.Samples[src]
	}

	return Signal{Samples: out, SampleRate: targetRate}
}
