// Package audio implements the numeric front half of the analysis pipeline:
// WAV decoding, resampling, energy measurement and frame slicing. Every
// function is a pure transform over float32 sample buffers; each stage
// returns a new buffer and keeps no reference to its input.
package audio

import (
	"encoding/binary"
	"errors"
)

// TargetSampleRate is the rate every signal is converted to before framing.
// All bundled models expect 16 kHz input.
const TargetSampleRate = 16000

// Decode failures. All of them leave the pipeline with an empty verdict
// rather than aborting it; see analysis.Analyzer.
var (
	ErrShortBuffer      = errors.New("wav: buffer shorter than minimum header")
	ErrNoDataChunk      = errors.New("wav: no data chunk found")
	ErrTruncatedData    = errors.New("wav: data chunk extends past buffer")
	ErrUnsupportedDepth = errors.New("wav: only 16-bit and 32-bit PCM supported")
	ErrNoChannels       = errors.New("wav: zero channel count")
)

// Signal is a mono sample sequence in [-1.0, 1.0] at a known rate.
type Signal struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

const (
	minHeaderSize = 44

	// Canonical fmt-chunk field offsets. The recorder always writes a
	// canonical header, so these are read by fixed offset; only the data
	// chunk position varies and is found by scanning.
	offChannels      = 22
	offSampleRate    = 24
	offBitsPerSample = 34

	chunkScanStart = 12
)

// DecodeWAV parses a RIFF/WAVE byte buffer into a mono Signal at the file's
// native rate. Multi-channel input is down-mixed by averaging the normalized
// per-channel amplitudes of each interleaved sample group.
func DecodeWAV(data []byte) (Signal, error) {
	if len(data) < minHeaderSize {
		return Signal{}, ErrShortBuffer
	}

	channels := int(binary.LittleEndian.Uint16(data[offChannels:]))
	sampleRate := int(binary.LittleEndian.Uint32(data[offSampleRate:]))
	bitsPerSample := int(binary.LittleEndian.Uint16(data[offBitsPerSample:]))

	if channels == 0 {
		return Signal{}, ErrNoChannels
	}
	if bitsPerSample != 16 && bitsPerSample != 32 {
		return Signal{}, ErrUnsupportedDepth
	}

	dataOff, dataLen, err := findDataChunk(data)
	if err != nil {
		return Signal{}, err
	}

	bytesPerSample := bitsPerSample / 8
	totalSamples := dataLen / bytesPerSample
	monoCount := totalSamples / channels

	out := make([]float32, monoCount)
	for i := 0; i < monoCount; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			off := dataOff + (i*channels+ch)*bytesPerSample
			if bitsPerSample == 16 {
				v := int16(binary.LittleEndian.Uint16(data[off:]))
				sum += float64(v) / 32768.0
			} else {
				v := int32(binary.LittleEndian.Uint32(data[off:]))
				sum += float64(v) / 2147483648.0
			}
		}
		out[i] = clampSample(sum / float64(channels))
	}

	return Signal{Samples: out, SampleRate: sampleRate}, nil
}

// findDataChunk scans chunk headers after the RIFF/fmt preamble for the
// "data" tag and returns the chunk's payload offset and length.
func findDataChunk(data []byte) (offset, length int, err error) {
	pos := chunkScanStart
	for pos+8 <= len(data) {
		id := data[pos : pos+4]
		size := int(binary.LittleEndian.Uint32(data[pos+4:]))
		if string(id) == "data" {
			if pos+8+size > len(data) {
				return 0, 0, ErrTruncatedData
			}
			return pos + 8, size, nil
		}
		pos += 8 + size
	}
	return 0, 0, ErrNoDataChunk
}

func clampSample(v float64) float32 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return float32(v)
}
