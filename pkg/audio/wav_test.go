package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// makeWAV builds a canonical 44-byte-header RIFF/WAVE file around raw
// interleaved PCM payload bytes.
func makeWAV(channels, sampleRate, bitsPerSample int, payload []byte) []byte {
	blockAlign := channels * bitsPerSample / 8
	buf := make([]byte, 44+len(payload))

	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+len(payload)))
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(buf[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:], uint16(bitsPerSample))
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(len(payload)))
	copy(buf[44:], payload)

	return buf
}

func pcm16Payload(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func pcm32Payload(samples []int32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], uint32(s))
	}
	return out
}

func TestDecodeWAV_Mono16(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768}
	sig, err := DecodeWAV(makeWAV(1, 16000, 16, pcm16Payload(samples)))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if sig.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", sig.SampleRate)
	}
	if len(sig.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(sig.Samples))
	}
	for i, s := range sig.Samples {
		if s < -1.0 || s > 1.0 {
			t.Errorf("sample %d out of range: %f", i, s)
		}
	}
	if math.Abs(float64(sig.Samples[1])-0.5) > 1e-4 {
		t.Errorf("expected sample 1 ~= 0.5, got %f", sig.Samples[1])
	}
	if sig.Samples[4] != -1.0 {
		t.Errorf("expected full-scale negative -1.0, got %f", sig.Samples[4])
	}
}

func TestDecodeWAV_StereoDownmix(t *testing.T) {
	// L/R pairs: averaging (16384, -16384) cancels, (16384, 16384) stays.
	sig, err := DecodeWAV(makeWAV(2, 44100, 16, pcm16Payload([]int16{16384, -16384, 16384, 16384})))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if len(sig.Samples) != 2 {
		t.Fatalf("expected 2 mono samples, got %d", len(sig.Samples))
	}
	if math.Abs(float64(sig.Samples[0])) > 1e-6 {
		t.Errorf("expected cancelled pair ~= 0, got %f", sig.Samples[0])
	}
	if math.Abs(float64(sig.Samples[1])-0.5) > 1e-4 {
		t.Errorf("expected averaged pair ~= 0.5, got %f", sig.Samples[1])
	}
	if sig.SampleRate != 44100 {
		t.Errorf("expected native rate 44100, got %d", sig.SampleRate)
	}
}

func TestDecodeWAV_Mono32(t *testing.T) {
	sig, err := DecodeWAV(makeWAV(1, 48000, 32, pcm32Payload([]int32{0, 1 << 30, -(1 << 31)})))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if len(sig.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(sig.Samples))
	}
	if math.Abs(float64(sig.Samples[1])-0.5) > 1e-6 {
		t.Errorf("expected 0.5, got %f", sig.Samples[1])
	}
	if sig.Samples[2] != -1.0 {
		t.Errorf("expected -1.0, got %f", sig.Samples[2])
	}
}

func TestDecodeWAV_Failures(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want error
	}{
		{"short buffer", make([]byte, 43), ErrShortBuffer},
		{"unsupported depth", makeWAV(1, 16000, 8, []byte{0, 0}), ErrUnsupportedDepth},
		{"zero channels", makeWAV(0, 16000, 16, nil), ErrNoChannels},
	}
	for _, tc := range cases {
		if _, err := DecodeWAV(tc.data); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestDecodeWAV_MissingDataChunk(t *testing.T) {
	data := makeWAV(1, 16000, 16, pcm16Payload([]int16{1, 2, 3}))
	copy(data[36:], "LIST")
	if _, err := DecodeWAV(data); !errors.Is(err, ErrNoDataChunk) {
		t.Errorf("expected ErrNoDataChunk, got %v", err)
	}
}

func TestDecodeWAV_TruncatedDataChunk(t *testing.T) {
	data := makeWAV(1, 16000, 16, pcm16Payload([]int16{1, 2, 3}))
	// Declare more payload than the buffer holds.
	binary.LittleEndian.PutUint32(data[40:], 1000)
	if _, err := DecodeWAV(data); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestDecodeWAV_SkipsForeignChunks(t *testing.T) {
	payload := pcm16Payload([]int16{8192, 8192})
	data := makeWAV(1, 16000, 16, nil)
	// Append a LIST chunk followed by the real data chunk.
	list := []byte("LIST")
	list = append(list, 4, 0, 0, 0, 'I', 'N', 'F', 'O')
	data = append(data[:36], list...)
	chunk := []byte("data")
	chunk = append(chunk, byte(len(payload)), 0, 0, 0)
	chunk = append(chunk, payload...)
	data = append(data, chunk...)

	sig, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if len(sig.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(sig.Samples))
	}
}
