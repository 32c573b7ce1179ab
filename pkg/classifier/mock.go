package classifier

import "sync"

// MockClassifier is a mock implementation of Classifier for testing. It
// allows customizing the behavior of Infer through the InferFunc field.
type MockClassifier struct {
	// InferFunc is called when Infer is invoked. If nil, a zero score
	// vector of NumClassesValue entries is returned.
	InferFunc func(samples []float32) ([]float32, error)

	// InputLengthValue is returned by InputLength.
	InputLengthValue int

	// NumClassesValue is returned by NumClasses.
	NumClassesValue int

	// InferCalls records all calls to Infer for verification.
	InferCalls [][]float32

	// DestroyCalled tracks if Destroy was called.
	DestroyCalled bool

	mu sync.Mutex
}

// NewMockClassifier creates a MockClassifier with the given frame size and
// class count and default zero-score behavior.
func NewMockClassifier(inputLength, numClasses int) *MockClassifier {
	return &MockClassifier{
		InputLengthValue: inputLength,
		NumClassesValue:  numClasses,
		InferCalls:       make([][]float32, 0),
	}
}

// NewMockClassifierWithScores creates a MockClassifier that returns a fixed
// score vector for every frame.
func NewMockClassifierWithScores(inputLength int, scores []float32) *MockClassifier {
	return &MockClassifier{
		InputLengthValue: inputLength,
		NumClassesValue:  len(scores),
		InferFunc: func(samples []float32) ([]float32, error) {
			out := make([]float32, len(scores))
			copy(out, scores)
			return out, nil
		},
		InferCalls: make([][]float32, 0),
	}
}

// NewMockClassifierWithSequence creates a MockClassifier that returns score
// vectors in sequence, cycling back to the beginning when exhausted.
func NewMockClassifierWithSequence(inputLength int, sequence [][]float32) *MockClassifier {
	idx := 0
	numClasses := 0
	if len(sequence) > 0 {
		numClasses = len(sequence[0])
	}
	return &MockClassifier{
		InputLengthValue: inputLength,
		NumClassesValue:  numClasses,
		InferFunc: func(samples []float32) ([]float32, error) {
			if len(sequence) == 0 {
				return nil, nil
			}
			scores := sequence[idx]
			idx = (idx + 1) % len(sequence)
			out := make([]float32, len(scores))
			copy(out, scores)
			return out, nil
		},
		InferCalls: make([][]float32, 0),
	}
}

// Infer implements Classifier.
func (m *MockClassifier) Infer(samples []float32) ([]float32, error) {
	m.mu.Lock()
	// Copy to avoid issues with reused frame buffers.
	samplesCopy := make([]float32, len(samples))
	copy(samplesCopy, samples)
	m.InferCalls = append(m.InferCalls, samplesCopy)
	m.mu.Unlock()

	if m.InferFunc != nil {
		return m.InferFunc(samples)
	}
	return make([]float32, m.NumClassesValue), nil
}

// InputLength implements Classifier.
func (m *MockClassifier) InputLength() int { return m.InputLengthValue }

// NumClasses implements Classifier.
func (m *MockClassifier) NumClasses() int { return m.NumClassesValue }

// Destroy implements Classifier.
func (m *MockClassifier) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DestroyCalled = true
	return nil
}

// InferCallCount returns the number of times Infer was called.
func (m *MockClassifier) InferCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.InferCalls)
}

// Ensure MockClassifier implements Classifier at compile time.
var _ Classifier = (*MockClassifier)(nil)
