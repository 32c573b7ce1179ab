//go:build !onnx

package classifier

import "fmt"

// InitRuntime is a stub for builds without ONNX support.
func InitRuntime(libraryPath string) error {
	return fmt.Errorf("ONNX support is not enabled. Rebuild with '-tags onnx' and ensure ONNX Runtime is installed")
}

// DestroyRuntime is a stub for builds without ONNX support.
func DestroyRuntime() error {
	return nil
}

// ONNXClassifier is a stub implementation when built without the 'onnx'
// build tag.
type ONNXClassifier struct{}

// NewONNXClassifier returns an error indicating that ONNX support is not
// built in.
func NewONNXClassifier(cfg Config) (*ONNXClassifier, error) {
	return nil, fmt.Errorf("ONNX support is not enabled. Rebuild with '-tags onnx' and ensure ONNX Runtime is installed")
}

// Infer returns an error for the stub implementation.
func (c *ONNXClassifier) Infer(samples []float32) ([]float32, error) {
	return nil, fmt.Errorf("ONNX support is not enabled")
}

// InputLength returns zero for the stub implementation.
func (c *ONNXClassifier) InputLength() int { return 0 }

// NumClasses returns zero for the stub implementation.
func (c *ONNXClassifier) NumClasses() int { return 0 }

// Destroy is a no-op for the stub implementation.
func (c *ONNXClassifier) Destroy() error { return nil }
