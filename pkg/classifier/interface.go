// Package classifier abstracts the pretrained audio model behind a small
// inference capability so alternate backends can be substituted without
// touching the analysis pipeline. The bundled backend runs ONNX models via
// onnxruntime_go and is only compiled with the 'onnx' build tag.
package classifier

// Classifier runs one fixed-size audio frame through a pretrained model and
// returns its class scores. Implementations are synchronous, deterministic
// and stateless across calls: no memory of previous frames is kept, so
// frames may be scored back to back for independent recordings.
type Classifier interface {
	// Infer scores one frame of normalized float32 samples in [-1, 1].
	// The returned slice holds one score per class index, aligned with
	// the model's label table.
	Infer(samples []float32) ([]float32, error)

	// InputLength returns the frame size the model expects, in samples.
	InputLength() int

	// NumClasses returns the length of the score vector.
	NumClasses() int

	// Destroy releases backend resources. The classifier must not be
	// used afterwards.
	Destroy() error
}

// Config holds configuration for the ONNX backend.
type Config struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string

	// InputLength overrides the frame size when the model declares a
	// dynamic input dimension. Ignored when the model's input shape is
	// fully specified.
	InputLength int

	// NumClasses overrides the class count when the model declares a
	// dynamic output dimension.
	NumClasses int
}
