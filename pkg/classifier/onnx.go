//go:build onnx

package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// runtimeInitialized tracks whether the shared ONNX runtime has been set up.
var (
	runtimeInitialized bool
	runtimeMu          sync.Mutex
)

// InitRuntime initializes the shared ONNX runtime environment. libraryPath
// may be empty to probe common install locations. Repeated calls are no-ops;
// this should run once at application startup before any classifier is
// created.
func InitRuntime(libraryPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeInitialized {
		return nil
	}

	if libraryPath == "" {
		libraryPath = findRuntimeLibrary()
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	runtimeInitialized = true
	return nil
}

// DestroyRuntime tears down the shared runtime at application shutdown.
func DestroyRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !runtimeInitialized {
		return nil
	}
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("failed to destroy ONNX runtime: %w", err)
	}
	runtimeInitialized = false
	return nil
}

// findRuntimeLibrary probes the usual locations for libonnxruntime.
func findRuntimeLibrary() string {
	paths := []string{
		os.Getenv("ONNXRUNTIME_LIB"),
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/onnxruntime/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}
	if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
		for _, dir := range filepath.SplitList(ldPath) {
			paths = append(paths, filepath.Join(dir, "libonnxruntime.so"))
		}
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ONNXClassifier scores audio frames with an ONNX model. The input tensor is
// packaged as [1, N] or [N] depending on the rank the model declares; when a
// model exposes several outputs (scores, embedding, patch count) only the
// first output is consumed as class scores.
type ONNXClassifier struct {
	session *ort.DynamicAdvancedSession

	cfg Config

	inputLen   int
	numClasses int
	inputRank  int

	inputNames  []string
	outputNames []string
}

// NewONNXClassifier loads the model at cfg.ModelPath and resolves its input
// frame size and class count from the declared tensor shapes.
func NewONNXClassifier(cfg Config) (*ONNXClassifier, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("invalid config: ModelPath should not be empty")
	}

	runtimeMu.Lock()
	initialized := runtimeInitialized
	runtimeMu.Unlock()
	if !initialized {
		if err := InitRuntime(""); err != nil {
			return nil, fmt.Errorf("ONNX runtime not initialized: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model metadata: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model declares no inputs or outputs")
	}

	c := &ONNXClassifier{cfg: cfg}
	for _, in := range inputs {
		c.inputNames = append(c.inputNames, in.Name)
	}
	for _, out := range outputs {
		c.outputNames = append(c.outputNames, out.Name)
	}

	// Frame size and packaging rank come from the declared input shape.
	inDims := inputs[0].Dimensions
	c.inputRank = len(inDims)
	if c.inputRank != 1 && c.inputRank != 2 {
		return nil, fmt.Errorf("unsupported input rank %d, want [N] or [1, N]", c.inputRank)
	}
	if n := inDims[len(inDims)-1]; n > 0 {
		c.inputLen = int(n)
	} else if cfg.InputLength > 0 {
		c.inputLen = cfg.InputLength
	} else {
		return nil, fmt.Errorf("model input length is dynamic and no InputLength configured")
	}

	// Class count comes from the score output's last dimension.
	outDims := outputs[0].Dimensions
	if n := outDims[len(outDims)-1]; n > 0 {
		c.numClasses = int(n)
	} else if cfg.NumClasses > 0 {
		c.numClasses = cfg.NumClasses
	} else {
		return nil, fmt.Errorf("model class count is dynamic and no NumClasses configured")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("failed to set graph optimization level: %w", err)
	}
	if err := options.SetIntraOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
	}
	if err := options.SetInterOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("failed to set inter-op threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, c.inputNames, c.outputNames, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	c.session = session

	return c, nil
}

// InputLength implements Classifier.
func (c *ONNXClassifier) InputLength() int { return c.inputLen }

// NumClasses implements Classifier.
func (c *ONNXClassifier) NumClasses() int { return c.numClasses }

// Infer implements Classifier. When the score output carries several rows
// (one per model-internal patch) they are averaged into a single vector so
// callers always see exactly one score per class.
func (c *ONNXClassifier) Infer(samples []float32) ([]float32, error) {
	if c == nil || c.session == nil {
		return nil, fmt.Errorf("invalid nil classifier")
	}

	var shape ort.Shape
	if c.inputRank == 2 {
		shape = ort.NewShape(1, int64(len(samples)))
	} else {
		shape = ort.NewShape(int64(len(samples)))
	}
	inputTensor, err := ort.NewTensor(shape, samples)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	// Let the runtime allocate outputs; auxiliary outputs beyond the
	// class scores are discarded.
	outputs := make([]ort.Value, len(c.outputNames))
	if err := c.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("failed to run inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	scoreTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("score output is not a float32 tensor")
	}
	data := scoreTensor.GetData()
	if len(data) == 0 {
		return nil, fmt.Errorf("empty output from inference")
	}

	rows := len(data) / c.numClasses
	if rows <= 1 {
		scores := make([]float32, len(data))
		copy(scores, data)
		return scores, nil
	}

	scores := make([]float32, c.numClasses)
	for r := 0; r < rows; r++ {
		for i := 0; i < c.numClasses; i++ {
			scores[i] += data[r*c.numClasses+i]
		}
	}
	for i := range scores {
		scores[i] /= float32(rows)
	}
	return scores, nil
}

// Destroy implements Classifier.
func (c *ONNXClassifier) Destroy() error {
	if c == nil {
		return fmt.Errorf("invalid nil classifier")
	}
	if c.session != nil {
		if err := c.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
		c.session = nil
	}
	return nil
}

// Ensure ONNXClassifier implements Classifier at compile time.
var _ Classifier = (*ONNXClassifier)(nil)
