package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/HatiCode/edgegate/pkg/frame"
)

// ModelMetadata describes the exported model's tensors and label set.
type ModelMetadata struct {
	InputShape   []int64  `json:"input_shape"`
	OutputShape  []int64  `json:"output_shape"`
	Classes      []string `json:"classes"`
	ImageSize    int      `json:"image_size"`
	InputName    string   `json:"input_name"`
	OutputName   string   `json:"output_name"`
	ApplySoftmax bool     `json:"apply_softmax"`
}

// LoadMetadata reads and validates a metadata JSON file.
func LoadMetadata(path string) (ModelMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ModelMetadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta ModelMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ModelMetadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	if len(meta.InputShape) == 0 || len(meta.OutputShape) == 0 {
		return ModelMetadata{}, fmt.Errorf("metadata must declare input_shape and output_shape")
	}
	if meta.ImageSize <= 0 {
		meta.ImageSize = frame.Width
	}
	if meta.InputName == "" {
		meta.InputName = "input"
	}
	if meta.OutputName == "" {
		meta.OutputName = "output"
	}

	pixels := int64(meta.ImageSize * meta.ImageSize)
	if n := elements(meta.InputShape); n%pixels != 0 {
		return ModelMetadata{}, fmt.Errorf("input_shape %v does not hold whole %dx%d frames", meta.InputShape, meta.ImageSize, meta.ImageSize)
	}

	return meta, nil
}

func elements(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

// ONNXPredictor runs an ONNX classifier over the preprocessed frame.
// Calls are serialized because the session reuses its tensors.
type ONNXPredictor struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	meta         ModelMetadata
	input        []float32
}

// NewONNXPredictor loads the model at modelPath described by metadataPath.
// libraryPath optionally points at the onnxruntime shared library.
func NewONNXPredictor(modelPath, metadataPath, libraryPath string) (*ONNXPredictor, error) {
	meta, err := LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXPredictor{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		meta:         meta,
		input:        BuildInput(frame.Synthetic(), meta),
	}, nil
}

func (p *ONNXPredictor) Name() string {
	return "onnx"
}

// Metadata returns the loaded model metadata.
func (p *ONNXPredictor) Metadata() ModelMetadata {
	return p.meta
}

func (p *ONNXPredictor) Predict(ctx context.Context, sample string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, &InferenceError{Predictor: p.Name(), Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	copy(p.inputTensor.GetData(), p.input)
	if err := p.session.Run(); err != nil {
		return Prediction{}, &InferenceError{Predictor: p.Name(), Err: err}
	}

	return Decode(p.outputTensor.GetData(), p.meta)
}

// Close releases the session and its tensors.
func (p *ONNXPredictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inputTensor != nil {
		p.inputTensor.Destroy()
	}
	if p.outputTensor != nil {
		p.outputTensor.Destroy()
	}
	if p.session != nil {
		p.session.Destroy()
	}
	return ort.DestroyEnvironment()
}

// BuildInput resizes f to the model's image size and lays it out channel-planar,
// repeating the grayscale plane for every channel the input shape declares.
func BuildInput(f frame.Frame, meta ModelMetadata) []float32 {
	plane := f.Resize(meta.ImageSize).Normalize()
	total := elements(meta.InputShape)

	out := make([]float32, total)
	for i := int64(0); i < total; i += int64(len(plane)) {
		copy(out[i:], plane)
	}
	return out
}

// Decode picks the highest-scoring class from raw model output.
func Decode(output []float32, meta ModelMetadata) (Prediction, error) {
	n := len(output)
	if len(meta.Classes) > 0 && len(meta.Classes) < n {
		n = len(meta.Classes)
	}
	if n == 0 {
		return Prediction{}, &InferenceError{Predictor: "onnx", Err: fmt.Errorf("model produced no outputs")}
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = float64(output[i])
	}
	if meta.ApplySoftmax {
		softmax(scores)
	}

	best := 0
	for i := 1; i < n; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	return Prediction{Label: best, Score: roundScore(scores[best])}, nil
}

func softmax(v []float64) {
	maxV := v[0]
	for _, x := range v[1:] {
		maxV = math.Max(maxV, x)
	}
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - maxV)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}
