package predict

import (
	"context"
	"fmt"
	"os"

	"github.com/HatiCode/edgegate/pkg/frame"
)

// FirmwarePredictor reproduces the on-device reference classifier: it sums
// the preprocessed frame together with the size of the deployed model
// artifact and derives label and score from that accumulator.
type FirmwarePredictor struct {
	modelLen uint32
	frame    frame.Frame
}

// NewFirmwarePredictor reads the size of the model artifact at modelPath.
func NewFirmwarePredictor(modelPath string) (*FirmwarePredictor, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat model artifact: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("model artifact %q is a directory", modelPath)
	}

	return &FirmwarePredictor{
		modelLen: uint32(info.Size()),
		frame:    frame.Synthetic(),
	}, nil
}

func (p *FirmwarePredictor) Name() string {
	return "firmware"
}

func (p *FirmwarePredictor) Predict(ctx context.Context, sample string) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, &InferenceError{Predictor: p.Name(), Err: err}
	}

	acc := p.frame.Sum() + p.modelLen
	return Prediction{
		Label: int(acc % NumLabels),
		Score: float64(acc%100) / 100,
	}, nil
}
