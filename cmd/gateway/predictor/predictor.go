// Package predictor builds the gateway's Predictor from configuration.
//
// Supported predictors:
//
//   - "random": the development stub. Uniform label in {0,1,2} and score in [0,1).
//
//   - "firmware": the on-device reference algorithm, keyed on the size of the
//     deployed model artifact at cfg.ModelPath.
//
//   - "onnx": an ONNX model at cfg.ModelPath described by cfg.ModelMeta,
//     executed with onnxruntime.
//
// Every predictor is wrapped with cfg.PredictTimeout.
package predictor

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/HatiCode/edgegate/cmd/gateway/config"
	"github.com/HatiCode/edgegate/pkg/predict"
)

// New creates the configured predictor. The returned io.Closer releases model
// resources and is never nil.
func New(cfg *config.Config, logger *slog.Logger) (predict.Predictor, io.Closer, error) {
	var (
		p      predict.Predictor
		closer io.Closer = nopCloser{}
	)

	switch cfg.Predictor {
	case "random":
		logger.Info("initializing random predictor")
		p = predict.NewRandomPredictor(nil)

	case "firmware":
		logger.Info("initializing firmware predictor", "model_path", cfg.ModelPath)
		fp, err := predict.NewFirmwarePredictor(cfg.ModelPath)
		if err != nil {
			return nil, nil, err
		}
		p = fp

	case "onnx":
		logger.Info("initializing onnx predictor",
			"model_path", cfg.ModelPath,
			"model_meta", cfg.ModelMeta,
		)
		op, err := predict.NewONNXPredictor(cfg.ModelPath, cfg.ModelMeta, cfg.ORTLibrary)
		if err != nil {
			return nil, nil, err
		}
		meta := op.Metadata()
		logger.Info("onnx model loaded",
			"classes", meta.Classes,
			"input_shape", meta.InputShape,
			"image_size", meta.ImageSize,
		)
		p, closer = op, op

	default:
		return nil, nil, fmt.Errorf("invalid predictor type %q", cfg.Predictor)
	}

	return predict.WithTimeout(p, cfg.PredictTimeout), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
