// Package config provides configuration parsing for the gateway.
//
// Configuration is read from command-line flags with environment variables as
// fallbacks, then defaults:
//  1. Command-line flags
//  2. Environment variables
//  3. Default values
//
// Example usage:
//
//	cfg := config.ParseFlags()
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all gateway configuration.
type Config struct {
	Listen          string
	AdminListen     string
	GRPCListen      string
	HistorySize     int
	Predictor       string
	ModelPath       string
	ModelMeta       string
	ORTLibrary      string
	PredictTimeout  time.Duration
	DefaultSample   string
	NatsURL         string
	NatsSubject     string
	SentryDSN       string
	SentrySample    float64
	ShutdownTimeout time.Duration
	LogFormat       string
	LogLevel        string
}

// ParseFlags parses command-line flags and environment variables into a Config.
// Exits with status 1 if the resulting configuration is invalid.
func ParseFlags() *Config {
	cfg := &Config{}

	// Servers
	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":5000"), "API listen address")
	flag.StringVar(&cfg.AdminListen, "admin-listen", getEnv("ADMIN_LISTEN", ":9102"), "Admin listen address for /healthz, /readyz and /metrics (empty disables)")
	flag.StringVar(&cfg.GRPCListen, "grpc-listen", getEnv("GRPC_LISTEN", ""), "gRPC health service listen address (empty disables)")

	// History
	flag.IntVar(&cfg.HistorySize, "history-size", getEnvInt("HISTORY_SIZE", 10), "Number of inferences kept in history")

	// Prediction
	flag.StringVar(&cfg.Predictor, "predictor", getEnv("PREDICTOR", "random"), "Predictor: random, firmware or onnx")
	flag.StringVar(&cfg.ModelPath, "model-path", getEnv("MODEL_PATH", ""), "Path to the model artifact (firmware, onnx)")
	flag.StringVar(&cfg.ModelMeta, "model-meta", getEnv("MODEL_META", ""), "Path to the model metadata JSON (onnx)")
	flag.StringVar(&cfg.ORTLibrary, "ort-library", getEnv("ORT_LIBRARY", ""), "Path to the onnxruntime shared library (onnx)")
	flag.DurationVar(&cfg.PredictTimeout, "predict-timeout", getEnvDuration("PREDICT_TIMEOUT", 2*time.Second), "Upper bound on a single prediction (0 disables)")
	flag.StringVar(&cfg.DefaultSample, "default-sample", getEnv("DEFAULT_SAMPLE", "demo-frame"), "Sample label used when a request names none")

	// Events
	flag.StringVar(&cfg.NatsURL, "nats-url", getEnv("NATS_URL", ""), "NATS server URL for inference events (empty disables)")
	flag.StringVar(&cfg.NatsSubject, "nats-subject", getEnv("NATS_SUBJECT", "edgegate.inferences"), "NATS subject for inference events")

	// Error reporting
	flag.StringVar(&cfg.SentryDSN, "sentry-dsn", getEnv("SENTRY_DSN", ""), "Sentry DSN for panic reporting (empty disables)")
	flag.Float64Var(&cfg.SentrySample, "sentry-sample-rate", getEnvFloat("SENTRY_SAMPLE_RATE", 1.0), "Sentry event sample rate")

	// Lifecycle
	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second), "Graceful shutdown timeout")

	// Logging
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text, json or auto")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	return cfg
}

// Validate checks option combinations that flag parsing cannot.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("-listen is required")
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("-history-size must be positive, got %d", c.HistorySize)
	}
	if c.PredictTimeout < 0 {
		return fmt.Errorf("-predict-timeout must not be negative, got %v", c.PredictTimeout)
	}

	switch c.Predictor {
	case "random":
	case "firmware":
		if c.ModelPath == "" {
			return errors.New("-model-path is required for the firmware predictor")
		}
	case "onnx":
		if c.ModelPath == "" || c.ModelMeta == "" {
			return errors.New("-model-path and -model-meta are required for the onnx predictor")
		}
	default:
		return fmt.Errorf("unknown predictor %q (want random, firmware or onnx)", c.Predictor)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
