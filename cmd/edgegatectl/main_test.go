package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HatiCode/edgegate/pkg/gateway"
	"github.com/HatiCode/edgegate/pkg/history"
	"github.com/HatiCode/edgegate/pkg/predict"
)

func newTestGateway(t *testing.T) string {
	t.Helper()
	store, err := history.New(history.DefaultCapacity)
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	gw := gateway.New(gateway.Options{
		History:   store,
		Predictor: predict.NewRandomPredictor(rand.NewPCG(1, 2)),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRootCommand_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Errorf("run(nil) exit code = %d, want 0", code)
	}
	if stdout.Len() == 0 {
		t.Error("expected help output on stdout")
	}
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"nonexistent"}, &stdout, &stderr); code != 1 {
		t.Errorf("run(nonexistent) exit code = %d, want 1", code)
	}
}

func TestSubcommandRegistration(t *testing.T) {
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)

	for _, name := range []string{"health", "history", "infer"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not found on root command", name)
		}
	}
}

func TestInvalidOutputFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"health", "--output", "yaml"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "invalid --output") {
		t.Errorf("stderr = %q, want invalid --output message", stderr.String())
	}
}

func TestHealthCommand(t *testing.T) {
	url := newTestGateway(t)

	tests := []struct {
		name   string
		output string
	}{
		{"text", "text"},
		{"json", "json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{"health", "--url", url, "-o", tt.output}, &stdout, &stderr)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
			}
			if tt.output == "json" {
				var status gateway.HealthStatus
				if err := json.Unmarshal(stdout.Bytes(), &status); err != nil {
					t.Fatalf("invalid JSON output: %v", err)
				}
				if status.Status != "ok" {
					t.Errorf("Status = %q, want ok", status.Status)
				}
				return
			}
			if !strings.Contains(stdout.String(), "ok") {
				t.Errorf("stdout = %q, want status", stdout.String())
			}
		})
	}
}

func TestInferThenHistory(t *testing.T) {
	url := newTestGateway(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"infer", "--url", url, "--sample", "frame-7", "-o", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("infer exit code = %d, stderr = %s", code, stderr.String())
	}
	var rec history.Record
	if err := json.Unmarshal(stdout.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if rec.Sample != "frame-7" {
		t.Errorf("Sample = %q, want frame-7", rec.Sample)
	}

	stdout.Reset()
	if code := run([]string{"history", "--url", url}, &stdout, &stderr); code != 0 {
		t.Fatalf("history exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "frame-7") {
		t.Errorf("history output = %q, want frame-7", stdout.String())
	}
}

func TestHistoryCommand_Empty(t *testing.T) {
	url := newTestGateway(t)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"history", "--url", url}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "no inferences yet") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestCommand_Unreachable(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"health", "--url", "http://127.0.0.1:1", "--timeout", "500ms"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "health:") {
		t.Errorf("stderr = %q, want health error", stderr.String())
	}
}
