// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

// ==== Test Helpers: Error Validators ====

func isNil(err error) error {
	if err != nil {
		return fmt.Errorf("expected nil error, got %v", err)
	}
	return nil
}

func matches(target error) func(error) error {
	return func(err error) error {
		if !errors.Is(err, target) {
			return fmt.Errorf("expected error %v, got %v", target, err)
		}
		return nil
	}
}

func isComposition(err error) error {
	var ce *CompositionError
	if !errors.As(err, &ce) {
		return fmt.Errorf("expected CompositionError, got %v", err)
	}
	return nil
}

var errBoom = errors.New("boom")

// ==== Test Helpers: Counting Stages ====

// countingStage returns a pass-through stage that counts invocations.
func countingStage(name string, in, out Type, calls *atomic.Int64) Stage {
	return StageFunc(name, in, out, func(_ context.Context, v any) (any, error) {
		calls.Add(1)
		return v, nil
	})
}

// faultingStage returns a stage that always faults with errBoom.
func faultingStage(name string, in, out Type) Stage {
	return StageFunc(name, in, out, func(_ context.Context, _ any) (any, error) {
		return nil, errBoom
	})
}

// ==== Test Helpers: Compression ====

// gzipped wraps data in a single gzip layer.
func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// runStage drives a single stage directly and returns its result.
func runStage(t *testing.T, s Stage, in any) (any, error) {
	t.Helper()
	return Run(context.Background(), Literal(in, s.Input()), s)
}

// sampleRecords is a small two-process trace used across tests.
var sampleRecords = []any{
	map[string]any{"name": "parse", "ph": "B", "pid": 1.0, "tid": 1.0, "ts": 0.0},
	map[string]any{"name": "tokenize", "ph": "B", "pid": 1.0, "tid": 1.0, "ts": 100.0},
	map[string]any{"name": "tokenize", "ph": "E", "pid": 1.0, "tid": 1.0, "ts": 900.0},
	map[string]any{"name": "parse", "ph": "E", "pid": 1.0, "tid": 1.0, "ts": 1200.0},
	map[string]any{"name": "render", "ph": "X", "pid": 1.0, "tid": 2.0, "ts": 1300.0, "dur": 300.0},
	map[string]any{"name": "gc", "ph": "X", "pid": 2.0, "tid": 7.0, "ts": 400.0, "dur": 50.0},
}
