// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"fmt"
)

// StageError is the error returned by [Run] when a stage faults.
// It wraps the underlying error with the name of the stage that failed.
// Users can use [errors.As] to detect and inspect StageErrors.
type StageError struct {
	// Name is the name of the stage that failed.
	Name string
	// Err is the underlying error from the stage's impl.
	Err error
}

// Error returns the formatted error message.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// CompositionError is returned by [Validate] (and by [Run] before
// anything executes) when two adjacent stages have structurally
// incompatible types. It is always fatal to that pipeline assembly.
type CompositionError struct {
	// Index is the position of the producing stage in the pipeline.
	Index int
	// ProducerName and ConsumerName identify the offending pair.
	ProducerName string
	ConsumerName string
	// Producer is the producing stage's declared output type.
	Producer Type
	// Consumer is the consuming stage's declared input type.
	Consumer Type
}

// Error returns the formatted error message.
func (e *CompositionError) Error() string {
	return fmt.Sprintf("stage %d %q output %s is incompatible with stage %q input %s",
		e.Index, e.ProducerName, e.Producer, e.ConsumerName, e.Consumer)
}

// RecoveredPanic is an error type that wraps a panic value.
type RecoveredPanic struct {
	Value any
}

func (p *RecoveredPanic) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.Value)
}

// Recovered wraps a stage to recover from panics in its impl and
// convert them to stage faults.
//
// If the impl panics before resolving its continuation, the panic value
// is wrapped in a [RecoveredPanic] error and the continuation is
// resolved with it. This is useful for defensive composition when a
// stage wraps code that may panic.
//
// Panics raised on goroutines the impl spawns itself are out of reach;
// asynchronous impls must do their own recovery.
func Recovered(s Stage) Stage {
	return New(s.name, s.in, s.out, func(ctx context.Context, in any, done Continuation) {
		defer func() {
			if r := recover(); r != nil {
				done(nil, &RecoveredPanic{Value: r})
			}
		}()
		s.impl(ctx, in, done)
	})
}
