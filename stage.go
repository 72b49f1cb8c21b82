// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"fmt"
)

// A Continuation hands a stage's result to the executor.
//
// A stage implementation must invoke its continuation exactly once,
// and only after its work — including any external side effect such as
// a file write — is durably complete. Pass the produced value and a nil
// error on success, or a non-nil error to abort the whole run.
type Continuation func(out any, err error)

// An Impl is the executable unit of work inside a [Stage].
//
// It receives the upstream stage's output and a continuation. The impl
// may resolve the continuation before returning (synchronous work) or
// from another goroutine later (asynchronous work); the executor treats
// both the same. The context is the one passed to [Run]; an impl that
// wants cancellation or timeouts must honor it itself, the executor
// imposes neither.
type Impl = func(ctx context.Context, in any, done Continuation)

// A Stage is a named, typed, single-step data transformation.
//
// Stages are immutable once constructed. A factory may close over
// configuration (a filename, a filter id) baked into the impl at
// construction time. The name is a human-readable label used for
// logging and error messages only, never for dispatch.
type Stage struct {
	name string
	in   Type
	out  Type
	impl Impl
}

// New constructs a stage from a raw continuation-passing impl.
//
// Most factories lift a plain function with [StageFunc] or [TypedStage]
// instead; New is for impls that resolve their continuation from a
// different goroutine.
func New(name string, in, out Type, impl Impl) Stage {
	return Stage{name: name, in: in, out: out, impl: impl}
}

// StageFunc lifts a synchronous function into a stage.
//
// The returned stage resolves its continuation before the impl returns.
func StageFunc(name string, in, out Type, fn func(context.Context, any) (any, error)) Stage {
	return New(name, in, out, func(ctx context.Context, in any, done Continuation) {
		done(fn(ctx, in))
	})
}

// TypedStage lifts a synchronous function with concrete parameter types
// into a stage, asserting the runtime input type.
//
// An input value that is not an In is a stage fault. This keeps the
// type assertion boilerplate out of factory bodies while preserving the
// untyped stage contract the executor works with.
func TypedStage[In, Out any](name string, in, out Type, fn func(context.Context, In) (Out, error)) Stage {
	return StageFunc(name, in, out, func(ctx context.Context, v any) (any, error) {
		typed, ok := v.(In)
		if !ok {
			return nil, fmt.Errorf("%s: expected %T input, got %T", name, typed, v)
		}
		return fn(ctx, typed)
	})
}

// Name returns the stage's human-readable label.
func (s Stage) Name() string {
	return s.name
}

// Input returns the stage's declared input type.
func (s Stage) Input() Type {
	return s.in
}

// Output returns the stage's declared output type.
func (s Stage) Output() Type {
	return s.out
}
