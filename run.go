// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"sync"
)

// Validate checks every adjacent pair of stages for type compatibility.
//
// For each pair (stages[i], stages[i+1]) the producer's declared output
// type must be [Compatible] with the consumer's declared input type.
// The first incompatible pair is reported as a [*CompositionError];
// nothing is executed.
func Validate(stages ...Stage) error {
	for i := 0; i+1 < len(stages); i++ {
		producer, consumer := stages[i], stages[i+1]
		if !Compatible(producer.out, consumer.in) {
			return &CompositionError{
				Index:        i,
				ProducerName: producer.name,
				ConsumerName: consumer.name,
				Producer:     producer.out,
				Consumer:     consumer.in,
			}
		}
	}
	return nil
}

// outcome carries a stage's continuation result back to the executor.
type outcome struct {
	value any
	err   error
}

// Run validates and executes a pipeline of stages in order.
//
// Execution is strictly sequential, continuation-driven: the pipeline
// is seeded with the Unit value (nil), and each stage's impl is invoked
// with the previous stage's output. Run then suspends until the stage
// resolves its continuation; the resolved value becomes the next
// stage's input. The final stage's value is returned, though terminal
// sinks have usually already produced their externally visible effect.
//
// Exactly one stage is active at a time. A stage may resolve its
// continuation synchronously or from another goroutine; either way the
// first resolution wins and any later calls are dropped. Run provides
// no timeout and no retry: a stage that never resolves stalls the run
// indefinitely, and a stage fault aborts the run immediately, wrapped
// in a [*StageError].
//
// Incompatible adjacent stage types are reported as a
// [*CompositionError] before any impl runs.
func Run(ctx context.Context, stages ...Stage) (any, error) {
	if err := Validate(stages...); err != nil {
		return nil, err
	}

	var current any
	for _, stage := range stages {
		results := make(chan outcome, 1)
		var once sync.Once
		stage.impl(ctx, current, func(out any, err error) {
			once.Do(func() {
				results <- outcome{value: out, err: err}
			})
		})

		result := <-results
		if result.err != nil {
			return nil, &StageError{Name: stage.name, Err: result.err}
		}
		current = result.value
	}
	return current, nil
}
