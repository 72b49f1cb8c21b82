// SPDX-License-Identifier: Apache-2.0

// Package tracepipe provides a small pipeline framework for
// transforming trace and profiling data: named, independently testable
// stages, each declaring an input and an output type, chained so the
// output of one feeds the input of the next.
//
// # Core Concepts
//
// [Stage] is the fundamental building block: an immutable descriptor
// with a human-readable name, a declared input [Type], a declared
// output [Type], and an executable unit of work. The work unit receives
// the upstream value and a [Continuation], which it must resolve
// exactly once with its result (or a fault) once its work — including
// any side effect such as a file write — is durably complete.
//
// Types form a small closed structural algebra: [Unit], [Text],
// [Bytes], [Data], plus [ListOf], [MapOf], [TupleOf] composites and
// [NewVar] type variables for polymorphic pass-through stages.
// [Compatible] decides whether a producer's output may feed a
// consumer's input; a variable unifies with anything for the duration
// of that one check.
//
// [Run] drives a pipeline: it checks every adjacent pair with
// [Compatible] before anything executes, failing with a
// [*CompositionError] on a mismatch, then seeds the chain with the Unit
// value and hands each stage's result to the next, strictly one stage
// at a time. A stage fault aborts the run as a [*StageError].
//
// # Stage Factories
//
// The package ships a catalog of preconfigured stages: file readers
// ([FromJSONFile], [FromRawFile], [FromTextFile]), literal sources
// ([Literal]), directory listing ([ListFiles]), a multi-layer gzip
// [Decompress] transform, trace transforms ([FilterTrace], [BuildTree],
// [SplitByProcess], [SplitByThread]), renderers ([PrettyPrint],
// [RenderHTML]), and pass-through sinks ([FileOutput], [ToFile],
// [TaggedFiles], [ConsoleOutput], [TaggedConsoleOutput]). Configurable
// factories take an [Options] map merged over their defaults.
//
// Example:
//
//	result, err := tracepipe.Run(ctx,
//	    tracepipe.FromRawFile("trace.json.gz"),
//	    tracepipe.Decompress(),
//	    tracepipe.ParseJSON(),
//	    tracepipe.FilterTrace(tracepipe.Options{"process": 42}),
//	    tracepipe.BuildTree(),
//	    tracepipe.PrettyPrint(nil),
//	    tracepipe.FileOutput("report.txt"),
//	)
//
// # Configuration-Driven Pipelines
//
// [Build] resolves a declarative definition (a list of [StageSpec]
// entries, typically loaded from YAML) against the factory catalog, so
// pipelines can be assembled without code. The tracepipe command in
// cmd/tracepipe does exactly that.
//
// # Observability
//
// Wrap any stage with [Logged] to emit structured start/finish records
// via the [log/slog] logger carried in the context ([WithSlogger]), and
// with [Recovered] to convert impl panics into ordinary stage faults.
//
// # Requirements
//
// Tracepipe requires Go 1.24 or later.
package tracepipe
