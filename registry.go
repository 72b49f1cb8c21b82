// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"fmt"
	"strings"
)

// A StageSpec is one entry of a declarative pipeline definition, as
// loaded from a configuration file: a factory kind plus its options.
type StageSpec struct {
	Kind    string  `koanf:"kind"`
	Options Options `koanf:"options"`
}

// factories maps spec kinds to their constructors. Factories that take
// a single positional argument read it from a well-known option key.
var factories = map[string]func(StageSpec) (Stage, error){
	"read-json": func(s StageSpec) (Stage, error) {
		return FromJSONFile(stringOption(s.Options, "path")), nil
	},
	"read-raw": func(s StageSpec) (Stage, error) {
		return FromRawFile(stringOption(s.Options, "path")), nil
	},
	"read-text": func(s StageSpec) (Stage, error) {
		return FromTextFile(stringOption(s.Options, "path")), nil
	},
	"literal": func(s StageSpec) (Stage, error) {
		t, err := ParseType(stringOption(s.Options, "type"))
		if err != nil {
			return Stage{}, err
		}
		return Literal(s.Options["value"], t), nil
	},
	"list-files": func(s StageSpec) (Stage, error) {
		return ListFiles(stringOption(s.Options, "pattern")), nil
	},
	"decompress": func(StageSpec) (Stage, error) { return Decompress(), nil },
	"parse-json": func(StageSpec) (Stage, error) { return ParseJSON(), nil },
	"filter": func(s StageSpec) (Stage, error) {
		return FilterTrace(s.Options), nil
	},
	"tree": func(StageSpec) (Stage, error) { return BuildTree(), nil },
	"split-process": func(StageSpec) (Stage, error) { return SplitByProcess(), nil },
	"split-thread":  func(StageSpec) (Stage, error) { return SplitByThread(), nil },
	"pretty": func(s StageSpec) (Stage, error) {
		return PrettyPrint(s.Options), nil
	},
	"render-html": func(s StageSpec) (Stage, error) {
		return RenderHTML(s.Options), nil
	},
	"write-file": func(s StageSpec) (Stage, error) {
		return FileOutput(stringOption(s.Options, "path")), nil
	},
	"write-pair":   func(StageSpec) (Stage, error) { return ToFile(), nil },
	"write-tagged": func(s StageSpec) (Stage, error) { return TaggedFiles(s.Options), nil },
	"console":      func(s StageSpec) (Stage, error) { return ConsoleOutput(s.Options), nil },
	"console-tagged": func(s StageSpec) (Stage, error) {
		return TaggedConsoleOutput(s.Options), nil
	},
}

// Build resolves a declarative pipeline definition into stages, ready
// for [Validate] and [Run].
//
// An unknown kind or a malformed spec is a build error; nothing is
// validated or executed.
func Build(specs []StageSpec) ([]Stage, error) {
	stages := make([]Stage, 0, len(specs))
	for i, spec := range specs {
		factory, ok := factories[spec.Kind]
		if !ok {
			return nil, fmt.Errorf("stage %d: unknown kind %q", i, spec.Kind)
		}
		stage, err := factory(spec)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%s): %w", i, spec.Kind, err)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// ParseType parses a type expression as used in pipeline definitions:
// the leaf names "unit", "text", "bytes", "data", the composites
// "list(T)", "map(T)", "tuple(A, B)", and "var", which allocates a
// fresh type variable.
func ParseType(expr string) (Type, error) {
	expr = strings.TrimSpace(expr)
	switch expr {
	case "unit":
		return Unit, nil
	case "text":
		return Text, nil
	case "bytes":
		return Bytes, nil
	case "data":
		return Data, nil
	case "var":
		return NewVar(), nil
	}
	open := strings.Index(expr, "(")
	if open < 0 || !strings.HasSuffix(expr, ")") {
		return Type{}, fmt.Errorf("invalid type expression %q", expr)
	}
	head, body := expr[:open], expr[open+1:len(expr)-1]
	switch head {
	case "list", "map":
		elem, err := ParseType(body)
		if err != nil {
			return Type{}, err
		}
		if head == "list" {
			return ListOf(elem), nil
		}
		return MapOf(elem), nil
	case "tuple":
		first, second, err := splitTuple(body)
		if err != nil {
			return Type{}, fmt.Errorf("invalid type expression %q: %w", expr, err)
		}
		a, err := ParseType(first)
		if err != nil {
			return Type{}, err
		}
		b, err := ParseType(second)
		if err != nil {
			return Type{}, err
		}
		return TupleOf(a, b), nil
	default:
		return Type{}, fmt.Errorf("invalid type expression %q", expr)
	}
}

// splitTuple splits "A, B" at the top-level comma, respecting nested
// parentheses.
func splitTuple(body string) (string, string, error) {
	depth := 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return body[:i], body[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("expected two components, got %q", body)
}
