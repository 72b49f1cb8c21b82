// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Sink stages emit a value somewhere external and pass it through
// unchanged, so they may sit mid-chain as observation points, not only
// at the end. Each allocates one fresh type variable and declares it as
// both input and output: whatever type flows in is what the sink claims
// to produce. The variable binds per adjacency check only; nothing
// verifies at runtime that the value has the shape the sink assumes.

// serialize renders a value for writing: text as-is, byte buffers
// verbatim, anything else as indented JSON.
func serialize(v any) ([]byte, error) {
	switch data := v.(type) {
	case string:
		return []byte(data), nil
	case []byte:
		return data, nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		return append(out, '\n'), nil
	}
}

func writeFile(path string, v any) error {
	data, err := serialize(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// FileOutput returns a pass-through sink that writes its input to the
// configured path. A write failure is a fatal stage fault.
func FileOutput(path string) Stage {
	v := NewVar()
	return StageFunc("writer: "+path, v, v, func(_ context.Context, in any) (any, error) {
		if err := writeFile(path, in); err != nil {
			return nil, err
		}
		return in, nil
	})
}

// ToFile returns a pass-through sink that takes its target path from
// the value itself: the input is assumed to be a [Pair] whose First is
// the path text and whose Second is the payload to write.
//
// The pair shape is a construction-discipline assumption, not something
// the type algebra enforces; an input that is not such a pair is a
// stage fault at runtime.
func ToFile() Stage {
	v := NewVar()
	return StageFunc("writer: to-file", v, v, func(_ context.Context, in any) (any, error) {
		pair, ok := in.(Pair)
		if !ok {
			return nil, fmt.Errorf("expected (path, payload) pair, got %T", in)
		}
		path, ok := pair.First.(string)
		if !ok {
			return nil, fmt.Errorf("expected text path, got %T", pair.First)
		}
		if err := writeFile(path, pair.Second); err != nil {
			return nil, err
		}
		return in, nil
	})
}

// TaggedFiles returns a pass-through sink that writes each entry of a
// keyed map to its own file, named after the key.
//
// Options: "dir", the output directory (default "."), and "suffix",
// appended to each key to form the filename (default "").
//
// Entries are written concurrently; the stage's continuation fires only
// after every write has completed. Any failed write faults the stage.
func TaggedFiles(opts Options) Stage {
	merged := override(Options{"dir": ".", "suffix": ""}, opts)
	dir := stringOption(merged, "dir")
	suffix := stringOption(merged, "suffix")

	v := NewVar()
	return StageFunc("writer: tagged "+dir, v, v, func(ctx context.Context, in any) (any, error) {
		entries, ok := in.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected keyed map, got %T", in)
		}
		group, _ := errgroup.WithContext(ctx)
		for key, value := range entries {
			key, value := key, value
			group.Go(func() error {
				return writeFile(filepath.Join(dir, key+suffix), value)
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
		return in, nil
	})
}

// ConsoleOutput returns a pass-through sink that prints its input for
// human inspection.
//
// Options: "writer", an io.Writer (default os.Stdout).
func ConsoleOutput(opts Options) Stage {
	merged := override(Options{"writer": nil}, opts)
	w := writerOption(merged, "writer", os.Stdout)

	v := NewVar()
	return StageFunc("console", v, v, func(_ context.Context, in any) (any, error) {
		data, err := serialize(in)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("console write: %w", err)
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return nil, fmt.Errorf("console write: %w", err)
			}
		}
		return in, nil
	})
}

// TaggedConsoleOutput returns a pass-through sink that prints each
// entry of a keyed map: the key, a separator line, the value, then a
// blank line.
//
// Keys are printed in sorted order for stable output; the map itself is
// an unordered container and nothing may rely on its iteration order.
//
// Options: "writer", an io.Writer (default os.Stdout).
func TaggedConsoleOutput(opts Options) Stage {
	merged := override(Options{"writer": nil}, opts)
	w := writerOption(merged, "writer", os.Stdout)

	v := NewVar()
	return StageFunc("console: tagged", v, v, func(_ context.Context, in any) (any, error) {
		entries, ok := in.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected keyed map, got %T", in)
		}
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			data, err := serialize(entries[key])
			if err != nil {
				return nil, err
			}
			text := strings.TrimRight(string(data), "\n")
			if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n", key, strings.Repeat("-", len(key)), text); err != nil {
				return nil, fmt.Errorf("console write: %w", err)
			}
		}
		return in, nil
	})
}
