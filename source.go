// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Source stages produce a pipeline's initial values. Each declares the
// Unit input type, so a source composes only at the head of a chain
// (or after a stage whose output is a type variable).

// FromJSONFile returns a stage that reads the file at path and decodes
// it as JSON into structured data.
func FromJSONFile(path string) Stage {
	return StageFunc("reader: "+path, Unit, Data, func(_ context.Context, _ any) (any, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return data, nil
	})
}

// FromRawFile returns a stage that reads the file at path as an
// undecoded byte buffer.
func FromRawFile(path string) Stage {
	return StageFunc("reader: "+path, Unit, Bytes, func(_ context.Context, _ any) (any, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return raw, nil
	})
}

// FromTextFile returns a stage that reads the file at path and decodes
// it as text.
func FromTextFile(path string) Stage {
	return StageFunc("reader: "+path, Unit, Text, func(_ context.Context, _ any) (any, error) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return string(raw), nil
	})
}

// Literal returns a stage that produces a fixed value of the declared
// type, ignoring its input. It is the source analogue of lifting a
// constant into a pipeline.
func Literal(value any, t Type) Stage {
	return StageFunc(fmt.Sprintf("literal: %v", value), Unit, t, func(_ context.Context, _ any) (any, error) {
		return value, nil
	})
}

// ListFiles returns a stage that lists directory entries matching a
// pattern of the form "<directory>/<filename-regex>".
//
// The text after the last slash is a regular expression that must match
// the entire entry name; everything before it is the directory to list,
// or the current directory when the pattern has no slash. Matching
// paths are returned directory-prefixed, in directory order. The
// listing is synchronous and does not suspend.
func ListFiles(pattern string) Stage {
	return StageFunc("glob: "+pattern, Unit, ListOf(Text), func(_ context.Context, _ any) (any, error) {
		dir, expr := "", pattern
		if i := strings.LastIndex(pattern, "/"); i >= 0 {
			dir, expr = pattern[:i], pattern[i+1:]
		}
		re, err := regexp.Compile("^" + expr + "$")
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		listDir := dir
		if listDir == "" {
			listDir = "."
		}
		entries, err := os.ReadDir(listDir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", listDir, err)
		}
		var matches []string
		for _, entry := range entries {
			if re.MatchString(entry.Name()) {
				matches = append(matches, filepath.Join(dir, entry.Name()))
			}
		}
		return matches, nil
	})
}
