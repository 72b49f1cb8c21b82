// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromJSONFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "data.json", []byte(`[{"name":"gc","pid":1}]`))

	result, err := Run(context.Background(), FromJSONFile(path))
	if err != nil {
		t.Fatal(err)
	}
	records, ok := result.([]any)
	if !ok || len(records) != 1 {
		t.Fatalf("result = %#v, want a one-element []any", result)
	}
	obj := records[0].(map[string]any)
	if obj["name"] != "gc" {
		t.Errorf("decoded name = %v, want gc", obj["name"])
	}
}

func TestFromTextAndRawFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "note.txt", []byte("hello"))

	text, err := Run(context.Background(), FromTextFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Errorf("FromTextFile = %q, want hello", text)
	}

	raw, err := Run(context.Background(), FromRawFile(path))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw.([]byte)) != "hello" {
		t.Errorf("FromRawFile = %q, want hello", raw)
	}
}

func TestReadMissingFileIsFatal(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), FromTextFile(filepath.Join(t.TempDir(), "absent")))
	if err == nil {
		t.Fatal("expected a fault for a missing file")
	}
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("fault should wrap the underlying I/O error, got %v", err)
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	s := Literal("X", Text)
	if !s.Input().Equal(Unit) || !s.Output().Equal(Text) {
		t.Errorf("Literal declares %s -> %s, want unit -> text", s.Input(), s.Output())
	}
	result, err := Run(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if result != "X" {
		t.Errorf("Literal result = %v, want X", result)
	}
}

func TestListFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	for _, name := range []string{"a.json", "a.log", "b.json"} {
		writeTestFile(t, dir, name, nil)
	}

	testCases := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "ExactName",
			pattern: dir + `/a\.json`,
			want:    []string{filepath.Join(dir, "a.json")},
		},
		{
			name:    "SuffixClass",
			pattern: dir + `/.*\.json`,
			want:    []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")},
		},
		{
			name:    "FullMatchOnly",
			pattern: dir + `/a`,
			want:    nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result, err := Run(context.Background(), ListFiles(tc.pattern))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(result, any(tc.want)) {
				t.Errorf("ListFiles(%q) = %v, want %v", tc.pattern, result, tc.want)
			}
		})
	}
}

func TestListFilesBadPattern(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), ListFiles(t.TempDir()+"/["))
	if err == nil {
		t.Fatal("expected a fault for an invalid regular expression")
	}
}
