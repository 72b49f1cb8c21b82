// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ParseJSON returns a stage that decodes text as JSON into structured
// data. It bridges text-producing stages, such as [Decompress], to the
// trace transforms.
func ParseJSON() Stage {
	return TypedStage("parse: json", Text, Data, func(_ context.Context, text string) (any, error) {
		var data any
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return data, nil
	})
}

// A Record is a single trace event, in the trace-viewer convention:
// a named event with a phase marker, attributed to a process and a
// thread, with a microsecond timestamp.
type Record struct {
	// Name is the event label.
	Name string `json:"name"`

	// Phase marks the event kind: "B" begins a slice, "E" ends the
	// most recent open slice, "X" is a complete slice with an explicit
	// duration.
	Phase string `json:"ph"`

	// Process and Thread attribute the event.
	Process int `json:"pid"`
	Thread  int `json:"tid"`

	// Time is the event timestamp in microseconds.
	Time float64 `json:"ts"`

	// Duration is the slice length in microseconds; only meaningful
	// for complete ("X") events.
	Duration float64 `json:"dur,omitempty"`
}

// A Node is one slice in a reconstructed call tree.
type Node struct {
	Name     string  `json:"name"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Children []*Node `json:"children,omitempty"`
}

// decodeRecords coerces a structured-data value into trace records.
//
// Values are either already []Record (produced by an upstream trace
// stage) or generic decoded JSON (a []any of objects, as produced by
// ParseJSON or FromJSONFile).
func decodeRecords(v any) ([]Record, error) {
	switch data := v.(type) {
	case []Record:
		return data, nil
	case []any:
		records := make([]Record, 0, len(data))
		for i, item := range data {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("record %d: expected object, got %T", i, item)
			}
			rec := Record{
				Name:  asString(obj["name"]),
				Phase: asString(obj["ph"]),
			}
			rec.Process = int(asNumber(obj["pid"]))
			rec.Thread = int(asNumber(obj["tid"]))
			rec.Time = asNumber(obj["ts"])
			rec.Duration = asNumber(obj["dur"])
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("expected trace records, got %T", v)
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// FilterTrace returns a stage that keeps only the records attributed to
// a configured process and/or thread.
//
// Options: "process" and "thread" (ints). Either may be -1, the
// default, to match any id.
func FilterTrace(opts Options) Stage {
	merged := override(Options{"process": -1, "thread": -1}, opts)
	pid := intOption(merged, "process", -1)
	tid := intOption(merged, "thread", -1)

	name := fmt.Sprintf("filter: pid=%d tid=%d", pid, tid)
	return StageFunc(name, Data, Data, func(_ context.Context, v any) (any, error) {
		records, err := decodeRecords(v)
		if err != nil {
			return nil, err
		}
		kept := make([]Record, 0, len(records))
		for _, rec := range records {
			if pid >= 0 && rec.Process != pid {
				continue
			}
			if tid >= 0 && rec.Thread != tid {
				continue
			}
			kept = append(kept, rec)
		}
		return kept, nil
	})
}

// BuildTree returns a stage that folds begin/end records into a call
// tree.
//
// Records are ordered by timestamp first. A "B" record opens a slice,
// the matching "E" closes the most recently opened one, and an "X"
// record becomes a leaf with its explicit duration. Slices that are
// still open when the records run out are closed at the last seen
// timestamp. The result is a synthetic root node whose children are the
// top-level slices.
func BuildTree() Stage {
	return StageFunc("tree", Data, Data, func(_ context.Context, v any) (any, error) {
		records, err := decodeRecords(v)
		if err != nil {
			return nil, err
		}
		ordered := make([]Record, len(records))
		copy(ordered, records)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Time < ordered[j].Time
		})

		root := &Node{Name: "trace"}
		open := []*Node{root}
		var last float64
		for _, rec := range ordered {
			last = rec.Time
			parent := open[len(open)-1]
			switch rec.Phase {
			case "B":
				node := &Node{Name: rec.Name, Start: rec.Time}
				parent.Children = append(parent.Children, node)
				open = append(open, node)
			case "E":
				if len(open) == 1 {
					return nil, fmt.Errorf("unmatched end record %q at %v", rec.Name, rec.Time)
				}
				closing := open[len(open)-1]
				closing.Duration = rec.Time - closing.Start
				open = open[:len(open)-1]
			case "X":
				node := &Node{Name: rec.Name, Start: rec.Time, Duration: rec.Duration}
				parent.Children = append(parent.Children, node)
				if rec.Time+rec.Duration > last {
					last = rec.Time + rec.Duration
				}
			}
		}
		// Close slices left open at the end of the record stream.
		for len(open) > 1 {
			node := open[len(open)-1]
			node.Duration = last - node.Start
			open = open[:len(open)-1]
		}
		if len(root.Children) > 0 {
			first := root.Children[0]
			root.Start = first.Start
			root.Duration = last - first.Start
		}
		return root, nil
	})
}

// SplitByProcess returns a stage that groups records into a keyed map,
// one entry per process id.
func SplitByProcess() Stage {
	return splitStage("split: process", func(rec Record) string {
		return "pid-" + strconv.Itoa(rec.Process)
	})
}

// SplitByThread returns a stage that groups records into a keyed map,
// one entry per process/thread pair.
func SplitByThread() Stage {
	return splitStage("split: thread", func(rec Record) string {
		return "pid-" + strconv.Itoa(rec.Process) + "-tid-" + strconv.Itoa(rec.Thread)
	})
}

func splitStage(name string, key func(Record) string) Stage {
	return StageFunc(name, Data, MapOf(Data), func(_ context.Context, v any) (any, error) {
		records, err := decodeRecords(v)
		if err != nil {
			return nil, err
		}
		groups := make(map[string]any)
		for _, rec := range records {
			k := key(rec)
			group, _ := groups[k].([]Record)
			groups[k] = append(group, rec)
		}
		return groups, nil
	})
}
