// SPDX-License-Identifier: Apache-2.0

package tracepipe

import "io"

// Options is a keyed bag of factory configuration.
//
// Every configurable factory declares a defaults map and merges the
// caller's options over it with override: the result has exactly the
// default key set, keys the caller does not supply keep their default,
// and unknown caller keys are silently ignored.
type Options map[string]any

// override merges caller options over factory defaults.
func override(defaults, opts Options) Options {
	merged := make(Options, len(defaults))
	for key, def := range defaults {
		if v, ok := opts[key]; ok {
			merged[key] = v
		} else {
			merged[key] = def
		}
	}
	return merged
}

// stringOption returns the merged option as a string, or the zero value
// when it has some other type.
func stringOption(opts Options, key string) string {
	s, _ := opts[key].(string)
	return s
}

// intOption returns the merged option as an int.
//
// Options decoded from a YAML or JSON pipeline definition arrive as
// int, int64, or float64 depending on the decoder; all three are
// accepted. Anything else yields the fallback.
func intOption(opts Options, key string, fallback int) int {
	switch v := opts[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// writerOption returns the merged option as an io.Writer, or fallback
// when absent. Writers are only ever supplied programmatically.
func writerOption(opts Options, key string, fallback io.Writer) io.Writer {
	if w, ok := opts[key].(io.Writer); ok && w != nil {
		return w
	}
	return fallback
}
