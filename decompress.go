// SPDX-License-Identifier: Apache-2.0

package tracepipe

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Decompress returns a stage that strips any number of gzip layers from
// a byte buffer and decodes the result as text.
//
// Each successful decompression is fed back in, so a buffer wrapped in
// multiple compression layers is unwrapped completely. When a
// decompression attempt fails the current buffer is treated as already
// plain data and decoded directly — a never-compressed input therefore
// passes through decoded on the first attempt. This fallback is a
// deliberate non-error control path, not a retry policy.
func Decompress() Stage {
	return TypedStage("decompress", Bytes, Text, func(_ context.Context, buf []byte) (string, error) {
		for {
			plain, err := gunzip(buf)
			if err != nil {
				// Not (or no longer) gzip data: decode what we have.
				return string(buf), nil
			}
			buf = plain
		}
	})
}

// gunzip strips a single gzip layer, failing if buf is not well-formed
// gzip data.
func gunzip(buf []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return plain, nil
}
