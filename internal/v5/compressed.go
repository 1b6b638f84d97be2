package v5

import (
	"bytes"
	"compress/flate"
	"errors"
	"fmt"
	"io"

	kflate "github.com/klauspost/compress/flate"
)

// ErrCorruptCompressedStream is returned when a compressed element's
// payload is not a well-formed DEFLATE stream.
var ErrCorruptCompressedStream = errors.New("v5: corrupt compressed stream")

// initialInflateCapacity is the starting size of the geometric-growth sink
// used to inflate a compressed element.
const initialInflateCapacity = 64 * 1024

// inflate decompresses a raw DEFLATE stream (as carried by a miCOMPRESSED
// element's payload) into an owned, heap-grown buffer. The sink starts at
// 64KiB and doubles on fill, each growth checked against maxReasonableSize
// so a compression bomb cannot force an unbounded allocation.
func inflate(src []byte, maxDecompressedSize int) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty compressed payload", ErrCorruptCompressedStream)
	}

	zr := flate.NewReader(bytes.NewReader(src))
	defer zr.Close() //nolint:errcheck // best-effort cleanup of the inflate state

	buf := make([]byte, 0, initialInflateCapacity)
	for {
		if len(buf) == cap(buf) {
			newCap, err := mulSize(cap(buf), 2)
			if err != nil {
				return nil, err
			}
			if newCap == 0 {
				newCap = initialInflateCapacity
			}
			grown := make([]byte, len(buf), newCap)
			copy(grown, buf)
			buf = grown
		}

		n, err := zr.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]

		if len(buf) > maxDecompressedSize {
			return nil, fmt.Errorf("%w: decompressed size exceeds %d bytes", ErrCorruptCompressedStream, maxDecompressedSize)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrCorruptCompressedStream, err) //nolint:errorlint // wrapping a non-sentinel decode error
		}
	}

	return buf, nil
}

// deflate compresses data into a raw DEFLATE stream using klauspost's pure
// Go flate implementation, which the emitter uses for its optional
// compressed-element output mode.
func deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := kflate.NewWriter(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("v5: create deflate writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("v5: deflate write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("v5: deflate close: %w", err)
	}
	return buf.Bytes(), nil
}
