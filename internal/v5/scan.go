package v5

import (
	"encoding/binary"
	"errors"
)

// defaultMaxNestingDepth bounds recursion into compressed-element
// sub-streams so a maliciously nested input (compressed wrapping
// compressed, ad infinitum) cannot blow the goroutine stack.
const defaultMaxNestingDepth = 32

// ErrNestingTooDeep is returned when a compressed element's nesting exceeds
// the configured maximum nesting depth.
var ErrNestingTooDeep = errors.New("v5: compressed element nesting too deep")

// Visitor is invoked once per supported matrix encountered during a scan.
// It returns an error to abort the whole scan, or stop=true to unwind
// cleanly without visiting any further matrices. The parsedMatrix it
// receives is only valid for the duration of the call — copy out of its
// Data/Name fields before returning if they must outlive the call.
type Visitor func(m parsedMatrix, order binary.ByteOrder) (stop bool, err error)

// ScanOptions configures the top-level and recursive scan behavior.
type ScanOptions struct {
	MaxDecompressedSize int
	MaxNestingDepth      int
}

// DefaultScanOptions returns the scan ceilings used when the caller does
// not override them via an Option.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MaxDecompressedSize: 100 * 1024 * 1024,
		MaxNestingDepth:      defaultMaxNestingDepth,
	}
}

// ScanElements performs a depth-first traversal of data starting at
// startOffset, dispatching each supported matrix to visit in file order.
// Compressed elements are inflated and scanned recursively before the
// outer stream resumes; other element types are ignored. The scan returns
// cleanly (no error) when the visitor requests a stop, and aborts with an
// error on a malformed top-level element, a corrupt compressed stream, or a
// visitor-reported failure.
func ScanElements(data []byte, startOffset int, order binary.ByteOrder, visit Visitor, opts ScanOptions) error {
	_, err := scanElements(data, startOffset, order, visit, opts, 0)
	return err
}

func scanElements(data []byte, startOffset int, order binary.ByteOrder, visit Visitor, opts ScanOptions, depth int) (bool, error) {
	limit := opts.MaxNestingDepth
	if limit <= 0 {
		limit = defaultMaxNestingDepth
	}
	if depth > limit {
		return false, ErrNestingTooDeep
	}

	pos := startOffset
	for pos+8 <= len(data) {
		el, err := decodeElement(data, pos, order, true)
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				break
			}
			return false, err
		}
		pos = el.end

		switch el.Type {
		case miMATRIX:
			m, perr := parseMatrixPayload(el.Payload, order)
			if perr != nil {
				// Hard failure parsing this matrix's sub-element stream:
				// skip it and keep scanning, per the walker's tolerance
				// policy for individual matrices.
				continue
			}
			if !m.Supported {
				continue
			}
			stop, verr := visit(m, order)
			if verr != nil {
				return false, verr
			}
			if stop {
				return true, nil
			}

		case miCOMPRESSED:
			inflated, derr := inflate(el.Payload, opts.MaxDecompressedSize)
			if derr != nil {
				return false, derr
			}
			stop, serr := scanElements(inflated, 0, order, visit, opts, depth+1)
			if serr != nil {
				return false, serr
			}
			if stop {
				return true, nil
			}

		default:
			// Ignore other top-level element types.
		}
	}

	return false, nil
}
