package v5

import (
	"encoding/binary"
	"errors"
)

// ErrEndOfStream signals that fewer than 8 bytes remain at the current
// cursor — not an error condition for the top-level scan, which treats it
// as the natural end of the element sequence.
var ErrEndOfStream = errors.New("v5: end of element stream")

// ErrMalformedElement is returned when an element's header or declared
// length is inconsistent with the surrounding stream.
var ErrMalformedElement = errors.New("v5: malformed element")

// element is a decoded tag plus a zero-copy view into the payload bytes of
// the stream that produced it. The view is only valid for as long as the
// backing slice (the opened file's buffer or a decompressed buffer) is alive;
// callers that need the bytes past the current scan must copy them out.
type element struct {
	Type    uint32
	Length  int
	Payload []byte
	// end is the stream offset immediately following this element,
	// including any alignment padding that was actually present.
	end int
}

// decodeElement reads one tagged element from data starting at pos under
// the given byte order. allowTailTolerance permits the real-world quirk of
// a final element that omits its trailing padding; it is set by the
// element-stream scan (the file stream and every inflated sub-stream),
// never while walking a matrix's sub-elements, where a short read is
// always malformed.
func decodeElement(data []byte, pos int, order binary.ByteOrder, allowTailTolerance bool) (element, error) {
	if pos+8 > len(data) {
		return element{}, ErrEndOfStream
	}

	w0 := readUint32(data, pos, order)
	upper := w0 >> 16

	if upper != 0 {
		// Short form: type in low 16 bits, length (1..4) in high 16 bits,
		// payload inline in the next 4 bytes.
		length := int(upper)
		if length > 4 {
			return element{}, ErrMalformedElement
		}
		dataType := w0 & 0xFFFF
		return element{
			Type:    dataType,
			Length:  length,
			Payload: data[pos+4 : pos+8],
			end:     pos + 8,
		}, nil
	}

	// Long form: full 32-bit type word, full 32-bit length word, payload
	// follows immediately, padded to an 8-byte boundary.
	if pos+8 > len(data) {
		return element{}, ErrEndOfStream
	}
	dataType := w0
	length := int(readUint32(data, pos+4, order))
	if length < 0 || length > maxReasonableSize {
		return element{}, ErrMalformedElement
	}

	payloadStart := pos + 8
	payloadEnd := payloadStart + length
	if payloadEnd > len(data) {
		return element{}, ErrMalformedElement
	}

	padded, err := alignUp8(length)
	if err != nil {
		return element{}, err
	}
	advancedEnd := payloadStart + padded

	if advancedEnd > len(data) {
		if !allowTailTolerance {
			return element{}, ErrMalformedElement
		}
		// Tolerance: some real-world files omit the final element's
		// trailing padding. Clamp the advance to the payload end instead
		// of failing, but only in an element stream (not a matrix's
		// sub-elements) and only for the very last element in it.
		advancedEnd = payloadEnd
	}

	return element{
		Type:    dataType,
		Length:  length,
		Payload: data[payloadStart:payloadEnd],
		end:     advancedEnd,
	}, nil
}
