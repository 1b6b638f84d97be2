package v5

import (
	"encoding/binary"

	"github.com/scigolib/cubemat/types"
)

// maxName is the maximum number of name bytes captured from a matrix's name
// sub-element (one byte is reserved for the terminator in the public
// Descriptor/Cube API).
const maxName = 255

// maxRank is the maximum dimension count this parser will accept; matrices
// with more dimensions are treated as structurally present but unsupported.
const maxRank = 16

// complexFlagBit is bit 11 of the array-flags first word.
const complexFlagBit = 0x0800

// parsedMatrix is the transient, parser-internal result of walking a
// matrix element's sub-elements. Its Data field is a zero-copy view into
// the owning stream (the opened file's buffer or a decompressed buffer): it is
// only valid while that stream is alive, and visitors must copy out of it
// before returning.
type parsedMatrix struct {
	Supported bool
	Name      string
	Dims      [3]int // first min(Rank,3) slots; trailing slot is 1 when Rank == 2
	Rank      int
	Type      types.DataType
	ElemSize  int
	Data      []byte
}

// parseMatrixPayload walks the sub-elements of a matrix element's payload
// in canonical order (flags, dimensions, name, real data), tolerating
// unknown or out-of-order extras. It never returns an error for a
// structurally odd matrix — it reports the matrix as unsupported instead,
// per the walker's "skip, don't abort" policy for bad matrices. It returns
// an error only when the sub-element stream itself is malformed (a tag
// whose declared length overruns the payload).
func parseMatrixPayload(payload []byte, order binary.ByteOrder) (parsedMatrix, error) {
	var (
		m                          parsedMatrix
		sawFlags, sawDims, sawName bool
		class                      uint32
		isComplex                  bool
		allDims                    []int
	)

	pos := 0
	for pos+8 <= len(payload) {
		el, err := decodeElement(payload, pos, order, false)
		if err != nil {
			return parsedMatrix{}, err
		}
		pos = el.end

		switch {
		case el.Type == miUINT32 && el.Length >= 8 && !sawFlags:
			if len(el.Payload) < 8 {
				break
			}
			flags := readUint32(el.Payload, 0, order)
			class = flags & 0xFF
			isComplex = flags&complexFlagBit != 0
			sawFlags = true

		case isDimensionType(el.Type) && !sawDims:
			allDims = decodeDimensions(el.Payload, el.Type, order)
			m.Rank = len(allDims)
			for i := 0; i < 3 && i < len(allDims); i++ {
				m.Dims[i] = allDims[i]
			}
			for i := len(allDims); i < 3; i++ {
				m.Dims[i] = 1
			}
			sawDims = true

		case isNameType(el.Type) && !sawName:
			m.Name = decodeName(el.Payload)
			sawName = true

		case sawFlags && sawDims && m.Data == nil && el.Type != miUINT32 && !isDimensionType(el.Type):
			// Candidate real-data sub-element: only the first one seen
			// after flags+dims is taken as the matrix's payload. This also
			// matches miINT8/miUINT8, which double as the name
			// sub-element's encoding: by the time one of those reaches
			// here sawName is already true, so the name case above no
			// longer claims it and an int8/uint8 cube's real data lands
			// here instead of being silently dropped.
			dt, ok := containerTypeToDataType(el.Type)
			if ok {
				m.Type = dt
				m.ElemSize = dt.ByteWidth()
				m.Data = el.Payload
			}
		}
	}

	if !sawFlags || !sawDims {
		return m, nil // not a valid matrix; unsupported, not an error
	}
	if isComplex {
		return m, nil
	}
	classType, ok := classToDataType(class)
	if !ok {
		return m, nil
	}
	if m.Rank == 0 || m.Rank > maxRank || allDims == nil {
		return m, nil
	}
	if m.Data == nil {
		return m, nil
	}
	if classType != m.Type {
		return m, nil
	}

	dimsProduct, err := product(allDims)
	if err != nil {
		return m, nil
	}
	expected, err := mulSize(dimsProduct, m.ElemSize)
	if err != nil {
		return m, nil
	}
	if expected != len(m.Data) {
		return m, nil
	}

	m.Supported = true
	return m, nil
}

// decodeDimensions parses a dimensions sub-element payload into the full
// list of declared dimensions. Any zero or negative dimension makes the
// whole matrix invalid, signaled by a nil return.
func decodeDimensions(payload []byte, rawType uint32, order binary.ByteOrder) []int {
	width := 4
	if rawType == miINT64 || rawType == miUINT64 {
		width = 8
	}
	if len(payload)%width != 0 || len(payload) == 0 {
		return nil
	}
	count := len(payload) / width
	dims := make([]int, count)
	for i := 0; i < count; i++ {
		var v int64
		if width == 4 {
			v = int64(int32(readUint32(payload, i*4, order))) //nolint:gosec // raw container int32
		} else {
			v = int64(readUint64(payload, i*8, order))
		}
		if v <= 0 {
			return nil
		}
		dims[i] = int(v)
	}
	return dims
}

// decodeName copies up to maxName bytes from a name sub-element's raw
// payload. Names declared as UTF-16/UTF-32 are copied byte-for-byte, not
// decoded — the container's own convention assumes ASCII names.
func decodeName(payload []byte) string {
	n := len(payload)
	if n > maxName {
		n = maxName
	}
	return string(payload[:n])
}

// product multiplies dims together through the checked mulSize helper, so a
// crafted high-rank or high-magnitude dimension vector overflows into an
// error instead of silently wrapping.
func product(dims []int) (int, error) {
	p := 1
	for _, d := range dims {
		var err error
		p, err = mulSize(p, d)
		if err != nil {
			return 0, err
		}
	}
	return p, nil
}
