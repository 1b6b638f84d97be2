package v5

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/scigolib/cubemat/types"
)

// WriteRequest describes one matrix to emit: a name, its dimensions (rank 2
// or 3), its element type, and the raw host-native-encoded payload bytes.
type WriteRequest struct {
	Name          string
	Dims          []int
	Type          types.DataType
	Data          []byte
	Compress      bool
	CompressLevel int
}

// Writer is a thin stateful wrapper that writes a fresh MAT5 file: a header
// followed by one matrix element per WriteVariable call. The container's own
// convention binds the writer to little-endian output only (see the
// package's Non-goals): Writer always declares "IM" and binary.LittleEndian,
// regardless of host byte order — WriteMatrix itself still compensates for a
// big-endian host's native-encoded input bytes.
type Writer struct {
	w     io.Writer
	order binary.ByteOrder
}

// NewWriter writes the 128-byte header immediately and returns a Writer
// ready to accept matrix elements.
func NewWriter(w io.Writer, description string) (*Writer, error) {
	order := binary.LittleEndian
	if err := WriteHeader(w, description, order, "IM"); err != nil {
		return nil, err
	}
	return &Writer{w: w, order: order}, nil
}

// WriteVariable writes one matrix element to the file.
func (wtr *Writer) WriteVariable(req WriteRequest) error {
	return WriteMatrix(wtr.w, req, wtr.order)
}

// maxNameLen bounds a written variable name to the Descriptor/Cube name
// budget used on read.
const maxNameLen = 255

// WriteHeader writes the 128-byte MAT5 header to w.
func WriteHeader(w io.Writer, description string, order binary.ByteOrder, endianIndicator string) error {
	header := writeHeader(description, order, endianIndicator)
	n, err := w.Write(header)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	if n != headerSize {
		return fmt.Errorf("%w: wrote %d bytes, want %d", ErrIOUnavailable, n, headerSize)
	}
	return nil
}

// WriteMatrix validates req and writes one matrix element (long-form only)
// to w, optionally wrapped in a compressed element. It does not write a
// header. order selects the encoding of the tags, array flags and
// dimensions; the numeric payload is always written little-endian
// regardless of host order or of order.
func WriteMatrix(w io.Writer, req WriteRequest, order binary.ByteOrder) error {
	if err := validateWriteRequest(req); err != nil {
		return err
	}

	content, err := encodeMatrixContent(req, order)
	if err != nil {
		return err
	}
	if len(content) > maxReasonableSize {
		return fmt.Errorf("%w: matrix payload too large: %d bytes", ErrMalformedElement, len(content))
	}

	if req.Compress {
		return writeCompressedMatrix(w, content, req.CompressLevel, order)
	}
	return writeRawMatrix(w, content, order)
}

func writeRawMatrix(w io.Writer, content []byte, order binary.ByteOrder) error {
	if err := writeTag(w, miMATRIX, uint32(len(content)), order); err != nil { //nolint:gosec // content length bounded by maxReasonableSize
		return err
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	pad, err := alignUp8(len(content))
	if err != nil {
		return err
	}
	if padding := pad - len(content); padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
		}
	}
	return nil
}

func writeCompressedMatrix(w io.Writer, content []byte, level int, order binary.ByteOrder) error {
	matrixElement, err := encodeRawMatrixElement(content, order)
	if err != nil {
		return err
	}
	compressed, err := deflate(matrixElement, level)
	if err != nil {
		return err
	}
	if err := writeTag(w, miCOMPRESSED, uint32(len(compressed)), order); err != nil { //nolint:gosec // bounded by deflate output on a bounded input
		return err
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	pad, err := alignUp8(len(compressed))
	if err != nil {
		return err
	}
	if padding := pad - len(compressed); padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
		}
	}
	return nil
}

// encodeRawMatrixElement produces the tag+payload+padding bytes of an
// uncompressed matrix element, for use as the inflated content of a
// compressed element.
func encodeRawMatrixElement(content []byte, order binary.ByteOrder) ([]byte, error) {
	pad, err := alignUp8(len(content))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8+pad)
	order.PutUint32(buf[0:4], miMATRIX)
	order.PutUint32(buf[4:8], uint32(len(content))) //nolint:gosec // content length bounded by maxReasonableSize
	copy(buf[8:8+len(content)], content)
	return buf, nil
}

func writeTag(w io.Writer, dataType, size uint32, order binary.ByteOrder) error {
	buf := make([]byte, 8)
	order.PutUint32(buf[0:4], dataType)
	order.PutUint32(buf[4:8], size)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	return nil
}

func validateWriteRequest(req WriteRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: variable name is required", ErrMalformedElement)
	}
	if len(req.Name) > maxNameLen {
		return fmt.Errorf("%w: variable name too long: %d bytes", ErrMalformedElement, len(req.Name))
	}
	if len(req.Dims) != 2 && len(req.Dims) != 3 {
		return fmt.Errorf("%w: rank must be 2 or 3, got %d", ErrMalformedElement, len(req.Dims))
	}

	total := 1
	for i, d := range req.Dims {
		if d <= 0 {
			return fmt.Errorf("%w: dimension[%d] must be positive, got %d", ErrMalformedElement, i, d)
		}
		var err error
		total, err = mulSize(total, d)
		if err != nil {
			return err
		}
	}

	expected, err := mulSize(total, req.Type.ByteWidth())
	if err != nil {
		return err
	}
	if expected != len(req.Data) {
		return fmt.Errorf("%w: data length %d does not match dims*elemsize %d", ErrMalformedElement, len(req.Data), expected)
	}
	return nil
}

func encodeMatrixContent(req WriteRequest, order binary.ByteOrder) ([]byte, error) {
	var buf []byte

	flags := encodeArrayFlags(req.Type, order)
	buf = append(buf, flags...)

	dims, err := encodeDimensions(req.Dims, order)
	if err != nil {
		return nil, err
	}
	buf = append(buf, dims...)

	name, err := wrapInTag(miINT8, []byte(req.Name), order)
	if err != nil {
		return nil, err
	}
	buf = append(buf, name...)

	payload := req.Data
	if !hostIsLittleEndian() && req.Type.ByteWidth() > 1 {
		// Cube.Data is assumed to hold host-native-encoded element bytes
		// (as if taken straight from a native numeric slice). The
		// container's own convention is to always emit little-endian
		// payload data regardless of the file's declared tag order, so a
		// big-endian host needs a transient byte-swapped copy; a
		// little-endian host writes its bytes unchanged.
		transient := make([]byte, len(req.Data))
		copy(transient, req.Data)
		swapElementsInPlace(transient, req.Type.ByteWidth())
		payload = transient
	}

	dataElem, err := wrapInTag(dataTypeToContainerType(req.Type), payload, order)
	if err != nil {
		return nil, err
	}
	buf = append(buf, dataElem...)

	return buf, nil
}

func encodeArrayFlags(dt types.DataType, order binary.ByteOrder) []byte {
	data := make([]byte, 8)
	order.PutUint32(data[0:4], dataTypeToClass(dt)) // class code in the low byte; complex=0, sparse=0
	order.PutUint32(data[4:8], 0)
	elem, _ := wrapInTag(miUINT32, data, order) // 8 bytes always fits without overflow
	return elem
}

func encodeDimensions(dims []int, order binary.ByteOrder) ([]byte, error) {
	data := make([]byte, len(dims)*4)
	for i, d := range dims {
		order.PutUint32(data[i*4:(i+1)*4], uint32(d)) //nolint:gosec // dims validated positive and bounded
	}
	return wrapInTag(miINT32, data, order)
}

// wrapInTag wraps data in a long-form tag (8-byte header + data + padding
// to the next 8-byte boundary).
func wrapInTag(dataType uint32, data []byte, order binary.ByteOrder) ([]byte, error) {
	padded, err := alignUp8(len(data))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8+padded)
	order.PutUint32(buf[0:4], dataType)
	order.PutUint32(buf[4:8], uint32(len(data))) //nolint:gosec // data length bounded by maxReasonableSize via caller validation
	copy(buf[8:8+len(data)], data)
	return buf, nil
}

// AppendMatrix opens path for read+write, seeks to the end, and writes a
// single matrix element without touching the existing header. The caller
// must already know the file's declared byte order (from a prior OpenFile).
func AppendMatrix(path string, req WriteRequest, order binary.ByteOrder) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0) //nolint:gosec // path is caller-supplied, expected for a file-format library
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	defer f.Close() //nolint:errcheck // best-effort close after a completed write

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	return WriteMatrix(f, req, order)
}
