package v5

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// ErrIOUnavailable wraps an underlying open/stat/map/read failure.
var ErrIOUnavailable = errors.New("v5: I/O unavailable")

// FileView holds the bytes of an opened MAT5 file in a heap buffer, plus
// its decoded header and file endian order. Close releases the memory map
// the bytes were copied from, if any.
type FileView struct {
	Data   []byte
	Header *Header
	closer func() error
}

// OpenFile opens path read-only through a memory map and copies the whole
// mapping into a heap buffer, falling back to a full os.ReadFile if mapping
// fails (e.g. on a filesystem that does not support mmap). In both cases
// Data is a heap buffer, not a view of the mapping. It validates the
// 128-byte header and
// returns a FileView whose Data the caller must not retain past Close.
func OpenFile(path string) (*FileView, error) {
	if r, err := mmap.Open(path); err == nil {
		n := r.Len()
		buf := make([]byte, n)
		if _, rerr := r.ReadAt(buf, 0); rerr != nil {
			_ = r.Close()
			return nil, fmt.Errorf("%w: %v", ErrIOUnavailable, rerr) //nolint:errorlint // wraps a non-sentinel I/O error
		}
		hdr, herr := parseHeader(buf)
		if herr != nil {
			_ = r.Close()
			return nil, herr
		}
		return &FileView{Data: buf, Header: hdr, closer: r.Close}, nil
	}

	buf, err := os.ReadFile(path) //nolint:gosec // path is caller-supplied, expected for a file-format library
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps a non-sentinel I/O error
	}
	hdr, herr := parseHeader(buf)
	if herr != nil {
		return nil, herr
	}
	return &FileView{Data: buf, Header: hdr, closer: func() error { return nil }}, nil
}

// Close releases the underlying mmap handle, if any.
func (f *FileView) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer()
	f.closer = nil
	return err
}

// Order is a convenience accessor for the file's decoded byte order.
func (f *FileView) Order() binary.ByteOrder {
	return f.Header.Order
}
