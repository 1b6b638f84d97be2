// Package cubemat reads and writes the MAT5 binary scientific array
// container format: a 128-byte header followed by a stream of tagged data
// elements, some of which are DEFLATE-compressed sub-streams, terminating in
// named rank-2/rank-3 numeric arrays ("cubes"). It supports the six numeric
// element types double, single, int8, uint8, int16 and uint16; complex
// numbers, cell/struct/sparse arrays and the HDF5-based v7.3 successor
// format are out of scope.
package cubemat

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/scigolib/cubemat/internal/v5"
	"github.com/scigolib/cubemat/types"
)

// DataType is the set of numeric element types a Cube may hold.
type DataType = types.DataType

// Numeric element type constants, re-exported for callers that don't want
// to import the types sub-package directly.
const (
	Double = types.Double
	Single = types.Single
	Int8   = types.Int8
	Uint8  = types.Uint8
	Int16  = types.Int16
	Uint16 = types.Uint16
)

// Sentinel errors surfaced by every public entry point. Wrap with
// fmt.Errorf("...: %w", err) internally and compare with errors.Is.
var (
	// ErrIOUnavailable indicates open, map/read, or write failed.
	ErrIOUnavailable = errors.New("cubemat: I/O unavailable")
	// ErrNotAContainer indicates the file is too short or its endian
	// marker is not recognized.
	ErrNotAContainer = errors.New("cubemat: not a MAT5 container")
	// ErrMalformedElement indicates a structurally broken tagged element.
	ErrMalformedElement = errors.New("cubemat: malformed element")
	// ErrCorruptCompressedStream indicates a compressed element's DEFLATE
	// payload did not decode cleanly.
	ErrCorruptCompressedStream = errors.New("cubemat: corrupt compressed stream")
	// ErrNotFound indicates load-by-name or load-first-of-rank found no
	// matching matrix.
	ErrNotFound = errors.New("cubemat: matrix not found")
)

// headerSize mirrors internal/v5's fixed container header size; the scan
// entry point always starts immediately after it.
const headerSize = 128

// Cube is an owned rank-2 or rank-3 numeric array: a buffer of raw bytes
// interpreted under Type, a 3-slot dimension vector (Dims[2] == 1 when
// Rank == 2), and the rank itself. The buffer length always equals
// product(Dims[:Rank]) * Type.ByteWidth().
type Cube struct {
	Data []byte
	Dims [3]int
	Rank int
	Type DataType
}

// Descriptor names a matrix found while listing a file, without loading its
// data: a name, its 3-slot dimension vector, and its element type.
type Descriptor struct {
	Name string
	Dims [3]int
	Type DataType
}

// Fingerprint returns an xxHash64 digest of the cube's data bytes, useful
// for cheaply comparing two loaded cubes (e.g. across a round trip or a
// cache) without a byte-for-byte comparison.
func (c Cube) Fingerprint() uint64 {
	return xxhash.Sum64(c.Data)
}

// LoadFirstRank3 returns the first rank-3 matrix encountered in file order,
// along with its name. It returns ErrNotFound if the file contains no
// supported rank-3 matrix.
func LoadFirstRank3(path string, opts ...Option) (Cube, string, error) {
	return loadByRank(path, 3, "", opts...)
}

// LoadByNameRank3 returns the rank-3 matrix named name. If more than one
// matrix shares the name, the first one encountered in file order wins —
// this mirrors the MAT5 ecosystem's observed (if undocumented) behavior and
// is preserved intentionally, not incidentally.
func LoadByNameRank3(path, name string, opts ...Option) (Cube, error) {
	cube, _, err := loadByRank(path, 3, name, opts...)
	return cube, err
}

// LoadByNameRank2 returns the rank-2 matrix named name, with the same
// first-match-wins semantics as LoadByNameRank3.
func LoadByNameRank2(path, name string, opts ...Option) (Cube, error) {
	cube, _, err := loadByRank(path, 2, name, opts...)
	return cube, err
}

// ListRank3 returns a descriptor for every supported rank-3 matrix in the
// file, in file order. An empty (nil) slice with a nil error means the file
// parsed cleanly but contained no rank-3 matrix.
func ListRank3(path string, opts ...Option) ([]Descriptor, error) {
	return listByRank(path, 3, opts...)
}

// ListRank2 returns a descriptor for every supported rank-2 matrix in the
// file, in file order.
func ListRank2(path string, opts ...Option) ([]Descriptor, error) {
	return listByRank(path, 2, opts...)
}

// SaveCubeRank3 creates a fresh file at path containing a single rank-3
// cube named name. Any existing file at path is truncated and overwritten.
func SaveCubeRank3(path, name string, cube Cube, opts ...Option) error {
	if cube.Rank != 3 {
		return fmt.Errorf("%w: SaveCubeRank3 requires rank 3, got %d", ErrMalformedElement, cube.Rank)
	}
	return saveCube(path, name, cube, opts...)
}

// AppendRank2 appends a rank-2 cube (typically a wavelength vector) named
// name to an existing file, without touching its header or any previously
// written matrices.
func AppendRank2(path, name string, cube Cube, opts ...Option) error {
	if cube.Rank != 2 {
		return fmt.Errorf("%w: AppendRank2 requires rank 2, got %d", ErrMalformedElement, cube.Rank)
	}
	cfg := applyOptions(opts)

	fv, err := v5.OpenFile(path)
	if err != nil {
		return translateOpenErr(err)
	}
	order := fv.Order()
	if cerr := fv.Close(); cerr != nil {
		return fmt.Errorf("%w: %v", ErrIOUnavailable, cerr) //nolint:errorlint // wraps a non-sentinel I/O error
	}

	req := v5.WriteRequest{
		Name:          name,
		Dims:          cube.Dims[:2],
		Type:          cube.Type,
		Data:          cube.Data,
		Compress:      cfg.compression > 0,
		CompressLevel: cfg.compression,
	}
	if err := v5.AppendMatrix(path, req, order); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

func saveCube(path, name string, cube Cube, opts ...Option) error {
	cfg := applyOptions(opts)

	f, err := createFile(path)
	if err != nil {
		return translateOpenErr(err)
	}
	defer f.Close() //nolint:errcheck // best-effort close after a completed write

	writer, err := v5.NewWriter(f, cfg.description)
	if err != nil {
		return translateWriteErr(err)
	}

	req := v5.WriteRequest{
		Name:          name,
		Dims:          cube.Dims[:cube.Rank],
		Type:          cube.Type,
		Data:          cube.Data,
		Compress:      cfg.compression > 0,
		CompressLevel: cfg.compression,
	}
	if err := writer.WriteVariable(req); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

func loadByRank(path string, rank int, name string, opts ...Option) (Cube, string, error) {
	cfg := applyOptions(opts)

	fv, err := v5.OpenFile(path)
	if err != nil {
		return Cube{}, "", translateOpenErr(err)
	}
	defer fv.Close() //nolint:errcheck // best-effort close; data already consumed by the scan below

	lv := v5.NewLoadVisitor(rank, name)
	scanOpts := v5.ScanOptions{MaxDecompressedSize: cfg.maxDecompressedSize, MaxNestingDepth: cfg.maxNestingDepth}
	if err := v5.ScanElements(fv.Data, headerSize, fv.Order(), lv.Visit, scanOpts); err != nil {
		return Cube{}, "", translateScanErr(err)
	}
	if !lv.Found {
		return Cube{}, "", ErrNotFound
	}
	return Cube{
		Data: lv.Result.Data,
		Dims: lv.Result.Dims,
		Rank: lv.Result.Rank,
		Type: lv.Result.Type,
	}, lv.Result.Name, nil
}

func listByRank(path string, rank int, opts ...Option) ([]Descriptor, error) {
	cfg := applyOptions(opts)

	fv, err := v5.OpenFile(path)
	if err != nil {
		return nil, translateOpenErr(err)
	}
	defer fv.Close() //nolint:errcheck // best-effort close; data already consumed by the scan below

	lv := v5.NewListVisitor(rank)
	scanOpts := v5.ScanOptions{MaxDecompressedSize: cfg.maxDecompressedSize, MaxNestingDepth: cfg.maxNestingDepth}
	if err := v5.ScanElements(fv.Data, headerSize, fv.Order(), lv.Visit, scanOpts); err != nil {
		return nil, translateScanErr(err)
	}

	out := make([]Descriptor, len(lv.Results))
	for i, d := range lv.Results {
		out[i] = Descriptor{Name: d.Name, Dims: d.Dims, Type: d.Type}
	}
	return out, nil
}

func translateOpenErr(err error) error {
	switch {
	case errors.Is(err, v5.ErrNotAContainer):
		return fmt.Errorf("%w: %v", ErrNotAContainer, err) //nolint:errorlint // wraps the internal v5 sentinel by message
	case errors.Is(err, v5.ErrIOUnavailable):
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps the internal v5 sentinel by message
	default:
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps an unclassified open error
	}
}

func translateScanErr(err error) error {
	switch {
	case errors.Is(err, v5.ErrCorruptCompressedStream):
		return fmt.Errorf("%w: %v", ErrCorruptCompressedStream, err) //nolint:errorlint // wraps the internal v5 sentinel by message
	case errors.Is(err, v5.ErrMalformedElement), errors.Is(err, v5.ErrNestingTooDeep), errors.Is(err, v5.ErrEndOfStream):
		return fmt.Errorf("%w: %v", ErrMalformedElement, err) //nolint:errorlint // wraps the internal v5 sentinel by message
	case errors.Is(err, v5.ErrOverflow):
		return fmt.Errorf("%w: %v", ErrMalformedElement, err) //nolint:errorlint // overflow surfaces to callers as a malformed element
	default:
		return fmt.Errorf("%w: %v", ErrMalformedElement, err) //nolint:errorlint // wraps an unclassified scan error
	}
}

func translateWriteErr(err error) error {
	switch {
	case errors.Is(err, v5.ErrMalformedElement), errors.Is(err, v5.ErrOverflow):
		return fmt.Errorf("%w: %v", ErrMalformedElement, err) //nolint:errorlint // wraps the internal v5 sentinel by message
	case errors.Is(err, v5.ErrIOUnavailable):
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps the internal v5 sentinel by message
	default:
		return fmt.Errorf("%w: %v", ErrIOUnavailable, err) //nolint:errorlint // wraps an unclassified write error
	}
}

// createFile creates path for writing, truncating any existing content.
func createFile(path string) (*os.File, error) {
	return os.Create(path) //nolint:gosec // G304: path is caller-supplied, expected for a file-format library
}
