package v5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"github.com/scigolib/cubemat/types"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

func TestNewWriterWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, "writer test"); err != nil {
		t.Fatalf("NewWriter() unexpected error: %v", err)
	}
	if buf.Len() != headerSize {
		t.Fatalf("buffer length = %d, want %d", buf.Len(), headerSize)
	}

	hdr, err := parseHeader(buf.Bytes())
	if err != nil {
		t.Fatalf("parseHeader() unexpected error: %v", err)
	}
	if hdr.Order != binary.LittleEndian {
		t.Errorf("Order = %v, want LittleEndian", hdr.Order)
	}
	if hdr.Description != "writer test" {
		t.Errorf("Description = %q, want %q", hdr.Description, "writer test")
	}
}

func TestWriteVariableThenParseMatrixPayload(t *testing.T) {
	var buf bytes.Buffer
	wtr, err := NewWriter(&buf, "round trip")
	if err != nil {
		t.Fatalf("NewWriter() unexpected error: %v", err)
	}

	data := make([]byte, 2*2*8)
	for i := range data {
		data[i] = byte(i)
	}
	req := WriteRequest{Name: "v", Dims: []int{2, 2}, Type: types.Double, Data: data}
	if err := wtr.WriteVariable(req); err != nil {
		t.Fatalf("WriteVariable() unexpected error: %v", err)
	}

	var seen bool
	visit := func(m parsedMatrix, _ binary.ByteOrder) (bool, error) {
		seen = true
		if m.Name != "v" {
			t.Errorf("Name = %q, want v", m.Name)
		}
		return false, nil
	}
	if err := ScanElements(buf.Bytes(), headerSize, binary.LittleEndian, visit, DefaultScanOptions()); err != nil {
		t.Fatalf("ScanElements() unexpected error: %v", err)
	}
	if !seen {
		t.Error("visitor was never invoked")
	}
}

func TestValidateWriteRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     WriteRequest
		wantErr bool
	}{
		{
			name:    "valid rank-2",
			req:     WriteRequest{Name: "a", Dims: []int{2, 3}, Type: types.Double, Data: make([]byte, 2*3*8)},
			wantErr: false,
		},
		{
			name:    "valid rank-3",
			req:     WriteRequest{Name: "a", Dims: []int{2, 3, 4}, Type: types.Single, Data: make([]byte, 2*3*4*4)},
			wantErr: false,
		},
		{
			name:    "empty name",
			req:     WriteRequest{Name: "", Dims: []int{2, 2}, Type: types.Double, Data: make([]byte, 2*2*8)},
			wantErr: true,
		},
		{
			name:    "wrong rank",
			req:     WriteRequest{Name: "a", Dims: []int{2}, Type: types.Double, Data: make([]byte, 2*8)},
			wantErr: true,
		},
		{
			name:    "zero dimension",
			req:     WriteRequest{Name: "a", Dims: []int{2, 0}, Type: types.Double, Data: nil},
			wantErr: true,
		},
		{
			name:    "data length mismatch",
			req:     WriteRequest{Name: "a", Dims: []int{2, 2}, Type: types.Double, Data: make([]byte, 4)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWriteRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWriteRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrMalformedElement) {
				t.Errorf("error = %v, want ErrMalformedElement", err)
			}
		})
	}
}

func TestWriteCompressedMatrixRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHeader(&buf, "compressed", binary.LittleEndian, "IM"); err != nil {
		t.Fatalf("WriteHeader() unexpected error: %v", err)
	}

	data := make([]byte, 4*4*8)
	req := WriteRequest{Name: "c", Dims: []int{4, 4}, Type: types.Double, Data: data, Compress: true, CompressLevel: 6}
	if err := WriteMatrix(&buf, req, binary.LittleEndian); err != nil {
		t.Fatalf("WriteMatrix() unexpected error: %v", err)
	}

	var seen bool
	visit := func(m parsedMatrix, _ binary.ByteOrder) (bool, error) {
		seen = true
		if m.Name != "c" {
			t.Errorf("Name = %q, want c", m.Name)
		}
		if len(m.Data) != len(data) {
			t.Errorf("Data length = %d, want %d", len(m.Data), len(data))
		}
		return false, nil
	}
	if err := ScanElements(buf.Bytes(), headerSize, binary.LittleEndian, visit, DefaultScanOptions()); err != nil {
		t.Fatalf("ScanElements() unexpected error: %v", err)
	}
	if !seen {
		t.Error("visitor was never invoked")
	}
}

func TestAppendMatrixPreservesExistingHeader(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/append.cube"

	var buf bytes.Buffer
	wtr, err := NewWriter(&buf, "appendable")
	if err != nil {
		t.Fatalf("NewWriter() unexpected error: %v", err)
	}
	first := make([]byte, 2*2*8)
	if err := wtr.WriteVariable(WriteRequest{Name: "first", Dims: []int{2, 2}, Type: types.Double, Data: first}); err != nil {
		t.Fatalf("WriteVariable() unexpected error: %v", err)
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		t.Fatalf("writeFile() unexpected error: %v", err)
	}

	second := make([]byte, 3*3*8)
	req := WriteRequest{Name: "second", Dims: []int{3, 3}, Type: types.Double, Data: second}
	if err := AppendMatrix(path, req, binary.LittleEndian); err != nil {
		t.Fatalf("AppendMatrix() unexpected error: %v", err)
	}

	fv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	defer fv.Close() //nolint:errcheck // test cleanup

	var names []string
	visit := func(m parsedMatrix, _ binary.ByteOrder) (bool, error) {
		names = append(names, m.Name)
		return false, nil
	}
	if err := ScanElements(fv.Data, headerSize, fv.Order(), visit, DefaultScanOptions()); err != nil {
		t.Fatalf("ScanElements() unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("names = %v, want [first second]", names)
	}
}
