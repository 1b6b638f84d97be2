package v5

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFileValidHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.cube")
	data := writeHeader("file test fixture", binary.LittleEndian, "IM")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	fv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	defer fv.Close() //nolint:errcheck // test cleanup

	if fv.Order() != binary.LittleEndian {
		t.Errorf("Order() = %v, want LittleEndian", fv.Order())
	}
	if fv.Header.Description != "file test fixture" {
		t.Errorf("Description = %q, want %q", fv.Header.Description, "file test fixture")
	}
	if len(fv.Data) != headerSize {
		t.Errorf("Data length = %d, want %d", len(fv.Data), headerSize)
	}
}

func TestOpenFileTooShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.cube")
	if err := os.WriteFile(path, []byte("too short"), 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	if _, err := OpenFile(path); err == nil {
		t.Error("expected an error opening a too-short file")
	}
}

func TestOpenFileMissing(t *testing.T) {
	if _, err := OpenFile(filepath.Join(t.TempDir(), "does-not-exist.cube")); err == nil {
		t.Error("expected an error opening a missing file")
	}
}

func TestFileViewCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.cube")
	data := writeHeader("close test", binary.LittleEndian, "IM")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	fv, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	if err := fv.Close(); err != nil {
		t.Errorf("first Close() unexpected error: %v", err)
	}
	if err := fv.Close(); err != nil {
		t.Errorf("second Close() unexpected error: %v", err)
	}
}
