package v5

import (
	"encoding/binary"
	"testing"
)

func makeHeader(desc string, version uint16, endian string) []byte {
	buf := make([]byte, headerSize)
	copy(buf, []byte(desc))
	for i := len(desc); i < 124; i++ {
		buf[i] = ' '
	}
	order := binary.LittleEndian
	if endian == "MI" {
		order = binary.BigEndian
	}
	order.PutUint16(buf[124:126], version)
	copy(buf[126:128], endian)
	return buf
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name        string
		header      []byte
		wantDesc    string
		wantVersion uint16
		wantOrder   binary.ByteOrder
		wantErr     bool
	}{
		{
			name:        "valid little endian",
			header:      makeHeader("cubemat container", 0x0100, "IM"),
			wantDesc:    "cubemat container",
			wantVersion: 0x0100,
			wantOrder:   binary.LittleEndian,
		},
		{
			name:        "valid big endian",
			header:      makeHeader("cubemat container", 0x0100, "MI"),
			wantDesc:    "cubemat container",
			wantVersion: 0x0100,
			wantOrder:   binary.BigEndian,
		},
		{
			name:        "trailing null padding",
			header:      makeHeader("short\x00\x00\x00", 0x0100, "IM"),
			wantDesc:    "short",
			wantVersion: 0x0100,
			wantOrder:   binary.LittleEndian,
		},
		{
			name:    "too short",
			header:  make([]byte, 64),
			wantErr: true,
		},
		{
			name:    "unrecognized endian indicator",
			header:  makeHeader("bad", 0x0100, "XX"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHeader(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHeader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", got.Description, tt.wantDesc)
			}
			if got.Version != tt.wantVersion {
				t.Errorf("Version = 0x%04x, want 0x%04x", got.Version, tt.wantVersion)
			}
			if got.Order != tt.wantOrder {
				t.Errorf("Order = %v, want %v", got.Order, tt.wantOrder)
			}
		})
	}
}

func TestWriteHeaderRoundTrip(t *testing.T) {
	header := writeHeader("round trip test", binary.LittleEndian, "IM")
	if len(header) != headerSize {
		t.Fatalf("writeHeader() length = %d, want %d", len(header), headerSize)
	}

	got, err := parseHeader(header)
	if err != nil {
		t.Fatalf("parseHeader() unexpected error: %v", err)
	}
	if got.Description != "round trip test" {
		t.Errorf("Description = %q, want %q", got.Description, "round trip test")
	}
	if got.Order != binary.LittleEndian {
		t.Errorf("Order = %v, want LittleEndian", got.Order)
	}
	if got.Version != 0x0100 {
		t.Errorf("Version = 0x%04x, want 0x0100", got.Version)
	}
}

func TestWriteHeaderTruncatesLongDescription(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	header := writeHeader(string(long), binary.LittleEndian, "IM")

	got, err := parseHeader(header)
	if err != nil {
		t.Fatalf("parseHeader() unexpected error: %v", err)
	}
	if len(got.Description) != 116 {
		t.Errorf("Description length = %d, want 116", len(got.Description))
	}
}
