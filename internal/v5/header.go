package v5

import (
	"encoding/binary"
	"errors"
	"strings"
)

// headerSize is the fixed size of the MAT5 file header.
const headerSize = 128

// ErrNotAContainer indicates the input is shorter than the header size or
// carries an endian marker this parser does not recognize.
var ErrNotAContainer = errors.New("v5: not a MAT5 container")

// Header describes the fixed 128-byte preamble of a MAT5 file.
type Header struct {
	Description     string
	Version         uint16
	EndianIndicator string
	Order           binary.ByteOrder
}

// parseHeader validates and decodes a 128-byte MAT5 header.
func parseHeader(data []byte) (*Header, error) {
	if len(data) < headerSize {
		return nil, ErrNotAContainer
	}

	hdr := &Header{
		Description:     strings.TrimRight(string(data[:116]), "\x00 "),
		EndianIndicator: string(data[126:128]),
	}

	switch hdr.EndianIndicator {
	case "IM":
		hdr.Order = binary.LittleEndian
	case "MI":
		hdr.Order = binary.BigEndian
	default:
		return nil, ErrNotAContainer
	}

	hdr.Version = hdr.Order.Uint16(data[124:126])
	return hdr, nil
}

// writeHeader encodes a 128-byte MAT5 header for description/order/endian.
func writeHeader(description string, order binary.ByteOrder, endianIndicator string) []byte {
	header := make([]byte, headerSize)

	desc := description
	if len(desc) > 116 {
		desc = desc[:116]
	}
	copy(header, []byte(desc))
	for i := len(desc); i < 116; i++ {
		header[i] = ' '
	}

	order.PutUint16(header[124:126], 0x0100)
	copy(header[126:128], endianIndicator)

	return header
}
