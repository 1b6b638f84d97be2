package v5

import (
	"encoding/binary"
	"unsafe"
)

// hostIsLittleEndian reports the native byte order of the running process.
// It is a pure function: no package-level state is consulted or mutated.
func hostIsLittleEndian() bool {
	var x uint16 = 1
	return (*[2]byte)(unsafe.Pointer(&x))[0] == 1
}

// readUint32 reads a 32-bit word at offset in data under the given order.
// The caller must have already bounds-checked offset+4 <= len(data).
func readUint32(data []byte, offset int, order binary.ByteOrder) uint32 {
	return order.Uint32(data[offset : offset+4])
}

// readUint64 reads a 64-bit word at offset in data under the given order.
// The caller must have already bounds-checked offset+8 <= len(data).
func readUint64(data []byte, offset int, order binary.ByteOrder) uint64 {
	return order.Uint64(data[offset : offset+8])
}

// swap16 byte-swaps a 16-bit word.
func swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

// swap32 byte-swaps a 32-bit word.
func swap32(v uint32) uint32 {
	return v<<24 | (v<<8)&0x00FF0000 | (v>>8)&0x0000FF00 | v>>24
}

// swap64 byte-swaps a 64-bit word.
func swap64(v uint64) uint64 {
	return v<<56 |
		(v<<40)&0x00FF000000000000 |
		(v<<24)&0x0000FF0000000000 |
		(v<<8)&0x000000FF00000000 |
		(v>>8)&0x00000000FF000000 |
		(v>>24)&0x0000000000FF0000 |
		(v>>40)&0x000000000000FF00 |
		v>>56
}

// swapElementsInPlace byte-swaps every elemSize-wide element of data in
// place. 1-byte elements are a no-op.
func swapElementsInPlace(data []byte, elemSize int) {
	switch elemSize {
	case 1:
		return
	case 2:
		for i := 0; i+2 <= len(data); i += 2 {
			binary.LittleEndian.PutUint16(data[i:], swap16(binary.LittleEndian.Uint16(data[i:])))
		}
	case 4:
		for i := 0; i+4 <= len(data); i += 4 {
			binary.LittleEndian.PutUint32(data[i:], swap32(binary.LittleEndian.Uint32(data[i:])))
		}
	case 8:
		for i := 0; i+8 <= len(data); i += 8 {
			binary.LittleEndian.PutUint64(data[i:], swap64(binary.LittleEndian.Uint64(data[i:])))
		}
	}
}
