package v5

import (
	"encoding/binary"

	"github.com/scigolib/cubemat/types"
)

// Descriptor is the internal counterpart of the public package's
// Descriptor: a name, a 3-slot dimension vector, and an element type.
type Descriptor struct {
	Name string
	Dims [3]int
	Type types.DataType
}

// LoadResult is the internal counterpart of the public package's Cube,
// carrying an owned (copied-out) data buffer.
type LoadResult struct {
	Name string
	Dims [3]int
	Rank int
	Type types.DataType
	Data []byte
}

// LoadVisitor matches matrices of a given rank (and, if Name is non-empty,
// an exact name) and copies the first match into an owned buffer. Per the
// container's "first match wins" convention on duplicate names, the first
// matching matrix encountered in file order is kept and the scan stops.
type LoadVisitor struct {
	Rank  int
	Name  string // empty matches any name
	Found bool
	Result LoadResult
}

// NewLoadVisitor constructs a LoadVisitor for the given rank and optional
// exact name (pass "" to match the first supported matrix of that rank).
func NewLoadVisitor(rank int, name string) *LoadVisitor {
	return &LoadVisitor{Rank: rank, Name: name}
}

// Visit implements the Visitor signature used by ScanElements.
func (v *LoadVisitor) Visit(m parsedMatrix, order binary.ByteOrder) (bool, error) {
	if v.Found {
		return true, nil
	}
	if m.Rank != v.Rank {
		return false, nil
	}
	if v.Name != "" && m.Name != v.Name {
		return false, nil
	}

	buf := make([]byte, len(m.Data))
	copy(buf, m.Data)

	if order == binary.BigEndian {
		swapElementsInPlace(buf, m.ElemSize)
	}

	v.Result = LoadResult{
		Name: m.Name,
		Dims: m.Dims,
		Rank: m.Rank,
		Type: m.Type,
		Data: buf,
	}
	v.Found = true
	return true, nil
}

// ListVisitor accumulates a descriptor for every supported matrix of the
// requested rank, in discovery order.
type ListVisitor struct {
	Rank    int
	Results []Descriptor
}

// NewListVisitor constructs a ListVisitor for the given rank.
func NewListVisitor(rank int) *ListVisitor {
	return &ListVisitor{Rank: rank, Results: make([]Descriptor, 0, 8)}
}

// Visit implements the Visitor signature used by ScanElements.
func (v *ListVisitor) Visit(m parsedMatrix, _ binary.ByteOrder) (bool, error) {
	if m.Rank != v.Rank {
		return false, nil
	}
	name := m.Name
	if name == "" {
		name = "unnamed"
	}
	v.Results = append(v.Results, Descriptor{Name: name, Dims: m.Dims, Type: m.Type})
	return false, nil
}
