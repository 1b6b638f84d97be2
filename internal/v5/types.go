package v5

import "github.com/scigolib/cubemat/types"

// Container data-type codes (tag type field of a raw sub-element).
//
//nolint:revive // MATLAB official naming convention from specification
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
	miUTF16      = 17
	miUTF32      = 18
)

// Container class codes (low byte of the array-flags first word).
//
//nolint:revive // MATLAB official naming convention from specification
const (
	mxCELL_CLASS   = 1
	mxSTRUCT_CLASS = 2
	mxOBJECT_CLASS = 3
	mxCHAR_CLASS   = 4
	mxDOUBLE_CLASS = 6
	mxSINGLE_CLASS = 7
	mxINT8_CLASS   = 8
	mxUINT8_CLASS  = 9
	mxINT16_CLASS  = 10
	mxUINT16_CLASS = 11
	mxINT32_CLASS  = 12
	mxUINT32_CLASS = 13
	mxINT64_CLASS  = 14
	mxUINT64_CLASS = 15
)

// classToDataType converts a container class code into the in-memory
// DataType. Non-numeric and unsupported classes return (_, false).
func classToDataType(class uint32) (types.DataType, bool) {
	switch class {
	case mxDOUBLE_CLASS:
		return types.Double, true
	case mxSINGLE_CLASS:
		return types.Single, true
	case mxINT8_CLASS:
		return types.Int8, true
	case mxUINT8_CLASS:
		return types.Uint8, true
	case mxINT16_CLASS:
		return types.Int16, true
	case mxUINT16_CLASS:
		return types.Uint16, true
	default:
		return 0, false
	}
}

// dataTypeToClass converts an in-memory DataType to its container class code.
func dataTypeToClass(dt types.DataType) uint32 {
	switch dt {
	case types.Double:
		return mxDOUBLE_CLASS
	case types.Single:
		return mxSINGLE_CLASS
	case types.Int8:
		return mxINT8_CLASS
	case types.Uint8:
		return mxUINT8_CLASS
	case types.Int16:
		return mxINT16_CLASS
	case types.Uint16:
		return mxUINT16_CLASS
	default:
		return mxDOUBLE_CLASS
	}
}

// dataTypeToContainerType converts an in-memory DataType to the raw
// sub-element data-type code used for the real-data tag.
func dataTypeToContainerType(dt types.DataType) uint32 {
	switch dt {
	case types.Double:
		return miDOUBLE
	case types.Single:
		return miSINGLE
	case types.Int8:
		return miINT8
	case types.Uint8:
		return miUINT8
	case types.Int16:
		return miINT16
	case types.Uint16:
		return miUINT16
	default:
		return miDOUBLE
	}
}

// containerTypeToDataType is the inverse of dataTypeToContainerType, used to
// check that the real-data sub-element's raw type agrees with the class code
// carried in the array-flags sub-element.
func containerTypeToDataType(raw uint32) (types.DataType, bool) {
	switch raw {
	case miDOUBLE:
		return types.Double, true
	case miSINGLE:
		return types.Single, true
	case miINT8:
		return types.Int8, true
	case miUINT8:
		return types.Uint8, true
	case miINT16:
		return types.Int16, true
	case miUINT16:
		return types.Uint16, true
	default:
		return 0, false
	}
}

// isDimensionType reports whether a raw sub-element type is one of the
// integer encodings legal for a dimensions-array sub-element.
func isDimensionType(raw uint32) bool {
	switch raw {
	case miINT32, miUINT32, miINT64, miUINT64:
		return true
	default:
		return false
	}
}

// isNameType reports whether a raw sub-element type is one of the encodings
// legal for the variable-name sub-element.
func isNameType(raw uint32) bool {
	switch raw {
	case miINT8, miUINT8, miUTF8, miUTF16, miUTF32:
		return true
	default:
		return false
	}
}
