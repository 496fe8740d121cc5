// Package img provides the core strided image array type for the scipix library.
package img

// DataType identifies the in-memory representation of one sample.
type DataType int

// Supported sample types.
const (
	Bin DataType = iota
	Uint8
	Uint16
	Uint32
	Int8
	Int16
	Int32
	Float32
	Float64
	Complex64
	Complex128
)

// SizeOf returns the byte size of one sample of this type.
func (dt DataType) SizeOf() int {
	switch dt {
	case Bin, Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bin:
		return "bin"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// IsBinary returns true for the binary type.
func (dt DataType) IsBinary() bool {
	return dt == Bin
}

// IsUnsigned returns true for unsigned integer types.
func (dt DataType) IsUnsigned() bool {
	return dt == Uint8 || dt == Uint16 || dt == Uint32
}

// IsSigned returns true for signed integer types.
func (dt DataType) IsSigned() bool {
	return dt == Int8 || dt == Int16 || dt == Int32
}

// IsInteger returns true for integer types, signed or unsigned.
func (dt DataType) IsInteger() bool {
	return dt.IsUnsigned() || dt.IsSigned()
}

// IsFloat returns true for floating-point types.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// IsReal returns true for integer and floating-point types.
func (dt DataType) IsReal() bool {
	return dt.IsInteger() || dt.IsFloat()
}

// IsComplex returns true for complex types.
func (dt DataType) IsComplex() bool {
	return dt == Complex64 || dt == Complex128
}

// Real returns the real-valued counterpart of the type: complex types map to
// the float type of their components, all other types map to themselves.
func (dt DataType) Real() DataType {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

// Class returns the singleton class bit for this type.
func (dt DataType) Class() Classes {
	return 1 << uint(dt)
}

// Classes is a bitmask over data types, used to constrain the types an
// operation accepts. Collaborators pass one of the unions below (or a
// combination) to CheckProperties at algorithm entry.
type Classes uint16

// Singleton classes, one per data type.
const (
	ClassBin Classes = 1 << iota
	ClassUint8
	ClassUint16
	ClassUint32
	ClassInt8
	ClassInt16
	ClassInt32
	ClassFloat32
	ClassFloat64
	ClassComplex64
	ClassComplex128
)

// Class unions.
const (
	ClassUnsigned   = ClassUint8 | ClassUint16 | ClassUint32
	ClassSigned     = ClassInt8 | ClassInt16 | ClassInt32
	ClassInteger    = ClassUnsigned | ClassSigned
	ClassFloat      = ClassFloat32 | ClassFloat64
	ClassReal       = ClassInteger | ClassFloat
	ClassComplex    = ClassComplex64 | ClassComplex128
	ClassNonBinary  = ClassReal | ClassComplex
	ClassNonComplex = ClassBin | ClassReal
	ClassAny        = ClassBin | ClassNonBinary
)

// Contains reports whether dt's class is part of the mask.
func (c Classes) Contains(dt DataType) bool {
	return c&dt.Class() != 0
}
