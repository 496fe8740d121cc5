// Copyright 2026 SciPix Imaging Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package img

import (
	"github.com/scipix/scipix/internal/img"
)

// Type aliases for public API

// Image is the strided array handle. See the package documentation for the
// raw/forged lifecycle and view semantics.
type Image = img.Image

// DataType identifies the in-memory representation of one sample.
type DataType = img.DataType

// Sample type constants.
const (
	Bin        DataType = img.Bin
	Uint8      DataType = img.Uint8
	Uint16     DataType = img.Uint16
	Uint32     DataType = img.Uint32
	Int8       DataType = img.Int8
	Int16      DataType = img.Int16
	Int32      DataType = img.Int32
	Float32    DataType = img.Float32
	Float64    DataType = img.Float64
	Complex64  DataType = img.Complex64
	Complex128 DataType = img.Complex128
)

// Classes is a bitmask over data types, used to constrain the types an
// operation accepts (see Image.CheckProperties).
type Classes = img.Classes

// Singleton classes, one per data type.
const (
	ClassBin        Classes = img.ClassBin
	ClassUint8      Classes = img.ClassUint8
	ClassUint16     Classes = img.ClassUint16
	ClassUint32     Classes = img.ClassUint32
	ClassInt8       Classes = img.ClassInt8
	ClassInt16      Classes = img.ClassInt16
	ClassInt32      Classes = img.ClassInt32
	ClassFloat32    Classes = img.ClassFloat32
	ClassFloat64    Classes = img.ClassFloat64
	ClassComplex64  Classes = img.ClassComplex64
	ClassComplex128 Classes = img.ClassComplex128
)

// Class unions.
const (
	ClassUnsigned   Classes = img.ClassUnsigned
	ClassSigned     Classes = img.ClassSigned
	ClassInteger    Classes = img.ClassInteger
	ClassFloat      Classes = img.ClassFloat
	ClassReal       Classes = img.ClassReal
	ClassComplex    Classes = img.ClassComplex
	ClassNonBinary  Classes = img.ClassNonBinary
	ClassNonComplex Classes = img.ClassNonComplex
	ClassAny        Classes = img.ClassAny
)

// Tensor describes the per-pixel channel dimension: a scalar, a vector, or
// a small matrix with one of the TensorShape layouts.
type Tensor = img.Tensor

// TensorShape tags the matrix layout of the tensor dimension.
type TensorShape = img.TensorShape

// Tensor layout constants.
const (
	ColVector             TensorShape = img.ColVector
	RowVector             TensorShape = img.RowVector
	ColMajorMatrix        TensorShape = img.ColMajorMatrix
	RowMajorMatrix        TensorShape = img.RowMajorMatrix
	DiagonalMatrix        TensorShape = img.DiagonalMatrix
	SymmetricMatrix       TensorShape = img.SymmetricMatrix
	UpperTriangularMatrix TensorShape = img.UpperTriangularMatrix
	LowerTriangularMatrix TensorShape = img.LowerTriangularMatrix
)

// Range selects a regular subset of one dimension for Image.Window.
// Stop is inclusive; negative values count from the end of the dimension.
type Range = img.Range

// CmpProps selects which properties Image.CompareProperties examines.
type CmpProps = img.CmpProps

// Property selection bits and common combinations.
const (
	CmpDataType       CmpProps = img.CmpDataType
	CmpDimensionality CmpProps = img.CmpDimensionality
	CmpSizes          CmpProps = img.CmpSizes
	CmpStrides        CmpProps = img.CmpStrides
	CmpTensorShape    CmpProps = img.CmpTensorShape
	CmpTensorElements CmpProps = img.CmpTensorElements
	CmpTensorStride   CmpProps = img.CmpTensorStride
	CmpColorSpace     CmpProps = img.CmpColorSpace
	CmpPixelSize      CmpProps = img.CmpPixelSize

	CmpSamples CmpProps = img.CmpSamples
	CmpShape   CmpProps = img.CmpShape
	CmpFull    CmpProps = img.CmpFull
	CmpAll     CmpProps = img.CmpAll
)

// PhysicalQuantity is a magnitude with a unit string, such as 0.5 "um".
type PhysicalQuantity = img.PhysicalQuantity

// PixelSize records the physical extent of one pixel per dimension.
type PixelSize = img.PixelSize

// CoordinatesComputer converts sample offsets or linear indices back to
// coordinates. Build one with Image.OffsetToCoordinatesComputer or
// Image.IndexToCoordinatesComputer.
type CoordinatesComputer = img.CoordinatesComputer

// Error sentinels. Every failure returned by this package wraps exactly one
// of these; classify with errors.Is.
var (
	ErrNotForged       = img.ErrNotForged
	ErrNotRaw          = img.ErrNotRaw
	ErrDomain          = img.ErrDomain
	ErrShapeMismatch   = img.ErrShapeMismatch
	ErrUnsupportedType = img.ErrUnsupportedType
	ErrProtected       = img.ErrProtected
)

// Creation functions

// New creates a raw zero-dimensional scalar image of type Float32. Set
// sizes, tensor layout and type as needed, then call Forge.
//
// Example:
//
//	im := img.New()
//	im.SetSizes([]int{256, 256})
//	im.SetDataType(img.Uint16)
//	err := im.Forge()
func New() *Image {
	return img.New()
}

// NewImage creates a forged image with the given sizes, tensor element
// count and data type, using normal (compact) strides.
//
// Example:
//
//	im, err := img.NewImage([]int{640, 480}, 3, img.Uint8)
func NewImage(sizes []int, tensorElements int, dt DataType) (*Image, error) {
	return img.NewImage(sizes, tensorElements, dt)
}

// NewLike creates an independent image with the same geometry, type and
// metadata as src, backed by a freshly forged buffer. Sample values are not
// copied; use NewCopy for that.
func NewLike(src *Image) (*Image, error) {
	return img.NewLike(src)
}

// NewLikeWithType is NewLike with a different sample type.
func NewLikeWithType(src *Image, dt DataType) (*Image, error) {
	return img.NewLikeWithType(src, dt)
}

// NewCopy creates an independent image holding a copy of src's samples.
//
// Example:
//
//	dup, err := img.NewCopy(im)
func NewCopy(src *Image) (*Image, error) {
	return img.NewCopy(src)
}

// NewConverted creates an independent image holding src's samples converted
// to the given type, with clamping.
func NewConverted(src *Image, dt DataType) (*Image, error) {
	return img.NewConverted(src, dt)
}

// NewFromBuffer builds a forged image over an externally owned buffer.
// strides may be nil to use the normal layout. free, when non-nil, runs
// once when the last image referencing the buffer drops it.
//
// This is a low-level function for bridging to memory allocated elsewhere.
// Most users should use NewImage or an ExternalInterface instead.
func NewFromBuffer(data []byte, free func(), dt DataType, sizes []int, strides []int, tensor Tensor, tensorStride int) (*Image, error) {
	return img.NewFromBuffer(data, free, dt, sizes, strides, tensor, tensorStride)
}

// Indexing helpers

// FullRange returns the Range selecting a whole dimension.
func FullRange() Range {
	return img.FullRange()
}

// DefineROI creates a view of src with the given per-dimension origin,
// sizes and spacing. A nil slice keeps the default: origin zero, the
// largest size that fits, spacing one.
//
// Example:
//
//	roi, err := img.DefineROI(im, []int{10, 10}, []int{100, 100}, nil)
func DefineROI(src *Image, origin, sizes, spacing []int) (*Image, error) {
	return img.DefineROI(src, origin, sizes, spacing)
}

// Alias reports whether a and b can reach a common sample. Always false
// when either is raw.
func Alias(a, b *Image) bool {
	return img.Alias(a, b)
}

// Tensor layout constructors

// ScalarTensor returns the channel layout of a scalar image: one element.
func ScalarTensor() Tensor {
	return img.ScalarTensor()
}

// VectorTensor returns a column vector of n elements.
func VectorTensor(n int) Tensor {
	return img.VectorTensor(n)
}

// MatrixTensor returns a column-major full matrix of rows × cols elements.
func MatrixTensor(rows, cols int) Tensor {
	return img.MatrixTensor(rows, cols)
}

// ShapedTensor builds a tensor with an explicit layout tag, including the
// packed diagonal, symmetric and triangular layouts. rows is the matrix row
// count (or vector length) and n the stored element count.
//
// Example:
//
//	t, err := img.ShapedTensor(img.SymmetricMatrix, 3, 6)
//	im := img.New()
//	im.SetTensor(t)
func ShapedTensor(shape TensorShape, rows, n int) (Tensor, error) {
	return img.ShapedTensor(shape, rows, n)
}

// NewPixelSize builds a PixelSize from per-dimension quantities; the last
// one repeats for higher dimensions.
//
// Example:
//
//	ps := img.NewPixelSize(img.PhysicalQuantity{Magnitude: 0.5, Units: "um"})
//	im.SetPixelSize(ps)
func NewPixelSize(sizes ...PhysicalQuantity) PixelSize {
	return img.NewPixelSize(sizes...)
}
