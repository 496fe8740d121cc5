package img

import (
	"fmt"
	"slices"
)

// CmpProps selects which properties CompareProperties examines.
type CmpProps uint16

const (
	CmpDataType CmpProps = 1 << iota
	CmpDimensionality
	CmpSizes
	CmpStrides
	CmpTensorShape
	CmpTensorElements
	CmpTensorStride
	CmpColorSpace
	CmpPixelSize

	// CmpSamples: the two images have the same sample grid and type.
	CmpSamples = CmpDataType | CmpDimensionality | CmpSizes | CmpTensorElements
	// CmpShape: the same logical shape, whatever the type or layout.
	CmpShape = CmpDimensionality | CmpSizes | CmpTensorShape | CmpTensorElements
	// CmpFull: the same layout in memory.
	CmpFull = CmpSamples | CmpTensorShape | CmpStrides | CmpTensorStride
	// CmpAll: everything, metadata included.
	CmpAll = CmpFull | CmpColorSpace | CmpPixelSize
)

// CompareProperties checks the selected properties of im against other
// and returns nil when they all match, or an error naming the first
// mismatch. Works on raw and forged images alike.
func (im *Image) CompareProperties(other *Image, cmp CmpProps) error {
	if cmp&CmpDataType != 0 && im.dtype != other.dtype {
		return fmt.Errorf("CompareProperties: %w: data type %s vs %s", ErrUnsupportedType, im.dtype, other.dtype)
	}
	if cmp&CmpDimensionality != 0 && len(im.sizes) != len(other.sizes) {
		return fmt.Errorf("CompareProperties: %w: dimensionality %d vs %d", ErrShapeMismatch, len(im.sizes), len(other.sizes))
	}
	if cmp&CmpSizes != 0 && !slices.Equal(im.sizes, other.sizes) {
		return fmt.Errorf("CompareProperties: %w: sizes %v vs %v", ErrShapeMismatch, im.sizes, other.sizes)
	}
	if cmp&CmpStrides != 0 && !slices.Equal(im.strides, other.strides) {
		return fmt.Errorf("CompareProperties: %w: strides %v vs %v", ErrShapeMismatch, im.strides, other.strides)
	}
	if cmp&CmpTensorShape != 0 && im.tensor != other.tensor {
		return fmt.Errorf("CompareProperties: %w: tensor %s vs %s", ErrShapeMismatch, im.tensor, other.tensor)
	}
	if cmp&CmpTensorElements != 0 && im.tensor.Elements() != other.tensor.Elements() {
		return fmt.Errorf("CompareProperties: %w: %d vs %d tensor elements", ErrShapeMismatch, im.tensor.Elements(), other.tensor.Elements())
	}
	if cmp&CmpTensorStride != 0 && im.tensorStride != other.tensorStride {
		return fmt.Errorf("CompareProperties: %w: tensor stride %d vs %d", ErrShapeMismatch, im.tensorStride, other.tensorStride)
	}
	if cmp&CmpColorSpace != 0 && im.colorSpace != other.colorSpace {
		return fmt.Errorf("CompareProperties: %w: color space %q vs %q", ErrShapeMismatch, im.colorSpace, other.colorSpace)
	}
	if cmp&CmpPixelSize != 0 && !im.pixelSize.equal(other.pixelSize) {
		return fmt.Errorf("CompareProperties: %w: pixel sizes differ", ErrShapeMismatch)
	}
	return nil
}

// CheckProperties validates a forged image at an algorithm entry point:
// exact dimensionality (negative skips the check), exact tensor element
// count (non-positive skips), and a data type within the given classes
// (zero skips).
func (im *Image) CheckProperties(ndims, tensorElements int, dts Classes) error {
	if !im.IsForged() {
		return fmt.Errorf("CheckProperties: %w", ErrNotForged)
	}
	if ndims >= 0 && len(im.sizes) != ndims {
		return fmt.Errorf("CheckProperties: %w: dimensionality %d, need %d", ErrShapeMismatch, len(im.sizes), ndims)
	}
	if tensorElements > 0 && im.tensor.Elements() != tensorElements {
		return fmt.Errorf("CheckProperties: %w: %d tensor elements, need %d", ErrShapeMismatch, im.tensor.Elements(), tensorElements)
	}
	if dts != 0 && !dts.Contains(im.dtype) {
		return fmt.Errorf("CheckProperties: %w: %s", ErrUnsupportedType, im.dtype)
	}
	return nil
}

// CheckSizes validates a forged image against exact sizes as well.
func (im *Image) CheckSizes(sizes []int, tensorElements int, dts Classes) error {
	if err := im.CheckProperties(len(sizes), tensorElements, dts); err != nil {
		return fmt.Errorf("CheckSizes: %w", err)
	}
	if !slices.Equal(im.sizes, sizes) {
		return fmt.Errorf("CheckSizes: %w: sizes %v, need %v", ErrShapeMismatch, im.sizes, sizes)
	}
	return nil
}
