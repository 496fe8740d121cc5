// Package aligned provides an allocation strategy that starts every image
// row on a fixed alignment boundary, for vectorized kernels that want
// aligned loads along the fastest dimension.
package aligned

import (
	"unsafe"

	"github.com/scipix/scipix/internal/img"
)

// Allocator implements img.ExternalInterface. It discards the proposed
// compact layout and builds its own: tensor elements adjacent, dimension 0
// fastest, and the stride of every higher dimension padded up so each row
// begins at a multiple of the boundary. The buffer itself starts on the
// boundary as well.
type Allocator struct {
	boundary int
}

// New returns an allocator for the given boundary in bytes. The boundary
// must be a power of two; sample types wider than it need no padding and
// pass through unchanged. Panics on a boundary that is not a power of two.
func New(boundary int) *Allocator {
	if boundary < 1 || boundary&(boundary-1) != 0 {
		panic("alignment boundary must be a power of two")
	}
	return &Allocator{boundary: boundary}
}

// Boundary returns the alignment boundary in bytes.
func (a *Allocator) Boundary() int {
	return a.boundary
}

// AllocateData builds the padded layout for the given geometry and
// allocates a buffer starting on the boundary.
func (a *Allocator) AllocateData(sizes []int, strides []int, tensor img.Tensor, tensorStride int, dt img.DataType) (img.Allocation, error) {
	elemSize := dt.SizeOf()
	telem := tensor.Elements()

	rowElems := telem
	if len(sizes) > 0 {
		rowElems *= sizes[0]
	}
	padded := rowElems
	if a.boundary > elemSize {
		perBoundary := a.boundary / elemSize
		padded = (rowElems + perBoundary - 1) / perBoundary * perBoundary
	}

	outStrides := make([]int, len(sizes))
	total := padded
	if len(sizes) > 0 {
		outStrides[0] = telem
		s := padded
		for i := 1; i < len(sizes); i++ {
			outStrides[i] = s
			s *= sizes[i]
		}
		total = s
	}

	return img.Allocation{
		Data:         alignedBytes(total*elemSize, a.boundary),
		Strides:      outStrides,
		TensorStride: 1,
	}, nil
}

// alignedBytes returns a zeroed slice of n bytes whose first element sits
// on a multiple of boundary. Go's allocator guarantees nothing past 16-byte
// alignment, so the slice is cut out of a larger one.
func alignedBytes(n, boundary int) []byte {
	raw := make([]byte, n+boundary)
	off := 0
	if r := int(uintptr(unsafe.Pointer(&raw[0])) & uintptr(boundary-1)); r != 0 {
		off = boundary - r
	}
	return raw[off : off+n : off+n]
}
