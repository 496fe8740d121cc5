package img

import (
	"fmt"
	"sort"
)

// Offset returns the element offset, relative to the origin sample, of
// the pixel at the given coordinates (one per dimension). Multiply by
// the sample size for a byte offset. The offset addresses the pixel's
// first tensor element; add multiples of the tensor stride for the rest.
func (im *Image) Offset(coords []int) (int, error) {
	if !im.IsForged() {
		return 0, fmt.Errorf("Offset: %w", ErrNotForged)
	}
	if len(coords) != len(im.sizes) {
		return 0, fmt.Errorf("Offset: %w: %d coordinates for %d dimensions", ErrShapeMismatch, len(coords), len(im.sizes))
	}
	off := 0
	for d, c := range coords {
		if c < 0 || c >= im.sizes[d] {
			return 0, fmt.Errorf("Offset: %w: coordinate %d is %d, dimension has size %d", ErrDomain, d, c, im.sizes[d])
		}
		off += c * im.strides[d]
	}
	return off, nil
}

// OffsetUnchecked is Offset without domain checks, for callers that
// already validated the coordinates.
func (im *Image) OffsetUnchecked(coords []int) int {
	off := 0
	for d, c := range coords {
		off += c * im.strides[d]
	}
	return off
}

// Index returns the linear index of the pixel at the given coordinates.
// Indices number pixels with dimension 0 varying fastest, regardless of
// how the image is laid out in memory.
func (im *Image) Index(coords []int) (int, error) {
	if !im.IsForged() {
		return 0, fmt.Errorf("Index: %w", ErrNotForged)
	}
	if len(coords) != len(im.sizes) {
		return 0, fmt.Errorf("Index: %w: %d coordinates for %d dimensions", ErrShapeMismatch, len(coords), len(im.sizes))
	}
	index := 0
	for d := len(im.sizes) - 1; d >= 0; d-- {
		c := coords[d]
		if c < 0 || c >= im.sizes[d] {
			return 0, fmt.Errorf("Index: %w: coordinate %d is %d, dimension has size %d", ErrDomain, d, c, im.sizes[d])
		}
		index = index*im.sizes[d] + c
	}
	return index, nil
}

// IndexToCoordinates converts a linear index back to coordinates.
func (im *Image) IndexToCoordinates(index int) ([]int, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("IndexToCoordinates: %w", ErrNotForged)
	}
	if index < 0 || index >= im.NumberOfPixels() {
		return nil, fmt.Errorf("IndexToCoordinates: %w: index %d of %d pixels", ErrDomain, index, im.NumberOfPixels())
	}
	coords := make([]int, len(im.sizes))
	for d, sz := range im.sizes {
		coords[d] = index % sz
		index /= sz
	}
	return coords, nil
}

// OffsetToCoordinates converts an element offset back to coordinates.
// The offset must address the first tensor element of a pixel; offsets
// that fall between samples are an error. Dimensions traversed through a
// zero stride report coordinate 0.
func (im *Image) OffsetToCoordinates(offset int) ([]int, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("OffsetToCoordinates: %w", ErrNotForged)
	}
	coords := im.OffsetToCoordinatesComputer().Coordinates(offset)
	for d, c := range coords {
		if c < 0 || c >= im.sizes[d] {
			return nil, fmt.Errorf("OffsetToCoordinates: %w: offset %d is outside the image", ErrDomain, offset)
		}
	}
	if im.OffsetUnchecked(coords) != offset {
		return nil, fmt.Errorf("OffsetToCoordinates: %w: offset %d does not address a pixel", ErrDomain, offset)
	}
	return coords, nil
}

// CoordinatesComputer converts offsets or linear indices back into
// coordinates. Building one does the stride sorting once; Coordinates
// is then a division walk, cheap enough for per-pixel use in loops.
type CoordinatesComputer struct {
	ndims   int
	dims    []int
	strides []int
	sizes   []int
	mirror  []bool
	offset  int
}

// newCoordinatesComputer prepares the division walk for the given
// layout: dimensions ordered by decreasing stride magnitude, negative
// strides folded into an offset correction and a mirror flag, singleton
// and zero-stride dimensions pinned to coordinate 0.
func newCoordinatesComputer(sizes, strides []int) CoordinatesComputer {
	c := CoordinatesComputer{ndims: len(sizes)}
	for d, sz := range sizes {
		if sz <= 1 || strides[d] == 0 {
			continue
		}
		s := strides[d]
		m := false
		if s < 0 {
			s = -s
			m = true
			c.offset += s * (sz - 1)
		}
		c.dims = append(c.dims, d)
		c.strides = append(c.strides, s)
		c.sizes = append(c.sizes, sz)
		c.mirror = append(c.mirror, m)
	}
	order := make([]int, len(c.dims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return c.strides[order[a]] > c.strides[order[b]]
	})
	dims := make([]int, len(order))
	strides2 := make([]int, len(order))
	sizes2 := make([]int, len(order))
	mirror := make([]bool, len(order))
	for i, j := range order {
		dims[i] = c.dims[j]
		strides2[i] = c.strides[j]
		sizes2[i] = c.sizes[j]
		mirror[i] = c.mirror[j]
	}
	c.dims, c.strides, c.sizes, c.mirror = dims, strides2, sizes2, mirror
	return c
}

// Coordinates converts one offset (or index, depending on how the
// computer was built). The input is not validated; values that do not
// address a sample yield meaningless coordinates.
func (c CoordinatesComputer) Coordinates(offset int) []int {
	coords := make([]int, c.ndims)
	rem := offset + c.offset
	for i, d := range c.dims {
		q := rem / c.strides[i]
		rem -= q * c.strides[i]
		if c.mirror[i] {
			q = c.sizes[i] - 1 - q
		}
		coords[d] = q
	}
	return coords
}

// OffsetToCoordinatesComputer returns a computer that inverts element
// offsets for this image's layout. The layout must not change while the
// computer is in use. Panics on a raw image.
func (im *Image) OffsetToCoordinatesComputer() CoordinatesComputer {
	if !im.IsForged() {
		panic("image is not forged")
	}
	return newCoordinatesComputer(im.sizes, im.strides)
}

// IndexToCoordinatesComputer returns a computer that inverts linear
// indices. Panics on a raw image.
func (im *Image) IndexToCoordinatesComputer() CoordinatesComputer {
	if !im.IsForged() {
		panic("image is not forged")
	}
	weights := make([]int, len(im.sizes))
	acc := 1
	for d, sz := range im.sizes {
		weights[d] = acc
		acc *= sz
	}
	return newCoordinatesComputer(im.sizes, weights)
}
