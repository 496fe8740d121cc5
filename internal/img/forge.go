package img

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// normalStrides returns the unique compact layout for the given geometry:
// tensor elements adjacent (tensor stride 1), then the spatial dimensions
// fastest-varying first. Sizes {4,3} with one tensor element give {1,4}.
func normalStrides(sizes []int, tensorElements int) (strides []int, tensorStride int) {
	strides = make([]int, len(sizes))
	s := tensorElements
	for i, sz := range sizes {
		strides[i] = s
		s *= sz
	}
	return strides, 1
}

// blockSizeAndStart scans the geometry (tensor dimension included) for the
// lowest and highest reachable element offsets relative to the origin.
// span is the number of elements between them, inclusive; start is the
// origin's element offset from the lowest address (positive when negative
// strides reach below the origin).
func (im *Image) blockSizeAndStart() (span, start int) {
	lo, hi := 0, 0
	acc := func(stride, size int) {
		if size <= 1 {
			return
		}
		if stride < 0 {
			lo += stride * (size - 1)
		} else {
			hi += stride * (size - 1)
		}
	}
	acc(im.tensorStride, im.tensor.Elements())
	for i := range im.sizes {
		acc(im.strides[i], im.sizes[i])
	}
	return hi - lo + 1, -lo
}

// hasValidStrides reports whether the current strides address every
// (pixel, channel) pair uniquely. The dimensions (tensor included) are
// sorted by stride magnitude and each stride must clear the span of the
// dimensions below it; zero strides on non-singleton dimensions are
// rejected. This is the conservative sufficient check; layouts it cannot
// prove valid are normalized at forge time.
func (im *Image) hasValidStrides() bool {
	if len(im.strides) != len(im.sizes) {
		return false
	}
	type dim struct{ stride, size int }
	all := make([]dim, 0, len(im.sizes)+1)
	add := func(stride, size int) bool {
		if size == 1 {
			return true
		}
		if stride == 0 {
			return false
		}
		if stride < 0 {
			stride = -stride
		}
		all = append(all, dim{stride, size})
		return true
	}
	if !add(im.tensorStride, im.tensor.Elements()) {
		return false
	}
	for i := range im.sizes {
		if !add(im.strides[i], im.sizes[i]) {
			return false
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].stride < all[j].stride })
	for k := 0; k+1 < len(all); k++ {
		if all[k+1].stride < all[k].stride*all[k].size {
			return false
		}
	}
	return true
}

// checkedSamples returns the total sample count of a geometry, rejecting
// zero-sized or negative dimensions and overflow.
func checkedSamples(sizes []int, tensorElements int) (int, error) {
	n := 1
	for i, sz := range sizes {
		if sz <= 0 {
			return 0, fmt.Errorf("%w: dimension %d has size %d", ErrShapeMismatch, i, sz)
		}
		if n > math.MaxInt/sz {
			return 0, fmt.Errorf("%w: sample count overflows", ErrShapeMismatch)
		}
		n *= sz
	}
	if n > math.MaxInt/tensorElements {
		return 0, fmt.Errorf("%w: sample count overflows", ErrShapeMismatch)
	}
	return n * tensorElements, nil
}

// Forge allocates the image's data block. A no-op when already forged.
// Caller-set strides are honored when they describe a valid compact
// layout and are normalized otherwise. An image carrying an external
// interface delegates allocation to it and adopts the strides it reports.
func (im *Image) Forge() error {
	if im.IsForged() {
		return nil
	}
	samples, err := checkedSamples(im.sizes, im.tensor.Elements())
	if err != nil {
		return fmt.Errorf("Forge: %w", err)
	}

	// Propose a layout: keep what the caller set when it holds exactly
	// the sample count, else go normal.
	if im.hasValidStrides() {
		if span, _ := im.blockSizeAndStart(); span != samples {
			im.strides, im.tensorStride = normalStrides(im.sizes, im.tensor.Elements())
		}
	} else {
		im.strides, im.tensorStride = normalStrides(im.sizes, im.tensor.Elements())
	}

	if im.external != nil {
		alloc, err := im.external.AllocateData(slices.Clone(im.sizes), slices.Clone(im.strides), im.tensor, im.tensorStride, im.dtype)
		if err != nil {
			return fmt.Errorf("Forge: %w", err)
		}
		if alloc.Strides != nil {
			if len(alloc.Strides) != len(im.sizes) {
				return fmt.Errorf("Forge: %w: allocator returned %d strides for %d dimensions", ErrShapeMismatch, len(alloc.Strides), len(im.sizes))
			}
			im.strides = slices.Clone(alloc.Strides)
			im.tensorStride = alloc.TensorStride
		}
		span, start := im.blockSizeAndStart()
		if span*im.dtype.SizeOf() > len(alloc.Data) {
			return fmt.Errorf("Forge: %w: layout reaches %d bytes but allocator returned %d", ErrShapeMismatch, span*im.dtype.SizeOf(), len(alloc.Data))
		}
		im.attachBlock(newExternalBlock(alloc.Data, alloc.Free))
		im.origin = start * im.dtype.SizeOf()
		return nil
	}

	span, start := im.blockSizeAndStart()
	im.attachBlock(newDataBlock(span * im.dtype.SizeOf()))
	im.origin = start * im.dtype.SizeOf()
	return nil
}

// Strip drops the image's reference to its data block, leaving it raw.
// Sizes, strides and type remain set, so the image can be forged again.
// Fails with Protected when the protect flag is set; a raw image is left
// alone.
func (im *Image) Strip() error {
	if !im.IsForged() {
		return nil
	}
	if im.protect {
		return fmt.Errorf("Strip: %w", ErrProtected)
	}
	im.dropBlock()
	return nil
}

// ReForge gives the image the requested sizes, tensor element count and
// type, reusing the existing data block when it is unshared, unprotected
// and large enough for the new geometry; otherwise the image is stripped
// and forged anew. An exact match is a no-op. An invalid target (zero or
// negative sizes), or needing to reallocate a protected image's block,
// fails and changes nothing.
func (im *Image) ReForge(sizes []int, tensorElements int, dt DataType) error {
	if tensorElements < 1 {
		return fmt.Errorf("ReForge: %w: %d tensor elements", ErrShapeMismatch, tensorElements)
	}
	samples, err := checkedSamples(sizes, tensorElements)
	if err != nil {
		return fmt.Errorf("ReForge: %w", err)
	}
	tensor := ScalarTensor()
	if tensorElements > 1 {
		tensor = VectorTensor(tensorElements)
	}

	if im.IsForged() {
		if slices.Equal(im.sizes, sizes) && im.tensor.Elements() == tensorElements && im.dtype == dt {
			return nil
		}
		needed := 0
		if samples <= math.MaxInt/dt.SizeOf() {
			needed = samples * dt.SizeOf()
		}
		if !im.protect && !im.IsShared() && needed > 0 && needed <= im.ref.block.capacity() {
			im.sizes = slices.Clone(sizes)
			if im.sizes == nil {
				im.sizes = []int{}
			}
			im.tensor = tensor
			im.dtype = dt
			im.strides, im.tensorStride = normalStrides(im.sizes, tensorElements)
			im.origin = 0
			return nil
		}
		if im.protect {
			return fmt.Errorf("ReForge: %w", ErrProtected)
		}
		if err := im.Strip(); err != nil {
			return fmt.Errorf("ReForge: %w", err)
		}
	}

	im.sizes = slices.Clone(sizes)
	if im.sizes == nil {
		im.sizes = []int{}
	}
	im.tensor = tensor
	im.dtype = dt
	im.strides = nil
	im.tensorStride = 0
	if err := im.Forge(); err != nil {
		return fmt.Errorf("ReForge: %w", err)
	}
	return nil
}

// ReForgeLike is ReForge to src's sizes, tensor element count and type.
func (im *Image) ReForgeLike(src *Image) error {
	return im.ReForge(src.sizes, src.tensor.Elements(), src.dtype)
}

// ReForgeLikeWithType is ReForgeLike with a different sample type.
func (im *Image) ReForgeLikeWithType(src *Image, dt DataType) error {
	return im.ReForge(src.sizes, src.tensor.Elements(), dt)
}

// HasContiguousData returns true when the reachable address range holds
// exactly the image's samples, with no gaps. Panics if the image is not
// forged.
func (im *Image) HasContiguousData() bool {
	if !im.IsForged() {
		panic("image is not forged")
	}
	span, _ := im.blockSizeAndStart()
	return span == im.NumberOfSamples()
}

// HasNormalStrides returns true when the layout is exactly the default
// compact one. Panics if the image is not forged.
func (im *Image) HasNormalStrides() bool {
	if !im.IsForged() {
		panic("image is not forged")
	}
	strides, tensorStride := normalStrides(im.sizes, im.tensor.Elements())
	return im.tensorStride == tensorStride && slices.Equal(im.strides, strides)
}

// SimpleStrideAndOrigin looks for a single scalar stride that traverses
// all pixels: the non-singleton dimensions, sorted by stride magnitude,
// must each exactly span the dimensions below. Returns the positive
// stride and the byte offset of the lowest addressed sample (negative
// strides adjust the origin), with ok=false when no such stride exists.
// All-singleton images report stride 1 at the image origin. Panics if the
// image is not forged.
func (im *Image) SimpleStrideAndOrigin() (stride, origin int, ok bool) {
	if !im.IsForged() {
		panic("image is not forged")
	}
	type dim struct{ stride, size int }
	all := make([]dim, 0, len(im.sizes))
	origin = im.origin
	for i, sz := range im.sizes {
		if sz == 1 {
			continue
		}
		s := im.strides[i]
		if s == 0 {
			return 0, 0, false
		}
		if s < 0 {
			origin += s * (sz - 1) * im.dtype.SizeOf()
			s = -s
		}
		all = append(all, dim{s, sz})
	}
	if len(all) == 0 {
		return 1, origin, true
	}
	sort.Slice(all, func(i, j int) bool { return all[i].stride < all[j].stride })
	for k := 0; k+1 < len(all); k++ {
		if all[k+1].stride != all[k].stride*all[k].size {
			return 0, 0, false
		}
	}
	return all[0].stride, origin, true
}

// HasSimpleStride returns true when SimpleStrideAndOrigin succeeds.
// Panics if the image is not forged.
func (im *Image) HasSimpleStride() bool {
	_, _, ok := im.SimpleStrideAndOrigin()
	return ok
}

// HasSameDimensionOrder returns true when both images visit their
// non-singleton dimensions in the same memory order: the permutation that
// sorts this image's stride magnitudes also sorts the other's. Panics if
// either image is not forged.
func (im *Image) HasSameDimensionOrder(other *Image) bool {
	if !im.IsForged() || !other.IsForged() {
		panic("image is not forged")
	}
	a := make([]int, 0, len(im.sizes))
	b := make([]int, 0, len(other.sizes))
	for i, sz := range im.sizes {
		if sz > 1 {
			s := im.strides[i]
			if s < 0 {
				s = -s
			}
			a = append(a, s)
		}
	}
	for i, sz := range other.sizes {
		if sz > 1 {
			s := other.strides[i]
			if s < 0 {
				s = -s
			}
			b = append(b, s)
		}
	}
	if len(a) != len(b) {
		return false
	}
	perm := make([]int, len(a))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool { return a[perm[i]] < a[perm[j]] })
	for k := 0; k+1 < len(perm); k++ {
		if b[perm[k]] > b[perm[k+1]] {
			return false
		}
	}
	return true
}
