package img

import "fmt"

// Range selects samples along one dimension: Start through Stop
// inclusive, visiting every Step-th sample. Negative Start or Stop count
// from the end of the dimension, -1 being the last sample. Step is
// signed and its sign must match the direction of travel; a Range with
// Stop < Start and negative Step walks the dimension backwards.
//
// The zero Range{} selects the first sample only. Use FullRange to
// select a whole dimension.
type Range struct {
	Start, Stop, Step int
}

// FullRange selects every sample of a dimension in storage order.
func FullRange() Range {
	return Range{0, -1, 1}
}

// Fix resolves negative Start and Stop against a dimension of the given
// size and validates the result. It returns the resolved range, whose
// Step is never zero.
func (r Range) Fix(size int) (Range, error) {
	if r.Step == 0 {
		r.Step = 1
	}
	start, stop := r.Start, r.Stop
	if start < 0 {
		start += size
	}
	if stop < 0 {
		stop += size
	}
	if start < 0 || start >= size || stop < 0 || stop >= size {
		return Range{}, fmt.Errorf("%w: range [%d:%d] in dimension of size %d", ErrDomain, r.Start, r.Stop, size)
	}
	if (stop-start)*r.Step < 0 {
		return Range{}, fmt.Errorf("%w: range [%d:%d] with step %d", ErrDomain, start, stop, r.Step)
	}
	return Range{start, stop, r.Step}, nil
}

// size reports how many samples a resolved range selects.
func (r Range) size() int {
	if r.Step < 0 {
		return (r.Start-r.Stop)/(-r.Step) + 1
	}
	return (r.Stop-r.Start)/r.Step + 1
}

// Window returns a view selecting a rectangular region, one Range per
// dimension. Omitted trailing dimensions are taken whole. The view
// shares the data block: writing through it writes the source samples.
func (im *Image) Window(ranges ...Range) (*Image, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("Window: %w", ErrNotForged)
	}
	nd := len(im.sizes)
	if len(ranges) > nd {
		return nil, fmt.Errorf("Window: %w: %d ranges for %d dimensions", ErrShapeMismatch, len(ranges), nd)
	}
	out := im.QuickCopy()
	out.pixelSize = im.pixelSize.clone()
	for d, r := range ranges {
		rr, err := r.Fix(im.sizes[d])
		if err != nil {
			return nil, fmt.Errorf("Window: dimension %d: %w", d, err)
		}
		out.origin += rr.Start * im.strides[d] * im.dtype.SizeOf()
		out.sizes[d] = rr.size()
		out.strides[d] = im.strides[d] * rr.Step
		if step := rr.Step; step != 1 && out.pixelSize.IsDefined() {
			q := out.pixelSize.Get(d)
			if step < 0 {
				step = -step
			}
			q.Magnitude *= float64(step)
			out.pixelSize.Set(d, q)
		}
	}
	return out, nil
}

// At returns a zero-dimensional view of the single pixel at the given
// coordinates, one coordinate per dimension. The view keeps the full
// tensor.
func (im *Image) At(coords ...int) (*Image, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("At: %w", ErrNotForged)
	}
	off, err := im.Offset(coords)
	if err != nil {
		return nil, fmt.Errorf("At: %w", err)
	}
	out := im.QuickCopy()
	out.origin += off * im.dtype.SizeOf()
	out.sizes = []int{}
	out.strides = []int{}
	return out, nil
}

// AtIndex returns a view of the single pixel with the given linear
// index; indices number pixels dimension 0 fastest.
func (im *Image) AtIndex(index int) (*Image, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("AtIndex: %w", ErrNotForged)
	}
	coords, err := im.IndexToCoordinates(index)
	if err != nil {
		return nil, fmt.Errorf("AtIndex: %w", err)
	}
	return im.At(coords...)
}

// TensorAt returns a scalar view of one tensor element. Pass a single
// linear element index, or a row and column pair which is resolved
// through the tensor's storage layout. Addressing an implicit zero of a
// diagonal or triangular tensor is an error.
func (im *Image) TensorAt(indices ...int) (*Image, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("TensorAt: %w", ErrNotForged)
	}
	var elem int
	switch len(indices) {
	case 1:
		elem = indices[0]
		if elem < 0 || elem >= im.tensor.Elements() {
			return nil, fmt.Errorf("TensorAt: %w: element %d of %d", ErrDomain, elem, im.tensor.Elements())
		}
	case 2:
		var err error
		elem, err = im.tensor.Index(indices[0], indices[1])
		if err != nil {
			return nil, fmt.Errorf("TensorAt: %w", err)
		}
	default:
		return nil, fmt.Errorf("TensorAt: %w: got %d indices", ErrDomain, len(indices))
	}
	out := im.QuickCopy()
	out.origin += elem * im.tensorStride * im.dtype.SizeOf()
	out.tensor = ScalarTensor()
	out.tensorStride = 1
	return out, nil
}

// Diagonal returns a view whose tensor is the column vector of the
// stored diagonal elements of the tensor. Diagonal-first shapes keep
// their tensor stride; full matrices step rows+1 (or columns+1 for row
// major) stored elements per diagonal element.
func (im *Image) Diagonal() (*Image, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("Diagonal: %w", ErrNotForged)
	}
	out := im.QuickCopy()
	t := im.tensor
	switch t.Shape() {
	case ColVector, RowVector:
		out.tensor = VectorTensor(t.Elements())
	case ColMajorMatrix:
		out.tensor = VectorTensor(min(t.Rows(), t.Columns()))
		out.tensorStride = im.tensorStride * (t.Rows() + 1)
	case RowMajorMatrix:
		out.tensor = VectorTensor(min(t.Rows(), t.Columns()))
		out.tensorStride = im.tensorStride * (t.Columns() + 1)
	default:
		// Diagonal, symmetric and triangular shapes store the diagonal
		// first.
		out.tensor = VectorTensor(t.Rows())
	}
	return out, nil
}

// Real returns a view of the real parts of a complex image. The view has
// the matching float type and double strides over the same block.
func (im *Image) Real() (*Image, error) {
	return im.complexPart("Real", 0)
}

// Imaginary returns a view of the imaginary parts of a complex image.
func (im *Image) Imaginary() (*Image, error) {
	return im.complexPart("Imaginary", 1)
}

func (im *Image) complexPart(op string, part int) (*Image, error) {
	if !im.IsForged() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotForged)
	}
	if !im.dtype.IsComplex() {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnsupportedType, im.dtype)
	}
	out := im.QuickCopy()
	out.dtype = im.dtype.Real()
	for d := range out.strides {
		out.strides[d] *= 2
	}
	out.tensorStride *= 2
	out.origin += part * out.dtype.SizeOf()
	return out, nil
}

// DefineROI returns a view of a regular subgrid of src: origin gives the
// first pixel per dimension, sizes the view's extent, and spacing the
// subsampling step. Nil or short arrays default to origin 0, spacing 1,
// and the largest size that fits.
func DefineROI(src *Image, origin, sizes, spacing []int) (*Image, error) {
	if !src.IsForged() {
		return nil, fmt.Errorf("DefineROI: %w", ErrNotForged)
	}
	nd := len(src.sizes)
	ranges := make([]Range, nd)
	for d := range ranges {
		o, sp := 0, 1
		if d < len(origin) {
			o = origin[d]
		}
		if d < len(spacing) {
			sp = spacing[d]
		}
		if sp < 1 {
			return nil, fmt.Errorf("DefineROI: %w: spacing %d in dimension %d", ErrDomain, sp, d)
		}
		var n int
		if d < len(sizes) {
			n = sizes[d]
		} else {
			n = (src.sizes[d] - o + sp - 1) / sp
		}
		if n < 1 {
			return nil, fmt.Errorf("DefineROI: %w: size %d in dimension %d", ErrDomain, n, d)
		}
		ranges[d] = Range{o, o + (n-1)*sp, sp}
	}
	out, err := src.Window(ranges...)
	if err != nil {
		return nil, fmt.Errorf("DefineROI: %w", err)
	}
	return out, nil
}
