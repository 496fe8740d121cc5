package img

import (
	"fmt"
	"slices"
)

// The operations in this file reshape a forged image in place by editing
// sizes, strides, tensor layout and origin. None of them touches the data
// block or copies samples (Flatten excepted, when no simple stride
// exists). On error the image is left unchanged.

// PermuteDimensions reorders the dimensions to the given order. order
// lists current dimension indices; dimensions not listed are dropped and
// must be singletons. Listing a dimension twice, an index out of range,
// or dropping a non-singleton dimension is an error.
func (im *Image) PermuteDimensions(order []int) error {
	if !im.IsForged() {
		return fmt.Errorf("PermuteDimensions: %w", ErrNotForged)
	}
	nd := len(im.sizes)
	seen := make([]bool, nd)
	for _, d := range order {
		if d < 0 || d >= nd {
			return fmt.Errorf("PermuteDimensions: %w: dimension %d of %d", ErrDomain, d, nd)
		}
		if seen[d] {
			return fmt.Errorf("PermuteDimensions: %w: dimension %d listed twice", ErrDomain, d)
		}
		seen[d] = true
	}
	for d, kept := range seen {
		if !kept && im.sizes[d] != 1 {
			return fmt.Errorf("PermuteDimensions: %w: dropping dimension %d of size %d", ErrShapeMismatch, d, im.sizes[d])
		}
	}
	sizes := make([]int, len(order))
	strides := make([]int, len(order))
	for i, d := range order {
		sizes[i] = im.sizes[d]
		strides[i] = im.strides[d]
	}
	im.sizes = sizes
	im.strides = strides
	im.pixelSize = im.pixelSize.reindexed(order)
	return nil
}

// SwapDimensions exchanges two dimensions.
func (im *Image) SwapDimensions(d1, d2 int) error {
	if !im.IsForged() {
		return fmt.Errorf("SwapDimensions: %w", ErrNotForged)
	}
	nd := len(im.sizes)
	if d1 < 0 || d1 >= nd || d2 < 0 || d2 >= nd {
		return fmt.Errorf("SwapDimensions: %w: dimensions %d, %d of %d", ErrDomain, d1, d2, nd)
	}
	im.sizes[d1], im.sizes[d2] = im.sizes[d2], im.sizes[d1]
	im.strides[d1], im.strides[d2] = im.strides[d2], im.strides[d1]
	if im.pixelSize.IsDefined() {
		order := make([]int, nd)
		for i := range order {
			order[i] = i
		}
		order[d1], order[d2] = d2, d1
		im.pixelSize = im.pixelSize.reindexed(order)
	}
	return nil
}

// Squeeze removes all singleton dimensions.
func (im *Image) Squeeze() error {
	if !im.IsForged() {
		return fmt.Errorf("Squeeze: %w", ErrNotForged)
	}
	kept := make([]int, 0, len(im.sizes))
	for d, sz := range im.sizes {
		if sz != 1 {
			kept = append(kept, d)
		}
	}
	return im.PermuteDimensions(kept)
}

// SqueezeDimension removes one dimension, which must be a singleton.
func (im *Image) SqueezeDimension(dim int) error {
	if !im.IsForged() {
		return fmt.Errorf("SqueezeDimension: %w", ErrNotForged)
	}
	if dim < 0 || dim >= len(im.sizes) {
		return fmt.Errorf("SqueezeDimension: %w: dimension %d of %d", ErrDomain, dim, len(im.sizes))
	}
	if im.sizes[dim] != 1 {
		return fmt.Errorf("SqueezeDimension: %w: dimension %d has size %d", ErrShapeMismatch, dim, im.sizes[dim])
	}
	order := make([]int, 0, len(im.sizes)-1)
	for d := range im.sizes {
		if d != dim {
			order = append(order, d)
		}
	}
	return im.PermuteDimensions(order)
}

// AddSingleton inserts a size-1 dimension before dim (dim may equal the
// current dimensionality to append). The new dimension has stride 0.
func (im *Image) AddSingleton(dim int) error {
	if !im.IsForged() {
		return fmt.Errorf("AddSingleton: %w", ErrNotForged)
	}
	nd := len(im.sizes)
	if dim < 0 || dim > nd {
		return fmt.Errorf("AddSingleton: %w: dimension %d of %d", ErrDomain, dim, nd)
	}
	im.sizes = slices.Insert(slices.Clone(im.sizes), dim, 1)
	im.strides = slices.Insert(slices.Clone(im.strides), dim, 0)
	if im.pixelSize.IsDefined() {
		order := make([]int, 0, nd+1)
		for d := 0; d < dim; d++ {
			order = append(order, d)
		}
		order = append(order, -1)
		for d := dim; d < nd; d++ {
			order = append(order, d)
		}
		im.pixelSize = im.pixelSize.reindexed(order)
	}
	return nil
}

// ExpandDimensionality appends singleton dimensions until the image has n
// dimensions. A no-op when it already has n or more.
func (im *Image) ExpandDimensionality(n int) error {
	if !im.IsForged() {
		return fmt.Errorf("ExpandDimensionality: %w", ErrNotForged)
	}
	for len(im.sizes) < n {
		if err := im.AddSingleton(len(im.sizes)); err != nil {
			return err
		}
	}
	return nil
}

// ExpandSingletonDimension grows a singleton dimension to the given size
// by setting its stride to zero: all coordinates along it alias the same
// samples. This is the intentional-broadcast case of the stride model.
func (im *Image) ExpandSingletonDimension(dim, size int) error {
	if !im.IsForged() {
		return fmt.Errorf("ExpandSingletonDimension: %w", ErrNotForged)
	}
	if dim < 0 || dim >= len(im.sizes) {
		return fmt.Errorf("ExpandSingletonDimension: %w: dimension %d of %d", ErrDomain, dim, len(im.sizes))
	}
	if size < 1 {
		return fmt.Errorf("ExpandSingletonDimension: %w: size %d", ErrShapeMismatch, size)
	}
	if im.sizes[dim] != 1 {
		return fmt.Errorf("ExpandSingletonDimension: %w: dimension %d has size %d", ErrShapeMismatch, dim, im.sizes[dim])
	}
	im.sizes[dim] = size
	im.strides[dim] = 0
	return nil
}

// ExpandSingletonTensor grows a scalar tensor to n elements with tensor
// stride zero, so every channel aliases the one stored sample.
func (im *Image) ExpandSingletonTensor(n int) error {
	if !im.IsForged() {
		return fmt.Errorf("ExpandSingletonTensor: %w", ErrNotForged)
	}
	if n < 1 {
		return fmt.Errorf("ExpandSingletonTensor: %w: %d elements", ErrShapeMismatch, n)
	}
	if !im.tensor.IsScalar() {
		return fmt.Errorf("ExpandSingletonTensor: %w: tensor has %d elements", ErrShapeMismatch, im.tensor.Elements())
	}
	im.tensor = VectorTensor(n)
	im.tensorStride = 0
	return nil
}

// Mirror reverses traversal of the selected dimensions by negating their
// strides and moving the origin to their last sample. With no arguments
// every dimension is mirrored; otherwise pass one flag per dimension.
func (im *Image) Mirror(process ...bool) error {
	if !im.IsForged() {
		return fmt.Errorf("Mirror: %w", ErrNotForged)
	}
	nd := len(im.sizes)
	if len(process) == 0 {
		process = make([]bool, nd)
		for d := range process {
			process[d] = true
		}
	}
	if len(process) != nd {
		return fmt.Errorf("Mirror: %w: %d flags for %d dimensions", ErrShapeMismatch, len(process), nd)
	}
	for d, p := range process {
		if !p {
			continue
		}
		im.origin += im.strides[d] * (im.sizes[d] - 1) * im.dtype.SizeOf()
		im.strides[d] = -im.strides[d]
	}
	return nil
}

// Flatten turns the image into a one-dimensional one holding all pixels.
// With a simple stride this is a pure view and pixels appear in memory
// order; otherwise the samples are copied into a fresh compact buffer in
// linear index order, which releases the old block and therefore fails on
// a protected image.
func (im *Image) Flatten() error {
	if !im.IsForged() {
		return fmt.Errorf("Flatten: %w", ErrNotForged)
	}
	pixels := im.NumberOfPixels()
	if stride, origin, ok := im.SimpleStrideAndOrigin(); ok {
		im.sizes = []int{pixels}
		im.strides = []int{stride}
		im.origin = origin
		im.flattenPixelSize()
		return nil
	}
	if im.protect {
		return fmt.Errorf("Flatten: %w", ErrProtected)
	}
	tmp := New()
	tmp.dtype = im.dtype
	tmp.sizes = slices.Clone(im.sizes)
	tmp.tensor = im.tensor
	if err := tmp.Forge(); err != nil {
		return fmt.Errorf("Flatten: %w", err)
	}
	if err := tmp.Copy(im); err != nil {
		return fmt.Errorf("Flatten: %w", err)
	}
	tmp.sizes = []int{pixels}
	tmp.strides = []int{im.tensor.Elements()}
	im.takeStorage(tmp)
	im.flattenPixelSize()
	return nil
}

// flattenPixelSize keeps pixel size metadata only when it is the same
// along every dimension; a flattened anisotropic image has no meaningful
// pixel size.
func (im *Image) flattenPixelSize() {
	if im.pixelSize.IsDefined() && im.pixelSize.IsIsotropic() {
		im.pixelSize = NewPixelSize(im.pixelSize.Get(0))
	} else {
		im.pixelSize = PixelSize{}
	}
}

// TensorToSpatial converts the tensor dimension into a spatial dimension
// inserted before dim (dim may equal the dimensionality to append). The
// new dimension holds the tensor elements in storage order; the image
// becomes scalar.
func (im *Image) TensorToSpatial(dim int) error {
	if !im.IsForged() {
		return fmt.Errorf("TensorToSpatial: %w", ErrNotForged)
	}
	nd := len(im.sizes)
	if dim < 0 || dim > nd {
		return fmt.Errorf("TensorToSpatial: %w: dimension %d of %d", ErrDomain, dim, nd)
	}
	if err := im.AddSingleton(dim); err != nil {
		return err
	}
	im.sizes[dim] = im.tensor.Elements()
	im.strides[dim] = im.tensorStride
	im.tensor = ScalarTensor()
	im.tensorStride = 1
	return nil
}

// SpatialToTensor converts spatial dimension dim into the tensor
// dimension of a scalar image, as a rows × cols column-major matrix. Pass
// rows or cols as 0 to infer it from the dimension's size; both 0 yields
// a column vector. rows × cols must equal the dimension's size.
func (im *Image) SpatialToTensor(dim, rows, cols int) error {
	if !im.IsForged() {
		return fmt.Errorf("SpatialToTensor: %w", ErrNotForged)
	}
	if !im.tensor.IsScalar() {
		return fmt.Errorf("SpatialToTensor: %w: tensor has %d elements", ErrShapeMismatch, im.tensor.Elements())
	}
	nd := len(im.sizes)
	if dim < 0 || dim >= nd {
		return fmt.Errorf("SpatialToTensor: %w: dimension %d of %d", ErrDomain, dim, nd)
	}
	size := im.sizes[dim]
	switch {
	case rows == 0 && cols == 0:
		rows, cols = size, 1
	case rows == 0:
		if cols < 1 || size%cols != 0 {
			return fmt.Errorf("SpatialToTensor: %w: %d samples into %d columns", ErrShapeMismatch, size, cols)
		}
		rows = size / cols
	case cols == 0:
		if rows < 1 || size%rows != 0 {
			return fmt.Errorf("SpatialToTensor: %w: %d samples into %d rows", ErrShapeMismatch, size, rows)
		}
		cols = size / rows
	}
	if rows < 1 || cols < 1 || rows*cols != size {
		return fmt.Errorf("SpatialToTensor: %w: %dx%d tensor from dimension of size %d", ErrShapeMismatch, rows, cols, size)
	}
	im.tensor = matrixOrVector(rows, cols)
	im.tensorStride = im.strides[dim]
	im.removeDimension(dim)
	return nil
}

// removeDimension drops a dimension regardless of its size; callers must
// have accounted for its samples.
func (im *Image) removeDimension(dim int) {
	order := make([]int, 0, len(im.sizes)-1)
	for d := range im.sizes {
		if d != dim {
			order = append(order, d)
		}
	}
	sizes := make([]int, len(order))
	strides := make([]int, len(order))
	for i, d := range order {
		sizes[i] = im.sizes[d]
		strides[i] = im.strides[d]
	}
	im.sizes = sizes
	im.strides = strides
	im.pixelSize = im.pixelSize.reindexed(order)
}

// matrixOrVector builds the natural tensor for a rows × cols layout:
// scalar, column vector, row vector, or column-major matrix.
func matrixOrVector(rows, cols int) Tensor {
	switch {
	case rows == 1 && cols == 1:
		return ScalarTensor()
	case cols == 1:
		return VectorTensor(rows)
	case rows == 1:
		return VectorTensor(cols).Transpose()
	default:
		return MatrixTensor(rows, cols)
	}
}

// SplitComplex reinterprets a complex image as a float image with a new
// spatial dimension of size 2 (real part, imaginary part) inserted before
// dim. Pure layout change: the new dimension has stride 1 in the new
// float units and every other stride doubles.
func (im *Image) SplitComplex(dim int) error {
	if !im.IsForged() {
		return fmt.Errorf("SplitComplex: %w", ErrNotForged)
	}
	if !im.dtype.IsComplex() {
		return fmt.Errorf("SplitComplex: %w: %s", ErrUnsupportedType, im.dtype)
	}
	nd := len(im.sizes)
	if dim < 0 || dim > nd {
		return fmt.Errorf("SplitComplex: %w: dimension %d of %d", ErrDomain, dim, nd)
	}
	if err := im.AddSingleton(dim); err != nil {
		return err
	}
	im.dtype = im.dtype.Real()
	for d := range im.strides {
		im.strides[d] *= 2
	}
	im.tensorStride *= 2
	im.sizes[dim] = 2
	im.strides[dim] = 1
	return nil
}

// MergeComplex is the inverse of SplitComplex: dimension dim must have
// size 2 and stride 1 (the pair adjacent in memory), and every other
// stride must be even so it remains whole in complex units.
func (im *Image) MergeComplex(dim int) error {
	if !im.IsForged() {
		return fmt.Errorf("MergeComplex: %w", ErrNotForged)
	}
	if !im.dtype.IsFloat() {
		return fmt.Errorf("MergeComplex: %w: %s", ErrUnsupportedType, im.dtype)
	}
	nd := len(im.sizes)
	if dim < 0 || dim >= nd {
		return fmt.Errorf("MergeComplex: %w: dimension %d of %d", ErrDomain, dim, nd)
	}
	if im.sizes[dim] != 2 || im.strides[dim] != 1 {
		return fmt.Errorf("MergeComplex: %w: dimension %d has size %d, stride %d; need size 2, stride 1", ErrShapeMismatch, dim, im.sizes[dim], im.strides[dim])
	}
	for d, s := range im.strides {
		if d != dim && im.sizes[d] > 1 && s%2 != 0 {
			return fmt.Errorf("MergeComplex: %w: dimension %d has odd stride %d", ErrShapeMismatch, d, s)
		}
	}
	if im.tensor.Elements() > 1 && im.tensorStride%2 != 0 {
		return fmt.Errorf("MergeComplex: %w: odd tensor stride %d", ErrShapeMismatch, im.tensorStride)
	}
	if im.dtype == Float32 {
		im.dtype = Complex64
	} else {
		im.dtype = Complex128
	}
	for d := range im.strides {
		im.strides[d] /= 2
	}
	im.tensorStride /= 2
	im.removeDimension(dim)
	return nil
}

// SplitComplexToTensor reinterprets a scalar complex image as a float
// image whose tensor is the (real, imaginary) 2-vector.
func (im *Image) SplitComplexToTensor() error {
	if !im.IsForged() {
		return fmt.Errorf("SplitComplexToTensor: %w", ErrNotForged)
	}
	if !im.dtype.IsComplex() {
		return fmt.Errorf("SplitComplexToTensor: %w: %s", ErrUnsupportedType, im.dtype)
	}
	if !im.tensor.IsScalar() {
		return fmt.Errorf("SplitComplexToTensor: %w: tensor has %d elements", ErrShapeMismatch, im.tensor.Elements())
	}
	im.dtype = im.dtype.Real()
	for d := range im.strides {
		im.strides[d] *= 2
	}
	im.tensor = VectorTensor(2)
	im.tensorStride = 1
	return nil
}

// MergeTensorToComplex is the inverse of SplitComplexToTensor: the tensor
// must hold exactly 2 elements at tensor stride 1.
func (im *Image) MergeTensorToComplex() error {
	if !im.IsForged() {
		return fmt.Errorf("MergeTensorToComplex: %w", ErrNotForged)
	}
	if !im.dtype.IsFloat() {
		return fmt.Errorf("MergeTensorToComplex: %w: %s", ErrUnsupportedType, im.dtype)
	}
	if im.tensor.Elements() != 2 || im.tensorStride != 1 {
		return fmt.Errorf("MergeTensorToComplex: %w: tensor has %d elements at stride %d; need 2 at stride 1", ErrShapeMismatch, im.tensor.Elements(), im.tensorStride)
	}
	for d, s := range im.strides {
		if im.sizes[d] > 1 && s%2 != 0 {
			return fmt.Errorf("MergeTensorToComplex: %w: dimension %d has odd stride %d", ErrShapeMismatch, d, s)
		}
	}
	if im.dtype == Float32 {
		im.dtype = Complex64
	} else {
		im.dtype = Complex128
	}
	for d := range im.strides {
		im.strides[d] /= 2
	}
	im.tensor = ScalarTensor()
	im.tensorStride = 1
	return nil
}

// ReshapeTensor re-tags the tensor as a rows × cols column-major matrix.
// The element count must stay the same; storage never moves.
func (im *Image) ReshapeTensor(rows, cols int) error {
	if !im.IsForged() {
		return fmt.Errorf("ReshapeTensor: %w", ErrNotForged)
	}
	if rows < 1 || cols < 1 || rows*cols != im.tensor.Elements() {
		return fmt.Errorf("ReshapeTensor: %w: %dx%d from %d elements", ErrShapeMismatch, rows, cols, im.tensor.Elements())
	}
	im.tensor = matrixOrVector(rows, cols)
	return nil
}

// ReshapeTensorAsVector re-tags the tensor as a column vector of all its
// elements.
func (im *Image) ReshapeTensorAsVector() error {
	if !im.IsForged() {
		return fmt.Errorf("ReshapeTensorAsVector: %w", ErrNotForged)
	}
	im.tensor = VectorTensor(im.tensor.Elements())
	return nil
}

// ReshapeTensorAsDiagonal re-tags an n-element tensor as an n×n diagonal
// matrix.
func (im *Image) ReshapeTensorAsDiagonal() error {
	if !im.IsForged() {
		return fmt.Errorf("ReshapeTensorAsDiagonal: %w", ErrNotForged)
	}
	n := im.tensor.Elements()
	t, err := ShapedTensor(DiagonalMatrix, n, n)
	if err != nil {
		return fmt.Errorf("ReshapeTensorAsDiagonal: %w", err)
	}
	im.tensor = t
	return nil
}

// TransposeTensor transposes the tensor layout without moving storage.
func (im *Image) TransposeTensor() error {
	if !im.IsForged() {
		return fmt.Errorf("TransposeTensor: %w", ErrNotForged)
	}
	im.tensor = im.tensor.Transpose()
	return nil
}
