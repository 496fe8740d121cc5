package img

import (
	"fmt"
	"runtime"
	"slices"
)

// Image is the array handle: a strided view of sample data of arbitrary
// dimensionality and element type, with an extra per-pixel tensor (channel)
// dimension. Strides are signed and counted in elements, so views may run
// backwards (negative stride) or repeat one sample (zero stride, broadcast).
//
// An Image is either raw (no data block; shape and type freely mutable) or
// forged (references a shared data block; geometry mutations produce views,
// never copies). Views created from a forged image share its block through
// reference counting; the block is freed exactly once, when the last image
// referencing it is stripped or dropped.
//
// An Image must be used through a pointer and is not safe for concurrent
// mutation. Concurrent retain/release of the shared block (copies and
// drops on different goroutines) is safe.
type Image struct {
	dtype        DataType
	sizes        []int
	strides      []int
	tensor       Tensor
	tensorStride int
	protect      bool
	colorSpace   string
	pixelSize    PixelSize
	external     ExternalInterface

	// Forged state. origin is the byte offset inside the block of the
	// sample at all-zero coordinates; with negative strides it points
	// past the block's start.
	ref     *blockRef
	origin  int
	cleanup runtime.Cleanup
}

// New creates a raw zero-dimensional scalar image of type Float32.
// Set sizes, type and strides as needed, then call Forge.
func New() *Image {
	return &Image{
		dtype:  Float32,
		sizes:  []int{},
		tensor: ScalarTensor(),
	}
}

// NewImage creates a forged image with the given sizes, tensor element
// count and data type, using normal (compact) strides.
func NewImage(sizes []int, tensorElements int, dt DataType) (*Image, error) {
	im := New()
	if err := im.SetSizes(sizes); err != nil {
		return nil, err
	}
	if err := im.SetTensorSizes(tensorElements); err != nil {
		return nil, err
	}
	im.dtype = dt
	if err := im.Forge(); err != nil {
		return nil, err
	}
	return im, nil
}

// NewLike creates an independent image with the same geometry, type and
// metadata as src, backed by a freshly forged buffer (never shared with
// src). Sample values are not copied; use Copy for that. A raw src yields
// a raw copy.
func NewLike(src *Image) (*Image, error) {
	return NewLikeWithType(src, src.dtype)
}

// NewLikeWithType is NewLike with a different sample type.
func NewLikeWithType(src *Image, dt DataType) (*Image, error) {
	im := New()
	im.copyProperties(src)
	im.strides = nil // fresh forge chooses normal strides
	im.tensorStride = 0
	im.dtype = dt
	if !src.IsForged() {
		return im, nil
	}
	if err := im.Forge(); err != nil {
		return nil, err
	}
	return im, nil
}

// NewFromBuffer builds a forged image over an externally owned buffer, for
// collaborators bridging to memory allocated elsewhere. strides may be nil
// to use the normal layout (tensorStride then ignored). The buffer must be
// large enough for every reachable sample and suitably aligned for dt;
// ownership is shared through the usual reference count from here on, and
// free (optional) runs when the last reference drops.
func NewFromBuffer(data []byte, free func(), dt DataType, sizes []int, strides []int, tensor Tensor, tensorStride int) (*Image, error) {
	im := New()
	if err := im.SetSizes(sizes); err != nil {
		return nil, err
	}
	im.dtype = dt
	im.tensor = tensor
	if strides == nil {
		im.strides, im.tensorStride = normalStrides(im.sizes, tensor.Elements())
	} else {
		if err := im.SetStrides(strides); err != nil {
			return nil, err
		}
		im.tensorStride = tensorStride
	}
	span, start := im.blockSizeAndStart()
	if span*dt.SizeOf() > len(data) {
		return nil, fmt.Errorf("%w: layout reaches %d bytes but buffer holds %d", ErrShapeMismatch, span*dt.SizeOf(), len(data))
	}
	im.attachBlock(newExternalBlock(data, free))
	im.origin = start * dt.SizeOf()
	return im, nil
}

// attachBlock makes the image reference db and ties that reference to the
// image's lifetime with a GC cleanup, so a dropped image still returns
// externally allocated memory.
func (im *Image) attachBlock(db *dataBlock) {
	ref := newBlockRef(db)
	im.ref = ref
	im.cleanup = runtime.AddCleanup(im, func(r *blockRef) { r.drop() }, ref)
}

// dropBlock releases the image's block reference, if any.
func (im *Image) dropBlock() {
	if im.ref == nil {
		return
	}
	im.cleanup.Stop()
	im.ref.drop()
	im.ref = nil
	im.origin = 0
}

// takeStorage moves tmp's block and layout into im, releasing im's old
// block. tmp is left raw and must not be used further.
func (im *Image) takeStorage(tmp *Image) {
	tmp.ref.block.retain()
	im.dropBlock()
	im.attachBlock(tmp.ref.block)
	im.origin = tmp.origin
	im.dtype = tmp.dtype
	im.sizes = tmp.sizes
	im.strides = tmp.strides
	im.tensor = tmp.tensor
	im.tensorStride = tmp.tensorStride
	tmp.dropBlock()
}

// IsForged returns true when the image references a data block.
func (im *Image) IsForged() bool {
	return im.ref != nil
}

// Dimensionality returns the number of spatial dimensions.
func (im *Image) Dimensionality() int {
	return len(im.sizes)
}

// Sizes returns the spatial dimension sizes. The slice is the image's own;
// treat it as read-only.
func (im *Image) Sizes() []int {
	return im.sizes
}

// Size returns the extent of one dimension.
func (im *Image) Size(dim int) int {
	return im.sizes[dim]
}

// NumberOfPixels returns the product of the sizes. A zero-dimensional
// image has one pixel.
func (im *Image) NumberOfPixels() int {
	n := 1
	for _, sz := range im.sizes {
		n *= sz
	}
	return n
}

// NumberOfSamples returns NumberOfPixels times the tensor element count.
func (im *Image) NumberOfSamples() int {
	return im.NumberOfPixels() * im.tensor.Elements()
}

// Strides returns the per-dimension strides, in element units. The slice
// is the image's own; treat it as read-only.
func (im *Image) Strides() []int {
	return im.strides
}

// Stride returns the stride of one dimension.
func (im *Image) Stride(dim int) int {
	return im.strides[dim]
}

// TensorStride returns the stride between tensor elements, in element units.
func (im *Image) TensorStride() int {
	return im.tensorStride
}

// Tensor returns the tensor (channel) layout.
func (im *Image) Tensor() Tensor {
	return im.tensor
}

// TensorElements returns the number of samples per pixel.
func (im *Image) TensorElements() int {
	return im.tensor.Elements()
}

// TensorSizes returns the logical tensor dimensions (see Tensor.Sizes).
func (im *Image) TensorSizes() []int {
	return im.tensor.Sizes()
}

// TensorRows returns the number of logical tensor rows.
func (im *Image) TensorRows() int {
	return im.tensor.Rows()
}

// TensorColumns returns the number of logical tensor columns.
func (im *Image) TensorColumns() int {
	return im.tensor.Columns()
}

// TensorShapeTag returns the tensor layout tag.
func (im *Image) TensorShapeTag() TensorShape {
	return im.tensor.Shape()
}

// IsScalar returns true when each pixel holds a single sample.
func (im *Image) IsScalar() bool {
	return im.tensor.IsScalar()
}

// IsVector returns true when the tensor is a row or column vector.
func (im *Image) IsVector() bool {
	return im.tensor.IsVector()
}

// DataType returns the sample type tag.
func (im *Image) DataType() DataType {
	return im.dtype
}

// SetSizes sets the spatial dimension sizes of a raw image.
func (im *Image) SetSizes(sizes []int) error {
	if im.IsForged() {
		return fmt.Errorf("SetSizes: %w", ErrNotRaw)
	}
	for i, sz := range sizes {
		if sz < 0 {
			return fmt.Errorf("SetSizes: %w: dimension %d is %d", ErrShapeMismatch, i, sz)
		}
	}
	im.sizes = slices.Clone(sizes)
	if im.sizes == nil {
		im.sizes = []int{}
	}
	return nil
}

// SetStrides sets the per-dimension strides of a raw image, in element
// units. They take effect at Forge time if they describe a valid compact
// layout, and are replaced by normal strides otherwise. Pass nil to clear.
func (im *Image) SetStrides(strides []int) error {
	if im.IsForged() {
		return fmt.Errorf("SetStrides: %w", ErrNotRaw)
	}
	im.strides = slices.Clone(strides)
	return nil
}

// SetTensorStride sets the tensor stride of a raw image, in element units.
func (im *Image) SetTensorStride(stride int) error {
	if im.IsForged() {
		return fmt.Errorf("SetTensorStride: %w", ErrNotRaw)
	}
	im.tensorStride = stride
	return nil
}

// SetTensorSizes sets the tensor layout of a raw image: no argument for a
// scalar, one for a column vector, two for a column-major matrix.
func (im *Image) SetTensorSizes(sizes ...int) error {
	if im.IsForged() {
		return fmt.Errorf("SetTensorSizes: %w", ErrNotRaw)
	}
	switch len(sizes) {
	case 0:
		im.tensor = ScalarTensor()
	case 1:
		if sizes[0] < 1 {
			return fmt.Errorf("SetTensorSizes: %w: %d tensor elements", ErrShapeMismatch, sizes[0])
		}
		im.tensor = VectorTensor(sizes[0])
	case 2:
		if sizes[0] < 1 || sizes[1] < 1 {
			return fmt.Errorf("SetTensorSizes: %w: %dx%d tensor", ErrShapeMismatch, sizes[0], sizes[1])
		}
		im.tensor = MatrixTensor(sizes[0], sizes[1])
	default:
		return fmt.Errorf("SetTensorSizes: %w: tensors have at most two dimensions", ErrShapeMismatch)
	}
	return nil
}

// SetTensor sets the full tensor layout of a raw image, including packed
// shapes that SetTensorSizes cannot express. Build the layout with
// ShapedTensor.
func (im *Image) SetTensor(t Tensor) error {
	if im.IsForged() {
		return fmt.Errorf("SetTensor: %w", ErrNotRaw)
	}
	if t.Elements() < 1 {
		return fmt.Errorf("SetTensor: %w: empty tensor", ErrShapeMismatch)
	}
	im.tensor = t
	return nil
}

// SetDataType sets the sample type of a raw image.
func (im *Image) SetDataType(dt DataType) error {
	if im.IsForged() {
		return fmt.Errorf("SetDataType: %w", ErrNotRaw)
	}
	im.dtype = dt
	return nil
}

// SetExternalInterface registers an allocation strategy on a raw image.
// Forge then delegates to it. Pass nil to restore default allocation.
func (im *Image) SetExternalInterface(ei ExternalInterface) error {
	if im.IsForged() {
		return fmt.Errorf("SetExternalInterface: %w", ErrNotRaw)
	}
	im.external = ei
	return nil
}

// ExternalInterface returns the registered allocation strategy, or nil.
func (im *Image) ExternalInterface() ExternalInterface {
	return im.external
}

// Protect sets the protect flag and returns its previous value. A
// protected image refuses Strip (and any operation that would need to
// reallocate its block); reading and writing samples stays allowed.
func (im *Image) Protect(set bool) bool {
	prev := im.protect
	im.protect = set
	return prev
}

// IsProtected returns the protect flag.
func (im *Image) IsProtected() bool {
	return im.protect
}

// Data returns the image's whole data block as bytes. The origin sample
// does not in general sit at offset zero; see Origin.
// Panics if the image is not forged.
func (im *Image) Data() []byte {
	if !im.IsForged() {
		panic("image is not forged")
	}
	return im.ref.block.bytes
}

// Origin returns the byte offset inside Data of the sample at all-zero
// coordinates. Panics if the image is not forged.
func (im *Image) Origin() int {
	if !im.IsForged() {
		panic("image is not forged")
	}
	return im.origin
}

// IsShared returns true when other images reference the same data block.
func (im *Image) IsShared() bool {
	return im.IsForged() && !im.ref.block.isUnique()
}

// ShareCount returns the number of images referencing the data block, or 0
// for a raw image.
func (im *Image) ShareCount() int {
	if !im.IsForged() {
		return 0
	}
	return im.ref.block.shareCount()
}

// SharesData returns true when both images are forged and reference the
// same data block, whether or not any sample addresses coincide.
func (im *Image) SharesData(other *Image) bool {
	return im.IsForged() && other.IsForged() && im.ref.block == other.ref.block
}

// QuickCopy returns a shallow duplicate: a new handle with the same data
// block, origin, geometry, type and external interface. The protect flag
// and color/pixel-size metadata are reset. Algorithms use it to reshape a
// handle without affecting the caller's. A raw image yields a raw copy.
func (im *Image) QuickCopy() *Image {
	out := &Image{
		dtype:        im.dtype,
		sizes:        slices.Clone(im.sizes),
		strides:      slices.Clone(im.strides),
		tensor:       im.tensor,
		tensorStride: im.tensorStride,
		external:     im.external,
	}
	if im.IsForged() {
		im.ref.block.retain()
		out.attachBlock(im.ref.block)
		out.origin = im.origin
	}
	return out
}

// copyProperties copies type, geometry and metadata from src (not the data
// block reference).
func (im *Image) copyProperties(src *Image) {
	im.dtype = src.dtype
	im.sizes = slices.Clone(src.sizes)
	im.strides = slices.Clone(src.strides)
	im.tensor = src.tensor
	im.tensorStride = src.tensorStride
	im.colorSpace = src.colorSpace
	im.pixelSize = src.pixelSize.clone()
	im.external = src.external
}

// CopyProperties copies src's type, geometry, metadata and external
// interface onto a raw image, in preparation for forging.
func (im *Image) CopyProperties(src *Image) error {
	if im.IsForged() {
		return fmt.Errorf("CopyProperties: %w", ErrNotRaw)
	}
	im.copyProperties(src)
	return nil
}

// String returns a short description of the image.
func (im *Image) String() string {
	if !im.IsForged() {
		return fmt.Sprintf("raw image, %s, sizes %v, %s", im.dtype, im.sizes, im.tensor)
	}
	return fmt.Sprintf("%s image, sizes %v, strides %v, %s", im.dtype, im.sizes, im.strides, im.tensor)
}
