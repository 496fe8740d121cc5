package img

// Allocation is the result of an ExternalInterface request.
type Allocation struct {
	// Data is the allocated buffer. Its length must cover every sample
	// reachable through the returned layout.
	Data []byte

	// Strides and TensorStride define the layout the image must adopt, in
	// element units. A nil Strides keeps the layout the request proposed.
	Strides      []int
	TensorStride int

	// Free, when non-nil, is invoked exactly once when the last image
	// referencing the buffer drops it.
	Free func()
}

// ExternalInterface is an allocation strategy supplied by a collaborator
// that needs special-purpose memory (page-aligned buffers, memory owned by
// another system). An image carrying one delegates Forge to it, and adopts
// whatever strides the strategy reports instead of the proposed ones.
// Views and quick copies inherit the interface pointer.
type ExternalInterface interface {
	// AllocateData allocates pixel storage for the given geometry. strides
	// and tensorStride arrive holding the default compact layout; the
	// implementation may keep or replace them. A failed allocation returns
	// an error and the image stays raw.
	AllocateData(sizes []int, strides []int, tensor Tensor, tensorStride int, dt DataType) (Allocation, error)
}
