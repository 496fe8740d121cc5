// Package mmap provides an allocation strategy backed by anonymous memory
// mappings: pixel buffers start on a page boundary, stay out of the Go
// heap, and return to the OS as soon as the last image referencing them is
// stripped. Platforms without mmap fall back to heap allocation.
package mmap

import (
	"fmt"

	"github.com/scipix/scipix/internal/img"
)

// Allocator implements img.ExternalInterface with anonymous mappings.
type Allocator struct{}

// New returns the mapping allocator. It is stateless; one instance may
// serve any number of images concurrently.
func New() *Allocator {
	return &Allocator{}
}

// AllocateData maps a region large enough for the proposed layout. The
// layout itself is kept unchanged.
func (a *Allocator) AllocateData(sizes []int, strides []int, tensor img.Tensor, tensorStride int, dt img.DataType) (img.Allocation, error) {
	span := reachSpan(sizes, strides, tensor.Elements(), tensorStride)
	data, free, err := mapAnon(span * dt.SizeOf())
	if err != nil {
		return img.Allocation{}, fmt.Errorf("mmap: %w", err)
	}
	return img.Allocation{Data: data, Free: free}, nil
}

// reachSpan returns the number of elements between the lowest and highest
// reachable sample of the layout, inclusive. Negative strides reach below
// the origin and widen the span just the same.
func reachSpan(sizes, strides []int, tensorElements, tensorStride int) int {
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
	acc(tensorStride, tensorElements)
	for i := range sizes {
		acc(strides[i], sizes[i])
	}
	return hi - lo + 1
}
