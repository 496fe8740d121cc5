// Copyright 2026 SciPix Imaging Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mmap provides the anonymous-mapping allocation strategy.
package mmap

import (
	"github.com/scipix/scipix/img"
	internalmmap "github.com/scipix/scipix/internal/alloc/mmap"
)

// Allocator backs pixel buffers with anonymous memory mappings: page
// aligned, outside the Go heap, and returned to the OS when the last image
// referencing them is stripped. Platforms without mmap fall back to heap
// allocation.
type Allocator = internalmmap.Allocator

// Compile-time check that Allocator implements img.ExternalInterface.
var _ img.ExternalInterface = (*Allocator)(nil)

// New creates the mapping allocator. It is stateless; one instance may
// serve any number of images.
//
// Example:
//
//	import (
//	    "github.com/scipix/scipix/alloc/mmap"
//	    "github.com/scipix/scipix/img"
//	)
//
//	func main() {
//	    im := img.New()
//	    im.SetSizes([]int{4096, 4096, 512})
//	    im.SetExternalInterface(mmap.New())
//	    err := im.Forge() // one large mapping, freed at the last Strip
//	}
func New() *Allocator {
	return internalmmap.New()
}
