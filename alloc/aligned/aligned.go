// Copyright 2026 SciPix Imaging Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package aligned provides the row-aligned allocation strategy.
package aligned

import (
	"github.com/scipix/scipix/img"
	internalaligned "github.com/scipix/scipix/internal/alloc/aligned"
)

// Allocator starts every image row on a fixed alignment boundary, for
// vectorized kernels that want aligned loads along the fastest dimension.
// The image adopts the padded strides at Forge time.
type Allocator = internalaligned.Allocator

// Compile-time check that Allocator implements img.ExternalInterface.
var _ img.ExternalInterface = (*Allocator)(nil)

// New creates an allocator for the given boundary in bytes. The boundary
// must be a power of two.
//
// Example:
//
//	import (
//	    "github.com/scipix/scipix/alloc/aligned"
//	    "github.com/scipix/scipix/img"
//	)
//
//	func main() {
//	    im := img.New()
//	    im.SetSizes([]int{2048, 2048})
//	    im.SetExternalInterface(aligned.New(64))
//	    err := im.Forge() // rows start on 64-byte boundaries
//	}
func New(boundary int) *Allocator {
	return internalaligned.New(boundary)
}
