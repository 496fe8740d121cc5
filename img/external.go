// Copyright 2026 SciPix Imaging Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package img

import (
	"github.com/scipix/scipix/internal/img"
)

// ExternalInterface is an allocation strategy supplied by a collaborator
// that needs special-purpose memory, such as page-aligned buffers or rows
// padded for vectorized kernels. Register one on a raw image with
// Image.SetExternalInterface; Forge then delegates to it and the image
// adopts whatever strides the strategy reports. Views and quick copies
// inherit the interface pointer.
//
// The alloc packages provide ready-made implementations.
//
// Example:
//
//	im := img.New()
//	im.SetSizes([]int{2048, 2048})
//	im.SetExternalInterface(aligned.New(64))
//	err := im.Forge()
type ExternalInterface = img.ExternalInterface

// Allocation is the result of an ExternalInterface request: the buffer, the
// layout the image must adopt, and an optional release hook.
type Allocation = img.Allocation
