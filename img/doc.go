// Copyright 2026 SciPix Imaging Library. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package img provides the strided image array type for the SciPix library.
//
// # Overview
//
// Image is the array handle every SciPix algorithm works on: spatial sizes
// of arbitrary dimensionality, signed element-unit strides, a per-pixel
// tensor (channel) dimension, and a sample type chosen at run time. This
// package provides:
//   - The raw/forged lifecycle with reference-counted pixel buffers
//   - Zero-copy views: windows, single pixels, channels, mirrored and
//     permuted axes, the real or imaginary plane of a complex image
//   - Exact aliasing analysis between views
//   - Sample type conversion with saturated casts
//   - Physical pixel size and color space metadata
//
// # Basic Usage
//
//	import "github.com/scipix/scipix/img"
//
//	func main() {
//	    // A 2D RGB image, 8-bit samples.
//	    im, err := img.NewImage([]int{640, 480}, 3, img.Uint8)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // A rectangular window, sharing im's pixels.
//	    roi, err := im.Window(
//	        img.Range{Start: 100, Stop: 199, Step: 1},
//	        img.FullRange(),
//	    )
//
//	    // Writing through the view writes the original.
//	    err = roi.Fill(255)
//	}
//
// # Raw and Forged Images
//
// An Image starts raw: it has sizes, a tensor layout and a data type, but
// no pixel buffer. Setters (SetSizes, SetTensorSizes, SetDataType,
// SetStrides) work only on raw images. Forge allocates the buffer; from
// then on geometry changes produce views, never reallocation. Strip
// releases the buffer and returns the handle to the raw state:
//
//	im := img.New()
//	im.SetSizes([]int{256, 256, 64})
//	im.SetDataType(img.Float32)
//	if err := im.Forge(); err != nil { ... }
//	defer im.Strip()
//
// # Views and Aliasing
//
// Windows, At, TensorAt, Diagonal, Real and Imaginary return new handles
// onto the same reference-counted buffer. The buffer is freed exactly once,
// when the last handle referencing it is stripped or garbage collected.
// Alias reports whether two handles can reach a common sample; it is exact
// for the layouts views can produce and errs on the side of true otherwise.
//
// # Supported Sample Types
//
// Eleven sample types cover the binary, integer, floating-point and complex
// domains: Bin, Uint8, Uint16, Uint32, Int8, Int16, Int32, Float32,
// Float64, Complex64 and Complex128. Values written through Fill or Copy
// are clamped to the destination's representable range.
//
// # Tensor Images
//
// Each pixel holds a tensor of samples: a scalar, a vector (an RGB image is
// a 2D image of 3-vectors), or a small matrix. Matrix layouts that are
// structurally sparse (diagonal, symmetric, triangular) store only their
// unique elements; ShapedTensor builds such layouts explicitly.
package img
