package img

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"
)

// toComplex converts a Go value to the complex128 sample carrier. The
// second result reports whether the value was complex, which selects
// magnitude conversion when it is later stored into a real type.
func toComplex(value any) (complex128, bool, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, false, nil
		}
		return 0, false, nil
	case int:
		return complex(float64(v), 0), false, nil
	case int8:
		return complex(float64(v), 0), false, nil
	case int16:
		return complex(float64(v), 0), false, nil
	case int32:
		return complex(float64(v), 0), false, nil
	case int64:
		return complex(float64(v), 0), false, nil
	case uint:
		return complex(float64(v), 0), false, nil
	case uint8:
		return complex(float64(v), 0), false, nil
	case uint16:
		return complex(float64(v), 0), false, nil
	case uint32:
		return complex(float64(v), 0), false, nil
	case uint64:
		return complex(float64(v), 0), false, nil
	case float32:
		return complex(float64(v), 0), false, nil
	case float64:
		return complex(v, 0), false, nil
	case complex64:
		return complex128(v), true, nil
	case complex128:
		return v, true, nil
	default:
		return 0, false, fmt.Errorf("%w: cannot fill with %T", ErrUnsupportedType, value)
	}
}

// Fill sets every sample to the given value, clamped to the image's data
// type. Accepts Go bools, integers, floats and complex values.
func (im *Image) Fill(value any) error {
	if !im.IsForged() {
		return fmt.Errorf("Fill: %w", ErrNotForged)
	}
	v, fromComplex, err := toComplex(value)
	if err != nil {
		return fmt.Errorf("Fill: %w", err)
	}
	sz := im.dtype.SizeOf()
	bytes := im.ref.block.bytes
	telem := im.tensor.Elements()
	coords := make([]int, len(im.sizes))
	off := 0
	for {
		base := im.origin + off*sz
		for t := 0; t < telem; t++ {
			storeSample(bytes, base+t*im.tensorStride*sz, im.dtype, v, fromComplex)
		}
		d := 0
		for ; d < len(im.sizes); d++ {
			coords[d]++
			off += im.strides[d]
			if coords[d] < im.sizes[d] {
				break
			}
			coords[d] = 0
			off -= im.strides[d] * im.sizes[d]
		}
		if d == len(im.sizes) {
			break
		}
	}
	return nil
}

// Copy transfers src's samples into im, converting and clamping to im's
// data type. A raw im is forged to match src first. A forged im must
// have the same sizes and tensor element count; its type, layout and
// tensor shape are kept, samples transfer in storage order.
func (im *Image) Copy(src *Image) error {
	if !src.IsForged() {
		return fmt.Errorf("Copy: %w", ErrNotForged)
	}
	if im == src {
		return nil
	}
	if !im.IsForged() {
		im.copyProperties(src)
		im.strides = nil
		im.tensorStride = 0
		if err := im.Forge(); err != nil {
			return fmt.Errorf("Copy: %w", err)
		}
	} else {
		if !slices.Equal(im.sizes, src.sizes) {
			return fmt.Errorf("Copy: %w: sizes %v vs %v", ErrShapeMismatch, im.sizes, src.sizes)
		}
		if im.tensor.Elements() != src.tensor.Elements() {
			return fmt.Errorf("Copy: %w: %d vs %d tensor elements", ErrShapeMismatch, im.tensor.Elements(), src.tensor.Elements())
		}
	}
	transferSamples(im, src)
	return nil
}

// transferSamples copies every sample of src into dst with clamped
// conversion. Both must be forged with equal sizes and tensor element
// counts.
func transferSamples(dst, src *Image) {
	if dst.dtype == src.dtype &&
		slices.Equal(dst.strides, src.strides) &&
		dst.tensorStride == src.tensorStride {
		dspan, dstart := dst.blockSizeAndStart()
		sspan, _ := src.blockSizeAndStart()
		samples := dst.NumberOfSamples()
		if dspan == samples && sspan == samples {
			// Identical dense layouts: one block copy covers every
			// sample in the right order.
			sz := dst.dtype.SizeOf()
			n := dspan * sz
			do := dst.origin - dstart*sz
			so := src.origin - dstart*sz
			copy(dst.ref.block.bytes[do:do+n], src.ref.block.bytes[so:so+n])
			return
		}
	}
	sz := src.dtype.SizeOf()
	dsz := dst.dtype.SizeOf()
	sbytes := src.ref.block.bytes
	dbytes := dst.ref.block.bytes
	fromComplex := src.dtype.IsComplex()
	telem := src.tensor.Elements()
	coords := make([]int, len(src.sizes))
	soff, doff := 0, 0
	for {
		sbase := src.origin + soff*sz
		dbase := dst.origin + doff*dsz
		for t := 0; t < telem; t++ {
			v := loadSample(sbytes, sbase+t*src.tensorStride*sz, src.dtype)
			storeSample(dbytes, dbase+t*dst.tensorStride*dsz, dst.dtype, v, fromComplex)
		}
		d := 0
		for ; d < len(src.sizes); d++ {
			coords[d]++
			soff += src.strides[d]
			doff += dst.strides[d]
			if coords[d] < src.sizes[d] {
				break
			}
			coords[d] = 0
			soff -= src.strides[d] * src.sizes[d]
			doff -= dst.strides[d] * dst.sizes[d]
		}
		if d == len(src.sizes) {
			break
		}
	}
}

// broadcastsSamples reports whether distinct logical samples share a byte
// address: a zero stride over a non-singleton dimension, spatial or tensor.
func (im *Image) broadcastsSamples() bool {
	for d, s := range im.strides {
		if s == 0 && im.sizes[d] > 1 {
			return true
		}
	}
	return im.tensorStride == 0 && im.tensor.Elements() > 1
}

// Convert changes the image's data type, clamping every sample. When the
// sample width is unchanged, the block unshared and every sample at its
// own address, the conversion runs in place; otherwise a fresh block is
// forged and the old one released, which fails on a protected image.
// Converting to the current type is a no-op.
func (im *Image) Convert(dt DataType) error {
	if !im.IsForged() {
		return fmt.Errorf("Convert: %w", ErrNotForged)
	}
	if dt == im.dtype {
		return nil
	}
	// In place only when each address is visited exactly once: a broadcast
	// view would reload bytes already rewritten as dt.
	if dt.SizeOf() == im.dtype.SizeOf() && !im.IsShared() && !im.broadcastsSamples() {
		sz := im.dtype.SizeOf()
		bytes := im.ref.block.bytes
		fromComplex := im.dtype.IsComplex()
		telem := im.tensor.Elements()
		coords := make([]int, len(im.sizes))
		off := 0
		for {
			base := im.origin + off*sz
			for t := 0; t < telem; t++ {
				boff := base + t*im.tensorStride*sz
				storeSample(bytes, boff, dt, loadSample(bytes, boff, im.dtype), fromComplex)
			}
			d := 0
			for ; d < len(im.sizes); d++ {
				coords[d]++
				off += im.strides[d]
				if coords[d] < im.sizes[d] {
					break
				}
				coords[d] = 0
				off -= im.strides[d] * im.sizes[d]
			}
			if d == len(im.sizes) {
				break
			}
		}
		im.dtype = dt
		return nil
	}
	if im.protect {
		return fmt.Errorf("Convert: %w", ErrProtected)
	}
	tmp := New()
	tmp.copyProperties(im)
	tmp.dtype = dt
	tmp.strides = nil
	tmp.tensorStride = 0
	if err := tmp.Forge(); err != nil {
		return fmt.Errorf("Convert: %w", err)
	}
	transferSamples(tmp, im)
	im.takeStorage(tmp)
	return nil
}

// sampleValue reads the first sample of a one-pixel image.
func (im *Image) sampleValue(op string) (complex128, bool, error) {
	if !im.IsForged() {
		return 0, false, fmt.Errorf("%s: %w", op, ErrNotForged)
	}
	if im.NumberOfPixels() != 1 {
		return 0, false, fmt.Errorf("%s: %w: image has %d pixels", op, ErrShapeMismatch, im.NumberOfPixels())
	}
	return loadSample(im.ref.block.bytes, im.origin, im.dtype), im.dtype.IsComplex(), nil
}

// Int returns the first sample of a one-pixel image as an int: complex
// samples by magnitude, NaN as 0, out-of-range values saturated,
// fractions truncated toward zero.
func (im *Image) Int() (int, error) {
	v, fromComplex, err := im.sampleValue("Int")
	if err != nil {
		return 0, err
	}
	x := real(v)
	if fromComplex {
		x = cmplx.Abs(v)
	}
	switch {
	case math.IsNaN(x):
		return 0, nil
	case x >= math.MaxInt:
		return math.MaxInt, nil
	case x <= math.MinInt:
		return math.MinInt, nil
	}
	return int(x), nil
}

// Float returns the first sample of a one-pixel image as a float64,
// complex samples by magnitude.
func (im *Image) Float() (float64, error) {
	v, fromComplex, err := im.sampleValue("Float")
	if err != nil {
		return 0, err
	}
	if fromComplex {
		return cmplx.Abs(v), nil
	}
	return real(v), nil
}

// Complex returns the first sample of a one-pixel image as a complex128.
func (im *Image) Complex() (complex128, error) {
	v, _, err := im.sampleValue("Complex")
	if err != nil {
		return 0, err
	}
	return v, nil
}

// NewCopy returns a freshly forged image with src's type, sizes, tensor
// and metadata, holding a copy of its samples in the normal layout.
func NewCopy(src *Image) (*Image, error) {
	out := New()
	if err := out.Copy(src); err != nil {
		return nil, fmt.Errorf("NewCopy: %w", err)
	}
	return out, nil
}

// NewConverted returns a freshly forged copy of src with the given data
// type, samples clamped.
func NewConverted(src *Image, dt DataType) (*Image, error) {
	if !src.IsForged() {
		return nil, fmt.Errorf("NewConverted: %w", ErrNotForged)
	}
	out := New()
	out.copyProperties(src)
	out.dtype = dt
	out.strides = nil
	out.tensorStride = 0
	if err := out.Forge(); err != nil {
		return nil, fmt.Errorf("NewConverted: %w", err)
	}
	transferSamples(out, src)
	return out, nil
}
