package img

import (
	"math"
	"math/cmplx"
	"unsafe"
)

// Sample conversion is centralized here: every Fill, Copy and Convert path
// funnels through loadSample and storeSample, so the type switch exists in
// exactly one place. complex128 is the carrier value; it represents every
// supported sample exactly (the widest integer type is 32 bits wide).
//
// Conversion semantics: out-of-range values saturate to the target type's
// representable range, integer targets truncate toward zero after clamping,
// and a complex source stores its magnitude into any real target. These are
// not error paths.

// loadSample reads the sample at byte offset off of b as a complex128.
// Panics on an unknown data type.
func loadSample(b []byte, off int, dt DataType) complex128 {
	switch dt {
	case Bin:
		if b[off] != 0 {
			return 1
		}
		return 0
	case Uint8:
		return complex(float64(b[off]), 0)
	case Uint16:
		return complex(float64(*(*uint16)(unsafe.Pointer(&b[off]))), 0)
	case Uint32:
		return complex(float64(*(*uint32)(unsafe.Pointer(&b[off]))), 0)
	case Int8:
		return complex(float64(*(*int8)(unsafe.Pointer(&b[off]))), 0)
	case Int16:
		return complex(float64(*(*int16)(unsafe.Pointer(&b[off]))), 0)
	case Int32:
		return complex(float64(*(*int32)(unsafe.Pointer(&b[off]))), 0)
	case Float32:
		return complex(float64(*(*float32)(unsafe.Pointer(&b[off]))), 0)
	case Float64:
		return complex(*(*float64)(unsafe.Pointer(&b[off])), 0)
	case Complex64:
		return complex128(*(*complex64)(unsafe.Pointer(&b[off])))
	case Complex128:
		return *(*complex128)(unsafe.Pointer(&b[off]))
	default:
		panic("unknown data type")
	}
}

// storeSample writes v at byte offset off of b, converting to dt with
// saturation. fromComplex tells whether v originates from a complex-typed
// source; real targets then receive the magnitude rather than the real
// component. Panics on an unknown data type.
func storeSample(b []byte, off int, dt DataType, v complex128, fromComplex bool) {
	if dt.IsComplex() {
		switch dt {
		case Complex64:
			*(*complex64)(unsafe.Pointer(&b[off])) = complex(
				clampFloat32(real(v)), clampFloat32(imag(v)))
		case Complex128:
			*(*complex128)(unsafe.Pointer(&b[off])) = v
		}
		return
	}

	if dt == Bin {
		if v != 0 {
			b[off] = 1
		} else {
			b[off] = 0
		}
		return
	}

	x := real(v)
	if fromComplex {
		x = cmplx.Abs(v)
	}
	switch dt {
	case Uint8:
		b[off] = uint8(clampRange(x, 0, math.MaxUint8))
	case Uint16:
		*(*uint16)(unsafe.Pointer(&b[off])) = uint16(clampRange(x, 0, math.MaxUint16))
	case Uint32:
		*(*uint32)(unsafe.Pointer(&b[off])) = uint32(clampRange(x, 0, math.MaxUint32))
	case Int8:
		*(*int8)(unsafe.Pointer(&b[off])) = int8(clampRange(x, math.MinInt8, math.MaxInt8))
	case Int16:
		*(*int16)(unsafe.Pointer(&b[off])) = int16(clampRange(x, math.MinInt16, math.MaxInt16))
	case Int32:
		*(*int32)(unsafe.Pointer(&b[off])) = int32(clampRange(x, math.MinInt32, math.MaxInt32))
	case Float32:
		*(*float32)(unsafe.Pointer(&b[off])) = clampFloat32(x)
	case Float64:
		*(*float64)(unsafe.Pointer(&b[off])) = x
	default:
		panic("unknown data type")
	}
}

// clampRange saturates v to [lo, hi]. NaN maps to 0, which lies inside the
// range of every supported integer type. The caller truncates by converting.
func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat32 saturates v to the finite float32 range. NaN passes through.
func clampFloat32(v float64) float32 {
	if v > math.MaxFloat32 {
		return math.MaxFloat32
	}
	if v < -math.MaxFloat32 {
		return -math.MaxFloat32
	}
	return float32(v)
}
