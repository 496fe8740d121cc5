package img

import "errors"

// Error kinds. Every failure returned by this package wraps exactly one of
// these sentinels, so callers classify with errors.Is and still see the
// operation context in the message. All are contract violations detected
// synchronously; none leaves the handle partially mutated.
var (
	// ErrNotForged: the operation requires a forged image but it is raw.
	ErrNotForged = errors.New("image is not forged")

	// ErrNotRaw: the operation mutates shape, strides or type and requires
	// a raw image, but it is forged.
	ErrNotRaw = errors.New("image is not raw")

	// ErrDomain: coordinates, index or range outside the image extent.
	ErrDomain = errors.New("out of domain")

	// ErrShapeMismatch: incompatible element counts or dimension sizes.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnsupportedType: data type not in the supported set for the
	// requested operation.
	ErrUnsupportedType = errors.New("unsupported data type")

	// ErrProtected: release requested on a protected image.
	ErrProtected = errors.New("image is protected")
)
