package img

import (
	"fmt"
	"slices"
)

// PhysicalQuantity is a magnitude with a unit label, e.g. {0.25, "um"}.
// The zero value means "one pixel" (dimensionless).
type PhysicalQuantity struct {
	Magnitude float64
	Units     string
}

// dimensionless pixel unit, used when no pixel size is defined.
var pixelQuantity = PhysicalQuantity{Magnitude: 1, Units: "px"}

// String returns the quantity as "<magnitude> <units>".
func (pq PhysicalQuantity) String() string {
	return fmt.Sprintf("%g %s", pq.Magnitude, pq.Units)
}

// PixelSize records the physical extent of one pixel along each spatial
// dimension. When fewer quantities are stored than the image has
// dimensions, the last one repeats; an empty PixelSize is undefined and
// reads as one pixel per pixel.
type PixelSize struct {
	sizes []PhysicalQuantity
}

// NewPixelSize returns a PixelSize holding the given per-dimension
// quantities.
func NewPixelSize(sizes ...PhysicalQuantity) PixelSize {
	return PixelSize{sizes: slices.Clone(sizes)}
}

// IsDefined returns true when any quantity has been set.
func (ps PixelSize) IsDefined() bool {
	return len(ps.sizes) > 0
}

// Get returns the pixel size along dim, repeating the last stored quantity
// for higher dimensions. Undefined pixel sizes read as 1 px.
func (ps PixelSize) Get(dim int) PhysicalQuantity {
	if len(ps.sizes) == 0 {
		return pixelQuantity
	}
	if dim >= len(ps.sizes) {
		dim = len(ps.sizes) - 1
	}
	return ps.sizes[dim]
}

// Set stores the pixel size along dim, extending with the last known
// quantity as needed.
func (ps *PixelSize) Set(dim int, pq PhysicalQuantity) {
	for len(ps.sizes) <= dim {
		ps.sizes = append(ps.sizes, ps.Get(dim))
	}
	ps.sizes[dim] = pq
}

// IsIsotropic returns true when every stored quantity is the same.
func (ps PixelSize) IsIsotropic() bool {
	for i := 1; i < len(ps.sizes); i++ {
		if ps.sizes[i] != ps.sizes[0] {
			return false
		}
	}
	return true
}

func (ps PixelSize) clone() PixelSize {
	return PixelSize{sizes: slices.Clone(ps.sizes)}
}

// equal compares through the repeat-last rule, so {1 mm} and
// {1 mm, 1 mm} are the same pixel size.
func (ps PixelSize) equal(other PixelSize) bool {
	if !ps.IsDefined() || !other.IsDefined() {
		return ps.IsDefined() == other.IsDefined()
	}
	for d := 0; d < max(len(ps.sizes), len(other.sizes)); d++ {
		if ps.Get(d) != other.Get(d) {
			return false
		}
	}
	return true
}

// reindexed maps the pixel size through a dimension reordering: dims[i]
// names the source dimension feeding new dimension i, with -1 for a fresh
// dimension (one pixel). An undefined pixel size stays undefined.
func (ps PixelSize) reindexed(dims []int) PixelSize {
	if !ps.IsDefined() {
		return PixelSize{}
	}
	out := make([]PhysicalQuantity, len(dims))
	for i, d := range dims {
		if d < 0 {
			out[i] = pixelQuantity
		} else {
			out[i] = ps.Get(d)
		}
	}
	return PixelSize{sizes: out}
}

// PixelSize returns the image's pixel size metadata.
func (im *Image) PixelSize() PixelSize {
	return im.pixelSize.clone()
}

// SetPixelSize replaces the image's pixel size metadata.
func (im *Image) SetPixelSize(ps PixelSize) {
	im.pixelSize = ps.clone()
}

// HasPixelSize returns true when pixel size metadata is defined.
func (im *Image) HasPixelSize() bool {
	return im.pixelSize.IsDefined()
}

// IsIsotropic returns true when the pixel size is the same along every
// dimension (an undefined pixel size is isotropic).
func (im *Image) IsIsotropic() bool {
	return im.pixelSize.IsIsotropic()
}

// PixelsToPhysical converts a length in pixels along dim to a physical
// quantity.
func (im *Image) PixelsToPhysical(dim int, pixels float64) PhysicalQuantity {
	pq := im.pixelSize.Get(dim)
	return PhysicalQuantity{Magnitude: pixels * pq.Magnitude, Units: pq.Units}
}

// PhysicalToPixels converts a physical length along dim to pixels.
func (im *Image) PhysicalToPixels(dim int, magnitude float64) float64 {
	pq := im.pixelSize.Get(dim)
	return magnitude / pq.Magnitude
}

// ColorSpace returns the color space label, empty when none is set.
func (im *Image) ColorSpace() string {
	return im.colorSpace
}

// SetColorSpace sets the color space label. The core does not interpret
// it; color management lives in a collaborator.
func (im *Image) SetColorSpace(cs string) {
	im.colorSpace = cs
}

// ResetColorSpace clears the color space label.
func (im *Image) ResetColorSpace() {
	im.colorSpace = ""
}

// IsColor returns true when a color space label is set.
func (im *Image) IsColor() bool {
	return im.colorSpace != ""
}
