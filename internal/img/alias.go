package img

import (
	"math"
	"slices"
	"sort"
)

// IsIdenticalView returns true when both images address exactly the same
// samples the same way: same data block, origin, data type, strides and
// tensor stride. Writing through one is then indistinguishable from
// writing through the other.
func (im *Image) IsIdenticalView(other *Image) bool {
	return im.SharesData(other) &&
		im.origin == other.origin &&
		im.dtype == other.dtype &&
		slices.Equal(im.strides, other.strides) &&
		im.tensorStride == other.tensorStride
}

// Aliases returns true when the two images share any sample memory. It
// never returns a false negative: geometries it cannot characterize
// exactly are reported as aliasing. Raw images alias nothing.
func (im *Image) Aliases(other *Image) bool {
	if !im.SharesData(other) {
		return false
	}
	if im.origin == other.origin {
		return true
	}
	unit := min(im.dtype.SizeOf(), other.dtype.SizeOf())
	a, ok1 := normalizedAddresses(im, unit)
	b, ok2 := normalizedAddresses(other, unit)
	if !ok1 || !ok2 {
		return true
	}
	return addressesIntersect(a, b)
}

// Alias reports whether a and b share any sample memory.
func Alias(a, b *Image) bool {
	return a.Aliases(b)
}

// IsOverlappingView returns true when any of the candidates shares
// sample memory with im without being an identical view. Such a
// candidate cannot safely be written while im is being read.
func (im *Image) IsOverlappingView(others ...*Image) bool {
	for _, other := range others {
		if other == nil || !other.IsForged() {
			continue
		}
		if im.Aliases(other) && !im.IsIdenticalView(other) {
			return true
		}
	}
	return false
}

// addressSet describes the set of unit offsets an image reaches within
// its block: origin plus every combination of c*stride, strides positive
// and sorted ascending, sizes all at least 2.
type addressSet struct {
	origin  int
	strides []int
	sizes   []int
}

// normalizedAddresses reduces an image's geometry to an addressSet in
// the given unit (a divisor of the sample size). The tensor dimension is
// folded in as a spatial one, wider samples gain a split dimension of
// unit-sized parts, negative strides are flipped with the origin moved
// to the low end, and singleton and zero-stride dimensions are dropped.
// Reports false when the origin does not fall on a unit boundary, in
// which case the set cannot be expressed in these terms.
func normalizedAddresses(im *Image, unit int) (addressSet, bool) {
	if im.origin%unit != 0 {
		return addressSet{}, false
	}
	scale := im.dtype.SizeOf() / unit
	set := addressSet{origin: im.origin / unit}
	push := func(stride, size int) {
		if size <= 1 || stride == 0 {
			return
		}
		if stride < 0 {
			set.origin += stride * (size - 1)
			stride = -stride
		}
		set.strides = append(set.strides, stride)
		set.sizes = append(set.sizes, size)
	}
	for d, sz := range im.sizes {
		push(im.strides[d]*scale, sz)
	}
	if n := im.tensor.Elements(); n > 1 {
		push(im.tensorStride*scale, n)
	}
	if scale > 1 {
		push(1, scale)
	}
	sort.Sort(&set)
	return set, true
}

func (s *addressSet) Len() int { return len(s.strides) }
func (s *addressSet) Less(i, j int) bool {
	return s.strides[i] < s.strides[j]
}
func (s *addressSet) Swap(i, j int) {
	s.strides[i], s.strides[j] = s.strides[j], s.strides[i]
	s.sizes[i], s.sizes[j] = s.sizes[j], s.sizes[i]
}

// last returns the highest offset in the set.
func (s *addressSet) last() int {
	off := s.origin
	for i, stride := range s.strides {
		off += stride * (s.sizes[i] - 1)
	}
	return off
}

// progression reports the set as an arithmetic progression of count
// offsets stepping by step, which exists exactly when consecutive
// strides chain: each stride equals the previous one times its size.
func (s *addressSet) progression() (step, count int, ok bool) {
	step, count = 1, 1
	if len(s.strides) > 0 {
		step = s.strides[0]
	}
	for i, stride := range s.strides {
		if stride != step*count {
			return 0, 0, false
		}
		count *= s.sizes[i]
	}
	return step, count, true
}

// addressesIntersect decides whether two normalized sets within the same
// block share an offset. Exact for disjoint extents, for progression
// (simple-stride) pairs, and for pairs with equal stride arrays;
// everything else is reported as intersecting.
func addressesIntersect(a, b addressSet) bool {
	if a.origin == b.origin {
		return true
	}
	if a.last() < b.origin || b.last() < a.origin {
		return false
	}
	as, an, aok := a.progression()
	bs, bn, bok := b.progression()
	if aok && bok {
		return progressionsIntersect(a.origin, as, an, b.origin, bs, bn)
	}
	if slices.Equal(a.strides, b.strides) {
		return latticesIntersect(a, b)
	}
	return true
}

// progressionsIntersect solves for a common member of two arithmetic
// progressions. Falls back to true if the combined step overflows.
func progressionsIntersect(o1, s1, n1, o2, s2, n2 int) bool {
	g, x, _ := egcd(s1, s2)
	if (o2-o1)%g != 0 {
		return false
	}
	lo := max(o1, o2)
	hi := min(o1+s1*(n1-1), o2+s2*(n2-1))
	m := s2 / g
	if s1/g > math.MaxInt/s2 || s1 > math.MaxInt32 || m > math.MaxInt32 {
		return true
	}
	l := s1 / g * s2
	// First solution of o1 + s1*t = o2 (mod s2): t = (o2-o1)/g * x (mod s2/g).
	t := mod((o2-o1)/g%m*(x%m), m)
	first := o1 + s1*t
	if first < lo {
		first += (lo - first + l - 1) / l * l
	}
	return first <= hi
}

// latticesIntersect decides intersection for two sets with identical
// stride arrays by decomposing the origin difference over the strides,
// largest first, bounding each coefficient by what smaller strides can
// still absorb. The search is exact; if it grows beyond a small node
// budget the answer falls back to true.
func latticesIntersect(a, b addressSet) bool {
	n := len(a.strides)
	bounds := make([]int, n) // what dims below d can contribute
	acc := 0
	for d := 0; d < n; d++ {
		bounds[d] = acc
		acc += a.strides[d] * (max(a.sizes[d], b.sizes[d]) - 1)
	}
	budget := 1 << 10
	var solve func(d, diff int) bool
	solve = func(d, diff int) bool {
		if budget--; budget < 0 {
			return true
		}
		if d < 0 {
			return diff == 0
		}
		s := a.strides[d]
		lo := ceilDiv(diff-bounds[d], s)
		hi := floorDiv(diff+bounds[d], s)
		lo = max(lo, -(b.sizes[d] - 1))
		hi = min(hi, a.sizes[d]-1)
		for k := lo; k <= hi; k++ {
			if solve(d-1, diff-k*s) {
				return true
			}
		}
		return false
	}
	return solve(n-1, b.origin-a.origin)
}

// egcd returns gcd(a, b) and x, y with a*x + b*y = gcd. a and b must be
// positive.
func egcd(a, b int) (g, x, y int) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := egcd(b, a%b)
	return g, y1, x1 - a/b*y1
}

// mod returns the non-negative remainder of a/m for positive m.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
