package img

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Dimension manipulation Tests

func TestPermuteDimensions(t *testing.T) {
	im := mustImage(t, []int{4, 3, 1}, 1, Uint8)
	im.SetPixelSize(NewPixelSize(
		PhysicalQuantity{1, "um"},
		PhysicalQuantity{2, "um"},
		PhysicalQuantity{3, "um"},
	))
	if err := im.PermuteDimensions([]int{1, 0}); err != nil {
		t.Fatalf("PermuteDimensions failed: %v", err)
	}
	if diff := cmp.Diff([]int{3, 4}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 1}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}
	if got := im.PixelSize().Get(0).Magnitude; got != 2 {
		t.Errorf("pixel size dim 0 = %g, want 2 (followed its dimension)", got)
	}
}

func TestPermuteDimensionsErrors(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 1, Uint8)
	if err := im.PermuteDimensions([]int{0, 0}); !errors.Is(err, ErrDomain) {
		t.Errorf("duplicate entry: error = %v, want ErrDomain", err)
	}
	if err := im.PermuteDimensions([]int{0, 2}); !errors.Is(err, ErrDomain) {
		t.Errorf("out of range entry: error = %v, want ErrDomain", err)
	}
	if err := im.PermuteDimensions([]int{0}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("dropping non-singleton: error = %v, want ErrShapeMismatch", err)
	}
	if diff := cmp.Diff([]int{4, 3}, im.Sizes()); diff != "" {
		t.Errorf("failed permute must change nothing (-want +got):\n%s", diff)
	}
}

func TestSwapDimensions(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 1, Uint8)
	if err := im.SwapDimensions(0, 1); err != nil {
		t.Fatalf("SwapDimensions failed: %v", err)
	}
	if diff := cmp.Diff([]int{3, 4}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 1}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}
}

func TestSqueeze(t *testing.T) {
	im := mustImage(t, []int{4, 1, 3}, 1, Uint8)
	if err := im.Squeeze(); err != nil {
		t.Fatalf("Squeeze failed: %v", err)
	}
	if diff := cmp.Diff([]int{4, 3}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 4}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}
}

func TestSqueezeDimension(t *testing.T) {
	im := mustImage(t, []int{4, 1, 3}, 1, Uint8)
	if err := im.SqueezeDimension(0); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("squeezing non-singleton: error = %v, want ErrShapeMismatch", err)
	}
	if err := im.SqueezeDimension(1); err != nil {
		t.Fatalf("SqueezeDimension failed: %v", err)
	}
	if im.Dimensionality() != 2 {
		t.Errorf("dimensionality = %d, want 2", im.Dimensionality())
	}
}

func TestAddSingletonAndExpand(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Uint8)
	if err := im.AddSingleton(0); err != nil {
		t.Fatalf("AddSingleton failed: %v", err)
	}
	if diff := cmp.Diff([]int{1, 4}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if im.Stride(0) != 0 {
		t.Errorf("singleton stride = %d, want 0", im.Stride(0))
	}

	if err := im.ExpandDimensionality(4); err != nil {
		t.Fatalf("ExpandDimensionality failed: %v", err)
	}
	if diff := cmp.Diff([]int{1, 4, 1, 1}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if err := im.ExpandDimensionality(2); err != nil {
		t.Fatalf("ExpandDimensionality no-op failed: %v", err)
	}
	if im.Dimensionality() != 4 {
		t.Error("ExpandDimensionality must never shrink")
	}
}

func TestExpandSingletonDimensionBroadcasts(t *testing.T) {
	im := mustImage(t, []int{1, 3}, 1, Uint8)
	im.Fill(0)
	if err := im.ExpandSingletonDimension(0, 4); err != nil {
		t.Fatalf("ExpandSingletonDimension failed: %v", err)
	}
	if im.Size(0) != 4 || im.Stride(0) != 0 {
		t.Errorf("size=%d stride=%d, want 4 0", im.Size(0), im.Stride(0))
	}
	// All rows alias the same samples.
	v, err := im.At(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Fill(7); err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 4; x++ {
		p, err := im.At(x, 1)
		if err != nil {
			t.Fatal(err)
		}
		got, err := p.Int()
		if err != nil {
			t.Fatal(err)
		}
		if got != 7 {
			t.Errorf("pixel (%d,1) = %d, want 7 (broadcast aliases)", x, got)
		}
	}

	if err := im.ExpandSingletonDimension(1, 5); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expanding non-singleton: error = %v, want ErrShapeMismatch", err)
	}
}

func TestExpandSingletonTensor(t *testing.T) {
	im := mustImage(t, []int{3}, 1, Float32)
	im.Fill(2.5)
	if err := im.ExpandSingletonTensor(4); err != nil {
		t.Fatalf("ExpandSingletonTensor failed: %v", err)
	}
	if im.TensorElements() != 4 || im.TensorStride() != 0 {
		t.Errorf("elements=%d tstride=%d, want 4 0", im.TensorElements(), im.TensorStride())
	}
	v, err := im.At(1)
	if err != nil {
		t.Fatal(err)
	}
	c, err := v.TensorAt(3)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Float()
	if err != nil {
		t.Fatal(err)
	}
	if got != 2.5 {
		t.Errorf("channel 3 = %g, want 2.5 (aliases the stored sample)", got)
	}
}

func TestMirrorSelectedDimensions(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 1, Uint8)
	if err := im.Mirror(true, false); err != nil {
		t.Fatalf("Mirror failed: %v", err)
	}
	if diff := cmp.Diff([]int{-1, 4}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}
	if im.Origin() != 3 {
		t.Errorf("origin = %d, want 3", im.Origin())
	}
	if err := im.Mirror(true); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("wrong flag count: error = %v, want ErrShapeMismatch", err)
	}
}

func TestMirrorRoundTripsValues(t *testing.T) {
	im := mustImage(t, []int{5}, 1, Uint8)
	for i := 0; i < 5; i++ {
		im.Data()[i] = byte(i)
	}
	if err := im.Mirror(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		p, err := im.At(i)
		if err != nil {
			t.Fatal(err)
		}
		got, err := p.Int()
		if err != nil {
			t.Fatal(err)
		}
		if got != 4-i {
			t.Errorf("mirrored pixel %d = %d, want %d", i, got, 4-i)
		}
	}
}

// Flatten Tests

func TestFlattenSimpleStrideIsAView(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 1, Uint8)
	p := &im.Data()[0]
	if err := im.Flatten(); err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if diff := cmp.Diff([]int{12}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if im.Stride(0) != 1 {
		t.Errorf("stride = %d, want 1", im.Stride(0))
	}
	if &im.Data()[0] != p {
		t.Error("simple-stride Flatten must not copy")
	}
}

func TestFlattenCopiesWhenStrided(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 1, Uint8)
	for i := range im.Data() {
		im.Data()[i] = byte(i)
	}
	v, err := im.Window(Range{0, 1, 1}, Range{0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Flatten(); err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if v.SharesData(im) {
		t.Error("strided Flatten must copy into a fresh block")
	}
	want := []byte{0, 1, 4, 5} // window pixels in index order
	if diff := cmp.Diff(want, v.Data()[:4]); diff != "" {
		t.Errorf("flattened values mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenProtectedStrided(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 1, Uint8)
	v, err := im.Window(Range{0, 1, 1}, Range{0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	v.Protect(true)
	if err := v.Flatten(); !errors.Is(err, ErrProtected) {
		t.Errorf("strided Flatten of protected view: error = %v, want ErrProtected", err)
	}
}

// Tensor dimension Tests

func TestTensorToSpatialRoundTrip(t *testing.T) {
	im := mustImage(t, []int{4}, 3, Uint8)
	if err := im.TensorToSpatial(0); err != nil {
		t.Fatalf("TensorToSpatial failed: %v", err)
	}
	if !im.IsScalar() {
		t.Error("TensorToSpatial should leave a scalar image")
	}
	if diff := cmp.Diff([]int{3, 4}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 3}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}

	if err := im.SpatialToTensor(0, 3, 1); err != nil {
		t.Fatalf("SpatialToTensor failed: %v", err)
	}
	if im.TensorElements() != 3 || im.TensorStride() != 1 {
		t.Errorf("elements=%d tstride=%d, want 3 1", im.TensorElements(), im.TensorStride())
	}
	if diff := cmp.Diff([]int{4}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestSpatialToTensorInfersSize(t *testing.T) {
	im := mustImage(t, []int{6, 2}, 1, Float32)
	if err := im.SpatialToTensor(0, 0, 2); err != nil {
		t.Fatalf("SpatialToTensor failed: %v", err)
	}
	if im.TensorRows() != 3 || im.TensorColumns() != 2 {
		t.Errorf("tensor = %s, want 3x2", im.Tensor())
	}
	if err := im.SpatialToTensor(0, 0, 0); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("non-scalar source: error = %v, want ErrShapeMismatch", err)
	}
}

// Complex layout Tests

func TestSplitMergeComplex(t *testing.T) {
	im := mustImage(t, []int{3}, 1, Complex64)
	im.Fill(3 + 4i)
	if err := im.SplitComplex(0); err != nil {
		t.Fatalf("SplitComplex failed: %v", err)
	}
	if im.DataType() != Float32 {
		t.Errorf("type = %s, want float32", im.DataType())
	}
	if diff := cmp.Diff([]int{2, 3}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}
	re, err := im.At(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := re.Float(); got != 3 {
		t.Errorf("real part = %g, want 3", got)
	}
	icomp, err := im.At(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := icomp.Float(); got != 4 {
		t.Errorf("imaginary part = %g, want 4", got)
	}

	if err := im.MergeComplex(0); err != nil {
		t.Fatalf("MergeComplex failed: %v", err)
	}
	if im.DataType() != Complex64 {
		t.Errorf("type = %s, want complex64", im.DataType())
	}
	if diff := cmp.Diff([]int{3}, im.Sizes()); diff != "" {
		t.Errorf("sizes mismatch (-want +got):\n%s", diff)
	}
	p, err := im.At(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Complex(); got != 3+4i {
		t.Errorf("merged sample = %v, want (3+4i)", got)
	}
}

func TestMergeComplexValidation(t *testing.T) {
	im := mustImage(t, []int{3, 2}, 1, Float32)
	if err := im.MergeComplex(0); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("size-3 dimension: error = %v, want ErrShapeMismatch", err)
	}
	c := mustImage(t, []int{4}, 1, Complex64)
	if err := c.MergeComplex(0); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("complex source: error = %v, want ErrUnsupportedType", err)
	}
}

func TestSplitMergeComplexTensor(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Complex128)
	im.Fill(1 - 2i)
	if err := im.SplitComplexToTensor(); err != nil {
		t.Fatalf("SplitComplexToTensor failed: %v", err)
	}
	if im.DataType() != Float64 || im.TensorElements() != 2 || im.TensorStride() != 1 {
		t.Errorf("split = %s, tstride %d", im, im.TensorStride())
	}
	if diff := cmp.Diff([]int{2}, im.Strides()); diff != "" {
		t.Errorf("strides mismatch (-want +got):\n%s", diff)
	}
	p, err := im.At(2)
	if err != nil {
		t.Fatal(err)
	}
	imag, err := p.TensorAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := imag.Float(); got != -2 {
		t.Errorf("imaginary channel = %g, want -2", got)
	}

	if err := im.MergeTensorToComplex(); err != nil {
		t.Fatalf("MergeTensorToComplex failed: %v", err)
	}
	if im.DataType() != Complex128 || !im.IsScalar() {
		t.Errorf("merged = %s", im)
	}
	p, err = im.At(3)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Complex(); got != 1-2i {
		t.Errorf("merged sample = %v, want (1-2i)", got)
	}
}

// Tensor reshape Tests

func TestReshapeTensor(t *testing.T) {
	im := mustImage(t, []int{2}, 6, Uint8)
	if err := im.ReshapeTensor(2, 3); err != nil {
		t.Fatalf("ReshapeTensor failed: %v", err)
	}
	if im.TensorRows() != 2 || im.TensorColumns() != 3 {
		t.Errorf("tensor = %s, want 2x3", im.Tensor())
	}
	if err := im.ReshapeTensor(4, 2); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("wrong element count: error = %v, want ErrShapeMismatch", err)
	}
	if err := im.ReshapeTensorAsVector(); err != nil {
		t.Fatalf("ReshapeTensorAsVector failed: %v", err)
	}
	if !im.IsVector() || im.TensorElements() != 6 {
		t.Errorf("tensor = %s, want 6-vector", im.Tensor())
	}

	d := mustImage(t, []int{2}, 3, Uint8)
	if err := d.ReshapeTensorAsDiagonal(); err != nil {
		t.Fatalf("ReshapeTensorAsDiagonal failed: %v", err)
	}
	if d.Tensor().Shape() != DiagonalMatrix || d.TensorRows() != 3 {
		t.Errorf("tensor = %s, want 3x3 diagonal", d.Tensor())
	}

	v := mustImage(t, []int{2}, 3, Uint8)
	if err := v.TransposeTensor(); err != nil {
		t.Fatal(err)
	}
	if v.Tensor().Shape() != RowVector {
		t.Errorf("tensor = %s, want row vector", v.Tensor())
	}
}

func TestManipRequiresForged(t *testing.T) {
	im := New()
	if err := im.Mirror(); !errors.Is(err, ErrNotForged) {
		t.Errorf("Mirror on raw: error = %v, want ErrNotForged", err)
	}
	if err := im.Flatten(); !errors.Is(err, ErrNotForged) {
		t.Errorf("Flatten on raw: error = %v, want ErrNotForged", err)
	}
	if err := im.PermuteDimensions(nil); !errors.Is(err, ErrNotForged) {
		t.Errorf("PermuteDimensions on raw: error = %v, want ErrNotForged", err)
	}
}
