package img

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Fill Tests

func TestFillClampsToSampleRange(t *testing.T) {
	tests := []struct {
		name  string
		dt    DataType
		value any
		want  any
	}{
		{"uint8 above range", Uint8, 300.0, 255},
		{"uint8 below range", Uint8, -10, 0},
		{"uint8 from complex magnitude", Uint8, 3 + 4i, 5},
		{"uint8 rounds toward zero", Uint8, 7.9, 7},
		{"int8 below range", Int8, -300, -128},
		{"int16 nan becomes zero", Int16, math.NaN(), 0},
		{"uint16 above range", Uint16, 1 << 20, 65535},
		{"float32 saturates", Float32, 1e60, float64(math.MaxFloat32)},
		{"float64 keeps value", Float64, -1e60, -1e60},
		{"bin true", Bin, true, 1},
		{"bin from nonzero", Bin, -3, 1},
		{"bin from zero", Bin, 0.0, 0},
	}
	for _, tt := range tests {
		im := mustImage(t, []int{3}, 1, tt.dt)
		if err := im.Fill(tt.value); err != nil {
			t.Errorf("%s: Fill failed: %v", tt.name, err)
			continue
		}
		p, err := im.At(1)
		if err != nil {
			t.Fatal(err)
		}
		switch want := tt.want.(type) {
		case int:
			got, err := p.Int()
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s: sample = %d, want %d", tt.name, got, want)
			}
		case float64:
			got, err := p.Float()
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s: sample = %g, want %g", tt.name, got, want)
			}
		}
	}
}

func TestFillComplexAndErrors(t *testing.T) {
	im := mustImage(t, []int{2}, 1, Complex64)
	if err := im.Fill(3 - 4i); err != nil {
		t.Fatal(err)
	}
	p, err := im.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Complex(); got != 3-4i {
		t.Errorf("sample = %v, want (3-4i)", got)
	}

	if err := im.Fill("red"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("string fill: error = %v, want ErrUnsupportedType", err)
	}
	if err := New().Fill(0); !errors.Is(err, ErrNotForged) {
		t.Errorf("raw fill: error = %v, want ErrNotForged", err)
	}
}

func TestFillCoversAllSamples(t *testing.T) {
	im := mustImage(t, []int{4, 3}, 2, Uint8)
	if err := im.Fill(7); err != nil {
		t.Fatal(err)
	}
	for _, b := range im.Data() {
		if b != 7 {
			t.Fatal("Fill must reach every sample, tensor elements included")
		}
	}

	// A filled window leaves the rest of the image alone.
	v, err := im.Window(Range{1, 2, 1}, Range{1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Fill(9); err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, b := range im.Data() {
		if b == 9 {
			n++
		}
	}
	if n != 4 { // 2 pixels x 2 tensor elements
		t.Errorf("window fill touched %d samples, want 4", n)
	}
}

// Copy Tests

func TestCopyForgesRawDestination(t *testing.T) {
	src := mustImage(t, []int{4, 3}, 2, Uint16)
	if err := src.Fill(1000); err != nil {
		t.Fatal(err)
	}
	dst := New()
	if err := dst.Copy(src); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if err := dst.CheckProperties(2, 2, ClassUint16); err != nil {
		t.Errorf("destination properties: %v", err)
	}
	if dst.SharesData(src) {
		t.Error("Copy must allocate, not share")
	}
	p, err := dst.At(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Int(); got != 1000 {
		t.Errorf("sample = %d, want 1000", got)
	}
}

func TestCopyMismatchedShape(t *testing.T) {
	src := mustImage(t, []int{4, 3}, 1, Uint8)
	dst := mustImage(t, []int{3, 4}, 1, Uint8)
	if err := dst.Copy(src); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("sizes mismatch: error = %v, want ErrShapeMismatch", err)
	}
	tdst := mustImage(t, []int{4, 3}, 2, Uint8)
	if err := tdst.Copy(src); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("tensor mismatch: error = %v, want ErrShapeMismatch", err)
	}
	if err := New().Copy(New()); !errors.Is(err, ErrNotForged) {
		t.Errorf("raw source: error = %v, want ErrNotForged", err)
	}
}

func TestCopyConvertsSampleType(t *testing.T) {
	src := mustImage(t, []int{3}, 1, Float64)
	if err := src.Fill(300.7); err != nil {
		t.Fatal(err)
	}
	dst := mustImage(t, []int{3}, 1, Uint8)
	if err := dst.Copy(src); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	p, err := dst.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Int(); got != 255 {
		t.Errorf("sample = %d, want 255 (clamped)", got)
	}
}

func TestCopyMirroredView(t *testing.T) {
	src := mustImage(t, []int{5}, 1, Uint8)
	for i := range src.Data() {
		src.Data()[i] = byte(i)
	}
	if err := src.Mirror(); err != nil {
		t.Fatal(err)
	}
	dst := New()
	if err := dst.Copy(src); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	want := []byte{4, 3, 2, 1, 0}
	if diff := cmp.Diff(want, dst.Data()[:5]); diff != "" {
		t.Errorf("copied values mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyWindowToWindow(t *testing.T) {
	src := mustImage(t, []int{4, 3}, 1, Uint8)
	for i := range src.Data() {
		src.Data()[i] = byte(i)
	}
	sv, err := src.Window(Range{0, 1, 1}, Range{0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	dst := mustImage(t, []int{4, 3}, 1, Uint8)
	if err := dst.Fill(0); err != nil {
		t.Fatal(err)
	}
	dv, err := dst.Window(Range{2, 3, 1}, Range{1, 2, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := dv.Copy(sv); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	// Source pixels (0,0),(1,0),(0,1),(1,1) land at (2,1),(3,1),(2,2),(3,2).
	for _, tc := range []struct{ x, y, want int }{
		{2, 1, 0}, {3, 1, 1}, {2, 2, 4}, {3, 2, 5}, {0, 0, 0}, {1, 2, 0},
	} {
		p, err := dst.At(tc.x, tc.y)
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := p.Int(); got != tc.want {
			t.Errorf("pixel (%d,%d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestCopySelfIsNoOp(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Uint8)
	if err := im.Fill(3); err != nil {
		t.Fatal(err)
	}
	if err := im.Copy(im); err != nil {
		t.Errorf("self copy failed: %v", err)
	}
	p, err := im.At(2)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Int(); got != 3 {
		t.Errorf("sample = %d, want 3", got)
	}
}

// Convert Tests

func TestConvertInPlaceSameWidth(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Int32)
	if err := im.Fill(-7); err != nil {
		t.Fatal(err)
	}
	p := &im.Data()[0]
	if err := im.Convert(Float32); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if im.DataType() != Float32 {
		t.Errorf("type = %s, want float32", im.DataType())
	}
	if &im.Data()[0] != p {
		t.Error("same-width conversion should reuse the buffer")
	}
	s, err := im.At(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Float(); got != -7 {
		t.Errorf("sample = %g, want -7", got)
	}
}

func TestConvertReallocatesAcrossWidths(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Uint8)
	if err := im.Fill(200); err != nil {
		t.Fatal(err)
	}
	p := &im.Data()[0]
	if err := im.Convert(Float64); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if &im.Data()[0] == p {
		t.Error("widening conversion needs a fresh buffer")
	}
	s, err := im.At(3)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Float(); got != 200 {
		t.Errorf("sample = %g, want 200", got)
	}
}

func TestConvertSharedBufferReallocates(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Int32)
	view := im.QuickCopy()
	if err := im.Convert(Float32); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if im.SharesData(view) {
		t.Error("converting a shared buffer in place would corrupt the other view")
	}
	if view.DataType() != Int32 {
		t.Errorf("view type = %s, want int32 untouched", view.DataType())
	}
}

func TestConvertBroadcastViewReallocates(t *testing.T) {
	im := mustImage(t, []int{1}, 1, Float32)
	if err := im.Fill(2.5); err != nil {
		t.Fatal(err)
	}
	if err := im.ExpandSingletonDimension(0, 3); err != nil {
		t.Fatal(err)
	}
	// Same width, but the three logical samples share one address;
	// rewriting it in place would destroy the value.
	if err := im.Convert(Int32); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	for x := 0; x < 3; x++ {
		p, err := im.At(x)
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := p.Int(); got != 2 {
			t.Errorf("broadcast sample %d = %d, want 2", x, got)
		}
	}
	if im.Stride(0) == 0 {
		t.Error("conversion must materialize the broadcast dimension")
	}
}

func TestConvertExpandedTensorReallocates(t *testing.T) {
	im := mustImage(t, []int{2}, 1, Float32)
	if err := im.Fill(2.5); err != nil {
		t.Fatal(err)
	}
	if err := im.ExpandSingletonTensor(3); err != nil {
		t.Fatal(err)
	}
	if err := im.Convert(Int32); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if im.TensorElements() != 3 {
		t.Fatalf("TensorElements = %d, want 3", im.TensorElements())
	}
	for ti := 0; ti < 3; ti++ {
		ch, err := im.TensorAt(ti)
		if err != nil {
			t.Fatal(err)
		}
		p, err := ch.At(1)
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := p.Int(); got != 2 {
			t.Errorf("channel %d = %d, want 2", ti, got)
		}
	}
}

func TestConvertComplexToReal(t *testing.T) {
	im := mustImage(t, []int{3}, 1, Complex64)
	if err := im.Fill(3 + 4i); err != nil {
		t.Fatal(err)
	}
	if err := im.Convert(Float32); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	s, err := im.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Float(); got != 5 {
		t.Errorf("sample = %g, want 5 (magnitude)", got)
	}
}

func TestConvertProtectedMismatch(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Uint8)
	view := im.QuickCopy()
	view.Protect(true)
	// Same width would convert in place, but the view shares the buffer,
	// and replacing it is forbidden while protected.
	if err := view.Convert(Int8); !errors.Is(err, ErrProtected) {
		t.Errorf("protected shared convert: error = %v, want ErrProtected", err)
	}
	if view.DataType() != Uint8 {
		t.Error("failed conversion must leave the image untouched")
	}
}

func TestConvertNoOp(t *testing.T) {
	im := mustImage(t, []int{4}, 1, Uint8)
	p := &im.Data()[0]
	if err := im.Convert(Uint8); err != nil {
		t.Fatal(err)
	}
	if &im.Data()[0] != p {
		t.Error("converting to the same type should change nothing")
	}
}

// Single-pixel extraction Tests

func TestSampleExtraction(t *testing.T) {
	im := mustImage(t, []int{3}, 1, Int16)
	if err := im.Fill(-42); err != nil {
		t.Fatal(err)
	}
	p, err := im.At(1)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := p.Int(); err != nil || got != -42 {
		t.Errorf("Int = %d, %v, want -42", got, err)
	}
	if got, err := p.Float(); err != nil || got != -42 {
		t.Errorf("Float = %g, %v, want -42", got, err)
	}
	if got, err := p.Complex(); err != nil || got != -42 {
		t.Errorf("Complex = %v, %v, want -42", got, err)
	}

	if _, err := im.Int(); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Int on a 3-pixel image: error = %v, want ErrShapeMismatch", err)
	}
	if _, err := New().Float(); !errors.Is(err, ErrNotForged) {
		t.Errorf("Float on raw: error = %v, want ErrNotForged", err)
	}
}

func TestSampleExtractionFromComplex(t *testing.T) {
	im := mustImage(t, []int{1}, 1, Complex128)
	if err := im.Fill(-3 + 4i); err != nil {
		t.Fatal(err)
	}
	if got, err := im.Int(); err != nil || got != 5 {
		t.Errorf("Int = %d, %v, want 5 (magnitude)", got, err)
	}
	if got, err := im.Float(); err != nil || got != 5 {
		t.Errorf("Float = %g, %v, want 5 (magnitude)", got, err)
	}
	if got, err := im.Complex(); err != nil || got != -3+4i {
		t.Errorf("Complex = %v, %v, want (-3+4i)", got, err)
	}
}

// Copy constructor Tests

func TestNewCopy(t *testing.T) {
	src := mustImage(t, []int{4, 3}, 1, Float32)
	if err := src.Fill(1.5); err != nil {
		t.Fatal(err)
	}
	src.SetPixelSize(NewPixelSize(PhysicalQuantity{0.5, "um"}))
	dst, err := NewCopy(src)
	if err != nil {
		t.Fatalf("NewCopy failed: %v", err)
	}
	if dst.SharesData(src) {
		t.Error("NewCopy must allocate its own block")
	}
	if err := dst.CheckSizes([]int{4, 3}, 1, ClassFloat32); err != nil {
		t.Errorf("copy properties: %v", err)
	}
	if got := dst.PixelSize().Get(0).Magnitude; got != 0.5 {
		t.Errorf("pixel size = %g, want 0.5", got)
	}
	p, err := dst.At(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Float(); got != 1.5 {
		t.Errorf("sample = %g, want 1.5", got)
	}
}

func TestNewConverted(t *testing.T) {
	src := mustImage(t, []int{3}, 1, Uint8)
	if err := src.Fill(200); err != nil {
		t.Fatal(err)
	}
	dst, err := NewConverted(src, Float64)
	if err != nil {
		t.Fatalf("NewConverted failed: %v", err)
	}
	if dst.DataType() != Float64 || src.DataType() != Uint8 {
		t.Errorf("types = %s, %s, want float64 and untouched uint8", dst.DataType(), src.DataType())
	}
	p, err := dst.At(2)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := p.Float(); got != 200 {
		t.Errorf("sample = %g, want 200", got)
	}
}
