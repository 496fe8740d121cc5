package img

import "fmt"

// TensorShape tags the matrix layout of the tensor (channel) dimension.
type TensorShape int

// Supported tensor layouts. Matrices that are structurally sparse store only
// their unique elements: a diagonal matrix stores n samples, symmetric and
// triangular matrices store n(n+1)/2.
const (
	ColVector TensorShape = iota
	RowVector
	ColMajorMatrix
	RowMajorMatrix
	DiagonalMatrix
	SymmetricMatrix
	UpperTriangularMatrix
	LowerTriangularMatrix
)

// String returns a human-readable name for the tensor shape.
func (ts TensorShape) String() string {
	switch ts {
	case ColVector:
		return "column vector"
	case RowVector:
		return "row vector"
	case ColMajorMatrix:
		return "column-major matrix"
	case RowMajorMatrix:
		return "row-major matrix"
	case DiagonalMatrix:
		return "diagonal matrix"
	case SymmetricMatrix:
		return "symmetric matrix"
	case UpperTriangularMatrix:
		return "upper triangular matrix"
	case LowerTriangularMatrix:
		return "lower triangular matrix"
	default:
		return "unknown"
	}
}

// Tensor describes the per-pixel channel dimension: a scalar, a vector, or a
// small matrix. Storage order for symmetric and triangular matrices puts the
// diagonal elements first, then the off-diagonal elements column by column,
// so the main diagonal of every layout is a contiguous prefix.
type Tensor struct {
	shape    TensorShape
	elements int
	rows     int
}

// ScalarTensor returns the channel layout of a scalar image: one element.
func ScalarTensor() Tensor {
	return Tensor{shape: ColVector, elements: 1, rows: 1}
}

// VectorTensor returns a column vector of n elements.
// Panics if n < 1.
func VectorTensor(n int) Tensor {
	if n < 1 {
		panic("tensor must have at least one element")
	}
	return Tensor{shape: ColVector, elements: n, rows: n}
}

// MatrixTensor returns a column-major full matrix of rows × cols elements.
// Panics if rows < 1 or cols < 1.
func MatrixTensor(rows, cols int) Tensor {
	if rows < 1 || cols < 1 {
		panic("tensor must have at least one element")
	}
	return Tensor{shape: ColMajorMatrix, elements: rows * cols, rows: rows}
}

// ShapedTensor builds a tensor with an explicit layout tag. rows is the
// matrix row count (or vector length) and n the stored element count.
// Returns an error when the element count implied by the tag does not
// match n.
func ShapedTensor(shape TensorShape, rows, n int) (Tensor, error) {
	if rows < 1 || n < 1 {
		return Tensor{}, fmt.Errorf("%w: tensor must have at least one element", ErrShapeMismatch)
	}
	want := 0
	switch shape {
	case ColVector, RowVector:
		rows = n
		want = n
	case ColMajorMatrix, RowMajorMatrix:
		if n%rows != 0 {
			return Tensor{}, fmt.Errorf("%w: %d elements do not fill a matrix with %d rows", ErrShapeMismatch, n, rows)
		}
		want = n
	case DiagonalMatrix:
		want = rows
	case SymmetricMatrix, UpperTriangularMatrix, LowerTriangularMatrix:
		want = rows * (rows + 1) / 2
	default:
		return Tensor{}, fmt.Errorf("%w: unknown tensor shape", ErrShapeMismatch)
	}
	if n != want {
		return Tensor{}, fmt.Errorf("%w: %s with %d rows needs %d elements, got %d", ErrShapeMismatch, shape, rows, want, n)
	}
	if shape == RowVector {
		rows = 1
	}
	return Tensor{shape: shape, elements: n, rows: rows}, nil
}

// Shape returns the layout tag.
func (t Tensor) Shape() TensorShape {
	return t.shape
}

// Elements returns the number of stored samples per pixel.
func (t Tensor) Elements() int {
	return t.elements
}

// Rows returns the number of logical matrix rows.
func (t Tensor) Rows() int {
	switch t.shape {
	case RowVector:
		return 1
	case ColVector:
		return t.elements
	default:
		return t.rows
	}
}

// Columns returns the number of logical matrix columns.
func (t Tensor) Columns() int {
	switch t.shape {
	case ColVector:
		return 1
	case RowVector:
		return t.elements
	case ColMajorMatrix, RowMajorMatrix:
		return t.elements / t.rows
	default:
		return t.rows
	}
}

// Sizes returns the logical tensor dimensions: empty for a scalar, {n} for a
// vector, {rows, cols} for any matrix layout.
func (t Tensor) Sizes() []int {
	switch {
	case t.IsScalar():
		return []int{}
	case t.IsVector():
		return []int{t.elements}
	default:
		return []int{t.Rows(), t.Columns()}
	}
}

// IsScalar returns true when the tensor holds exactly one element.
func (t Tensor) IsScalar() bool {
	return t.elements == 1
}

// IsVector returns true for row and column vectors.
func (t Tensor) IsVector() bool {
	return t.shape == ColVector || t.shape == RowVector
}

// IsDiagonal returns true for the diagonal matrix layout.
func (t Tensor) IsDiagonal() bool {
	return t.shape == DiagonalMatrix
}

// IsSymmetric returns true for the symmetric matrix layout.
func (t Tensor) IsSymmetric() bool {
	return t.shape == SymmetricMatrix
}

// IsTriangular returns true for the triangular matrix layouts.
func (t Tensor) IsTriangular() bool {
	return t.shape == UpperTriangularMatrix || t.shape == LowerTriangularMatrix
}

// IsSquare returns true when the logical matrix is square.
func (t Tensor) IsSquare() bool {
	return t.Rows() == t.Columns()
}

// Index maps the logical position (row, col) to the physical sample offset
// within the pixel. Symmetric layouts map (r,c) and (c,r) to the same slot.
// Positions that hold an implicit zero (off-diagonal of a diagonal matrix,
// the empty triangle of a triangular matrix) are not stored and return an
// error: no view of them can exist. Use LookUpTable for value access that
// treats them as zero.
func (t Tensor) Index(row, col int) (int, error) {
	rows, cols := t.Rows(), t.Columns()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return 0, fmt.Errorf("%w: tensor index (%d,%d) outside %dx%d", ErrDomain, row, col, rows, cols)
	}
	switch t.shape {
	case ColVector, ColMajorMatrix:
		return col*rows + row, nil
	case RowVector, RowMajorMatrix:
		return row*cols + col, nil
	case DiagonalMatrix:
		if row != col {
			return 0, fmt.Errorf("%w: (%d,%d) is not stored by a diagonal matrix", ErrDomain, row, col)
		}
		return row, nil
	case SymmetricMatrix:
		if row == col {
			return row, nil
		}
		if row > col {
			row, col = col, row
		}
		return rows + col*(col-1)/2 + row, nil
	case UpperTriangularMatrix:
		if row == col {
			return row, nil
		}
		if row > col {
			return 0, fmt.Errorf("%w: (%d,%d) is not stored by an upper triangular matrix", ErrDomain, row, col)
		}
		return rows + col*(col-1)/2 + row, nil
	case LowerTriangularMatrix:
		if row == col {
			return row, nil
		}
		if row < col {
			return 0, fmt.Errorf("%w: (%d,%d) is not stored by a lower triangular matrix", ErrDomain, row, col)
		}
		return rows + row*(row-1)/2 + col, nil
	default:
		panic("unknown tensor shape")
	}
}

// LookUpTable returns the physical sample offset for every logical matrix
// position, in column-major logical order (index = col*Rows() + row).
// Positions holding an implicit zero carry -1; readers return 0 for them
// without touching memory.
func (t Tensor) LookUpTable() []int {
	rows, cols := t.Rows(), t.Columns()
	lut := make([]int, rows*cols)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			idx, err := t.Index(r, c)
			if err != nil {
				idx = -1
			}
			lut[c*rows+r] = idx
		}
	}
	return lut
}

// Transpose returns the transposed layout. Storage is never rearranged:
// vectors flip orientation, full matrices switch their major order, the
// triangular layouts exchange, diagonal and symmetric stay themselves.
func (t Tensor) Transpose() Tensor {
	out := t
	switch t.shape {
	case ColVector:
		out.shape = RowVector
		out.rows = 1
	case RowVector:
		out.shape = ColVector
		out.rows = t.elements
	case ColMajorMatrix:
		out.shape = RowMajorMatrix
		out.rows = t.Columns()
	case RowMajorMatrix:
		out.shape = ColMajorMatrix
		out.rows = t.Columns()
	case UpperTriangularMatrix:
		out.shape = LowerTriangularMatrix
	case LowerTriangularMatrix:
		out.shape = UpperTriangularMatrix
	}
	return out
}

// String returns a human-readable description.
func (t Tensor) String() string {
	switch {
	case t.IsScalar():
		return "scalar"
	case t.IsVector():
		return fmt.Sprintf("%s (%d)", t.shape, t.elements)
	default:
		return fmt.Sprintf("%s (%dx%d)", t.shape, t.Rows(), t.Columns())
	}
}
