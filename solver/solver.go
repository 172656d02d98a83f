package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Factorized is a factorized 1D axis system M
type Factorized interface {
	Dofs() int
	SolveVecTo(dst *mat.VecDense, b mat.Vector) error
}

// Solve overwrites rhs with the solution U of (Mx ⊗ My) vec(U) = vec(rhs),
// that is Mx U Myᵀ = rhs. The x system is solved for every column of rhs
// into buf, then the y system for every row of buf back into rhs, so the
// cost is that of nx+ny banded 1D solves rather than one 2D solve.
//
// buf must have the shape of rhs and must not be shared with a concurrent
// Solve.
func Solve(rhs, buf *mat.Dense, x, y Factorized) error {
	var (
		nx, ny   = rhs.Dims()
		bnx, bny = buf.Dims()
	)
	if nx != x.Dofs() || ny != y.Dofs() {
		panic(fmt.Sprintf("solver: rhs is %d×%d, axes have %d×%d dofs",
			nx, ny, x.Dofs(), y.Dofs()))
	}
	if bnx != nx || bny != ny {
		panic(fmt.Sprintf("solver: buffer is %d×%d, rhs is %d×%d", bnx, bny, nx, ny))
	}

	for j := 0; j < ny; j++ {
		dst := buf.ColView(j).(*mat.VecDense)
		if err := x.SolveVecTo(dst, rhs.ColView(j)); err != nil {
			return fmt.Errorf("solver: x axis, column %d: %w", j, err)
		}
	}
	for i := 0; i < nx; i++ {
		dst := rhs.RowView(i).(*mat.VecDense)
		if err := y.SolveVecTo(dst, buf.RowView(i)); err != nil {
			return fmt.Errorf("solver: y axis, row %d: %w", i, err)
		}
	}
	return nil
}
