package solver

import (
	"errors"
	"testing"

	"github.com/notargets/TPKernel/bspline"
	"github.com/notargets/TPKernel/dimension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newAxis(t *testing.T, cfg bspline.Config) *dimension.Dimension {
	t.Helper()
	d, err := dimension.New(cfg)
	require.NoError(t, err)
	require.NoError(t, d.FactorizeMatrix())
	return d
}

func TestSolveMatchesKroneckerSystem(t *testing.T) {
	var (
		x      = newAxis(t, bspline.Config{P: 2, Elements: 4, A: 0, B: 1})
		y      = newAxis(t, bspline.Config{P: 3, Elements: 3, A: -1, B: 1})
		nx, ny = x.Dofs(), y.Dofs()
	)
	rhs := mat.NewDense(nx, ny, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			rhs.Set(i, j, float64(1+i)-0.5*float64(j*j))
		}
	}
	// Row-major vec(U) pairs with Mx ⊗ My
	var K mat.Dense
	K.Kronecker(x.Matrix(), y.Matrix())
	b := mat.NewVecDense(nx*ny, nil)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			b.SetVec(i*ny+j, rhs.At(i, j))
		}
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(&K, b))

	buf := mat.NewDense(nx, ny, nil)
	require.NoError(t, Solve(rhs, buf, x, y))
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			assert.InDelta(t, want.AtVec(i*ny+j), rhs.At(i, j), 1.e-8)
		}
	}
}

func TestSolveShapeMismatch(t *testing.T) {
	var (
		x = newAxis(t, bspline.Config{P: 1, Elements: 2, A: 0, B: 1})
		y = newAxis(t, bspline.Config{P: 1, Elements: 3, A: 0, B: 1})
	)
	assert.Panics(t, func() {
		_ = Solve(mat.NewDense(4, 4, nil), mat.NewDense(4, 4, nil), x, y)
	})
	assert.Panics(t, func() {
		_ = Solve(mat.NewDense(3, 4, nil), mat.NewDense(4, 3, nil), x, y)
	})
}

type failingAxis struct{ n int }

var errBroken = errors.New("broken")

func (f failingAxis) Dofs() int { return f.n }

func (f failingAxis) SolveVecTo(*mat.VecDense, mat.Vector) error { return errBroken }

func TestSolvePropagatesErrors(t *testing.T) {
	y := newAxis(t, bspline.Config{P: 1, Elements: 1, A: 0, B: 1})
	err := Solve(mat.NewDense(3, 2, nil), mat.NewDense(3, 2, nil), failingAxis{3}, y)
	assert.ErrorIs(t, err, errBroken)
}
