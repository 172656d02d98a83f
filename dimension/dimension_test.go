package dimension

import (
	"fmt"
	"testing"

	"github.com/notargets/TPKernel/bspline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGramMatrixLinearSingleElement(t *testing.T) {
	d, err := New(bspline.Config{P: 1, Elements: 1, A: 0, B: 1})
	require.NoError(t, err)
	m := d.Matrix()
	assert.InDelta(t, 1./3, m.At(0, 0), 1.e-14)
	assert.InDelta(t, 1./6, m.At(0, 1), 1.e-14)
	assert.InDelta(t, 1./6, m.At(1, 0), 1.e-14)
	assert.InDelta(t, 1./3, m.At(1, 1), 1.e-14)
}

func TestGramMatrixRowSums(t *testing.T) {
	for p := 0; p <= 4; p++ {
		t.Run(fmt.Sprintf("P=%d", p), func(t *testing.T) {
			d, err := New(bspline.Config{P: p, Elements: 6, A: -1, B: 2})
			require.NoError(t, err)
			var (
				knots = d.Knots()
				n     = d.Dofs()
				m     = d.Matrix()
				total float64
			)
			for i := 0; i < n; i++ {
				var row float64
				for j := 0; j < n; j++ {
					row += m.At(i, j)
				}
				// ∫ B_i = (t_{i+p+1} - t_i) / (p+1)
				assert.InDelta(t, (knots[i+p+1]-knots[i])/float64(p+1), row, 1.e-12)
				total += row
			}
			assert.InDelta(t, 3., total, 1.e-12)
			_, bw := m.SymBand()
			assert.Equal(t, p, bw)
		})
	}
}

func TestFactorizeAndSolve(t *testing.T) {
	d, err := New(bspline.Config{P: 3, Elements: 8, A: 0, B: 1})
	require.NoError(t, err)
	n := d.Dofs()

	assert.False(t, d.Factorized())
	assert.Panics(t, func() {
		_ = d.SolveVecTo(mat.NewVecDense(n, nil), mat.NewVecDense(n, nil))
	})
	require.NoError(t, d.FactorizeMatrix())
	assert.True(t, d.Factorized())

	want := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		want.SetVec(i, float64(i*i)-3)
	}
	b := mat.NewVecDense(n, nil)
	b.MulVec(d.Matrix(), want)
	got := mat.NewVecDense(n, nil)
	require.NoError(t, d.SolveVecTo(got, b))
	assert.InDeltaSlice(t, want.RawVector().Data, got.RawVector().Data, 1.e-9)
}

func TestFixBoundaries(t *testing.T) {
	d, err := New(bspline.Config{P: 2, Elements: 4, A: 0, B: 1})
	require.NoError(t, err)
	require.NoError(t, d.FactorizeMatrix())
	n := d.Dofs()

	d.FixLeft()
	d.FixRight()
	d.FixRight()
	assert.False(t, d.Factorized())
	assert.Equal(t, []int{0, n - 1}, d.FixedDofs())

	m := d.Matrix()
	for j := 0; j < n; j++ {
		want := 0.
		if j == 0 {
			want = 1
		}
		assert.Equal(t, want, m.At(0, j))
		assert.Equal(t, want, m.At(j, 0))
	}
	assert.Equal(t, 1., m.At(n-1, n-1))
	assert.Equal(t, 0., m.At(n-1, n-2))

	require.NoError(t, d.FactorizeMatrix())
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		b.SetVec(i, 1)
	}
	b.SetVec(0, 0)
	b.SetVec(n-1, 0)
	x := mat.NewVecDense(n, nil)
	require.NoError(t, d.SolveVecTo(x, b))
	assert.InDelta(t, 0., x.AtVec(0), 1.e-14)
	assert.InDelta(t, 0., x.AtVec(n-1), 1.e-14)
}

func TestSingularMatrix(t *testing.T) {
	bas, err := bspline.NewTabulated(bspline.Tabulation{
		Dofs:           2,
		DofsPerElement: 2,
		FirstDofs:      []int{0},
		J:              []float64{1},
		W:              []float64{1},
		X:              [][]float64{{0}},
		B:              [][][][]float64{{{{0, 0}, {0, 0}}}},
	})
	require.NoError(t, err)
	d := NewFromBasis(bas)
	assert.ErrorIs(t, d.FactorizeMatrix(), ErrNotPositiveDefinite)
	assert.False(t, d.Factorized())
}
