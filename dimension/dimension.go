package dimension

import (
	"errors"
	"fmt"
	"slices"

	"github.com/notargets/TPKernel/bspline"
	"gonum.org/v1/gonum/mat"
)

var ErrNotPositiveDefinite = errors.New("axis matrix is not positive definite")

// Dimension is one coordinate direction of a tensor-product discretization:
// the tabulated basis plus its Gram matrix, stored in symmetric band form
// with bandwidth P, and the Cholesky factorization used by directional
// solves.
type Dimension struct {
	*bspline.Basis

	matrix     *mat.SymBandDense
	chol       mat.BandCholesky
	factorized bool
	fixed      []int
}

// New builds the basis described by cfg and its Gram matrix
func New(cfg bspline.Config) (*Dimension, error) {
	bas, err := bspline.NewBasis(cfg)
	if err != nil {
		return nil, err
	}
	return NewFromBasis(bas), nil
}

// NewFromBasis assembles the Gram matrix of bas. The result still has to be
// factorized before it can solve.
func NewFromBasis(bas *bspline.Basis) *Dimension {
	return &Dimension{
		Basis:  bas,
		matrix: GramMatrix(bas),
	}
}

// GramMatrix returns M[i][j] = ∫ B_i B_j dx evaluated with the quadrature of
// bas. Only pairs of functions sharing an element are non-zero, so the
// matrix is banded with bandwidth P.
func GramMatrix(bas *bspline.Basis) *mat.SymBandDense {
	var (
		nd = bas.DofsPerElement()
		m  = mat.NewSymBandDense(bas.Dofs(), bas.P, nil)
	)
	for e := range bas.ElementRange().All() {
		first := bas.FirstDof(e)
		for q := range bas.QuadRange().All() {
			wJ := bas.Weight(q) * bas.Jacobian(e)
			for a := 0; a < nd; a++ {
				Ba := bas.B(e, q, 0, a)
				for c := a; c < nd; c++ {
					i, j := first+a, first+c
					m.SetSymBand(i, j, m.At(i, j)+Ba*bas.B(e, q, 0, c)*wJ)
				}
			}
		}
	}
	return m
}

// Matrix exposes the (possibly fixed) axis matrix
func (d *Dimension) Matrix() mat.SymBanded { return d.matrix }

// FixLeft imposes a Dirichlet condition on the first DOF: its row and column
// become those of the identity. The matrix must be factorized again.
func (d *Dimension) FixLeft() { d.fix(0) }

// FixRight is FixLeft for the last DOF
func (d *Dimension) FixRight() { d.fix(d.Dofs() - 1) }

func (d *Dimension) fix(dof int) {
	n := d.Dofs()
	for j := max(0, dof-d.P); j <= min(n-1, dof+d.P); j++ {
		d.matrix.SetSymBand(dof, j, 0)
	}
	d.matrix.SetSymBand(dof, dof, 1)
	if !slices.Contains(d.fixed, dof) {
		d.fixed = append(d.fixed, dof)
		slices.Sort(d.fixed)
	}
	d.factorized = false
}

// FixedDofs lists the DOFs carrying a Dirichlet condition
func (d *Dimension) FixedDofs() []int { return slices.Clone(d.fixed) }

// FactorizeMatrix computes the Cholesky factorization of the axis matrix.
// It has to be called again whenever the matrix changes.
func (d *Dimension) FactorizeMatrix() error {
	if ok := d.chol.Factorize(d.matrix); !ok {
		d.factorized = false
		return fmt.Errorf("%w: %d dofs, bandwidth %d", ErrNotPositiveDefinite, d.Dofs(), d.P)
	}
	d.factorized = true
	return nil
}

// Factorized reports whether the current matrix has been factorized
func (d *Dimension) Factorized() bool { return d.factorized }

// SolveVecTo solves M dst = b with the factorized axis matrix. Calling it
// before FactorizeMatrix is a programming error.
func (d *Dimension) SolveVecTo(dst *mat.VecDense, b mat.Vector) error {
	if !d.factorized {
		panic("dimension: solve before FactorizeMatrix")
	}
	return d.chol.SolveVecTo(dst, b)
}
