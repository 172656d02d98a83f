package projection

import (
	"fmt"

	"github.com/notargets/TPKernel/bspline"
	"github.com/notargets/TPKernel/dimension"
	"github.com/notargets/TPKernel/element"
	"github.com/notargets/TPKernel/index"
	"github.com/notargets/TPKernel/solver"
	"gonum.org/v1/gonum/mat"
)

// Load overwrites v with the L2 load vector v[a] = ∫ f B_a over the tensor
// product domain of bx and by.
func Load(v *mat.Dense, bx, by *bspline.Basis, f func(element.Point) float64) {
	checkShape(v, bx, by)
	v.Zero()
	visitQuadrature(bx, by, func(p element.Point, wJ float64, e index.Index, q index.Index) {
		fv := f(p) * wJ
		scatter(v, bx, by, e, q, fv)
	})
}

// Project overwrites v with the coefficients of the L2 projection of f onto
// span{B_a}: the load vector solved against the Gram matrices of both axes.
func Project(v *mat.Dense, bx, by *bspline.Basis, f func(element.Point) float64) error {
	Load(v, bx, by, f)
	return solveGram(bx, by, v)
}

// ProjectVec projects a vector valued f component-wise, one buffer per
// component. f must return len(vs) values at every point.
func ProjectVec(vs []*mat.Dense, bx, by *bspline.Basis, f func(element.Point) []float64) error {
	for _, v := range vs {
		checkShape(v, bx, by)
		v.Zero()
	}
	visitQuadrature(bx, by, func(p element.Point, wJ float64, e index.Index, q index.Index) {
		fv := f(p)
		if len(fv) != len(vs) {
			panic(fmt.Sprintf("projection: field has %d components, %d buffers", len(fv), len(vs)))
		}
		for c, v := range vs {
			scatter(v, bx, by, e, q, fv[c]*wJ)
		}
	})
	return solveGram(bx, by, vs...)
}

func checkShape(v *mat.Dense, bx, by *bspline.Basis) {
	if r, c := v.Dims(); r != bx.Dofs() || c != by.Dofs() {
		panic(fmt.Sprintf("projection: buffer is %d×%d, bases have %d×%d dofs",
			r, c, bx.Dofs(), by.Dofs()))
	}
}

func visitQuadrature(bx, by *bspline.Basis,
	fn func(p element.Point, wJ float64, e index.Index, q index.Index)) {
	for e := range index.ProductRange(bx.ElementRange(), by.ElementRange()) {
		J := bx.Jacobian(e.X) * by.Jacobian(e.Y)
		for q := range index.ProductRange(bx.QuadRange(), by.QuadRange()) {
			p := element.Point{X: bx.Point(e.X, q.X), Y: by.Point(e.Y, q.Y)}
			fn(p, bx.Weight(q.X)*by.Weight(q.Y)*J, e, q)
		}
	}
}

func scatter(v *mat.Dense, bx, by *bspline.Basis, e, q index.Index, c float64) {
	fx, fy := bx.FirstDof(e.X), by.FirstDof(e.Y)
	for a := range index.ProductRange(bx.DofRange(e.X), by.DofRange(e.Y)) {
		B := bx.B(e.X, q.X, 0, a.X-fx) * by.B(e.Y, q.Y, 0, a.Y-fy)
		v.Set(a.X, a.Y, v.At(a.X, a.Y)+c*B)
	}
}

func solveGram(bx, by *bspline.Basis, vs ...*mat.Dense) error {
	mx, my := dimension.NewFromBasis(bx), dimension.NewFromBasis(by)
	if err := mx.FactorizeMatrix(); err != nil {
		return fmt.Errorf("projection: x axis: %w", err)
	}
	if err := my.FactorizeMatrix(); err != nil {
		return fmt.Errorf("projection: y axis: %w", err)
	}
	buf := mat.NewDense(bx.Dofs(), by.Dofs(), nil)
	for _, v := range vs {
		if err := solver.Solve(v, buf, mx, my); err != nil {
			return err
		}
	}
	return nil
}
