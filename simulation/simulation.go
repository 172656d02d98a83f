package simulation

import (
	"fmt"
	"iter"

	"github.com/notargets/TPKernel/dimension"
	"github.com/notargets/TPKernel/element"
	"github.com/notargets/TPKernel/index"
	"github.com/notargets/TPKernel/projection"
	"github.com/notargets/TPKernel/solver"
	"gonum.org/v1/gonum/mat"
)

// Simulation2D is the assembly and evaluation kernel of a 2D tensor-product
// discretization. PDE solvers hold one and drive it: they walk Elements(),
// QuadPoints() and DofsOnElement(), evaluate basis functions with EvalBasis
// and known fields with EvalFun, scatter local contributions with
// UpdateGlobalRHS and finally call Solve.
//
// Global buffers are *mat.Dense with rows indexed by x DOFs and columns by
// y DOFs. A Simulation2D is not safe for concurrent Solve calls.
type Simulation2D struct {
	x, y   *dimension.Dimension
	buffer *mat.Dense
	Steps  TimestepsConfig
}

// NewSimulation2D validates cfg and builds both axes with their Gram matrices
func NewSimulation2D(cfg Config2D) (*Simulation2D, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	x, err := dimension.New(cfg.X)
	if err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}
	y, err := dimension.New(cfg.Y)
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}
	s := NewFromDimensions(x, y)
	s.Steps = cfg.Steps
	Logger().Info("simulation created",
		"dofs", s.x.Dofs()*s.y.Dofs(),
		"elements", s.x.Elements()*s.y.Elements(),
		"px", cfg.X.P, "py", cfg.Y.P)
	return s, nil
}

// NewFromDimensions builds a simulation over two existing axes
func NewFromDimensions(x, y *dimension.Dimension) *Simulation2D {
	return &Simulation2D{
		x:      x,
		y:      y,
		buffer: mat.NewDense(x.Dofs(), y.Dofs(), nil),
	}
}

// X returns the x axis
func (s *Simulation2D) X() *dimension.Dimension { return s.x }

// Y returns the y axis
func (s *Simulation2D) Y() *dimension.Dimension { return s.y }

// Shape is the number of global DOFs per axis
func (s *Simulation2D) Shape() (nx, ny int) {
	return s.x.Dofs(), s.y.Dofs()
}

// LocalShape is the number of DOFs per element per axis
func (s *Simulation2D) LocalShape() (nx, ny int) {
	return s.x.DofsPerElement(), s.y.DofsPerElement()
}

// PrepareMatrices factorizes both axis matrices. It must run before the
// first Solve and again after an axis matrix changes.
func (s *Simulation2D) PrepareMatrices() error {
	if err := s.x.FactorizeMatrix(); err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	if err := s.y.FactorizeMatrix(); err != nil {
		return fmt.Errorf("y axis: %w", err)
	}
	Logger().Debug("axis matrices factorized", "nx", s.x.Dofs(), "ny", s.y.Dofs())
	return nil
}

// Solve overwrites rhs with the solution of the Kronecker system of the two
// factorized axis matrices.
func (s *Simulation2D) Solve(rhs *mat.Dense) error {
	if !s.x.Factorized() || !s.y.Factorized() {
		panic("simulation: Solve before PrepareMatrices")
	}
	Logger().Debug("directional solve")
	return solver.Solve(rhs, s.buffer, s.x, s.y)
}

// Projection overwrites v with the L2 projection of f
func (s *Simulation2D) Projection(v *mat.Dense, f func(element.Point) float64) error {
	return projection.Project(v, s.x.Basis, s.y.Basis, f)
}

// ProjectionVec projects every component of a vector field into its buffer
func (s *Simulation2D) ProjectionVec(vs []*mat.Dense, f func(element.Point) []float64) error {
	return projection.ProjectVec(vs, s.x.Basis, s.y.Basis, f)
}

// Elements yields every element of the tensor-product mesh, x outer
func (s *Simulation2D) Elements() iter.Seq[index.Index] {
	return index.ProductRange(s.x.ElementRange(), s.y.ElementRange())
}

// QuadPoints yields the quadrature points of one element, x outer
func (s *Simulation2D) QuadPoints() iter.Seq[index.Index] {
	return index.ProductRange(s.x.QuadRange(), s.y.QuadRange())
}

// DofsOnElement yields the global DOFs whose support contains element e
func (s *Simulation2D) DofsOnElement(e index.Index) iter.Seq[index.Index] {
	return index.ProductRange(s.x.DofRange(e.X), s.y.DofRange(e.Y))
}

// Jacobian returns the area scaling of element e
func (s *Simulation2D) Jacobian(e index.Index) float64 {
	return s.x.Jacobian(e.X) * s.y.Jacobian(e.Y)
}

// Weight returns the reference quadrature weight of point q
func (s *Simulation2D) Weight(q index.Index) float64 {
	return s.x.Weight(q.X) * s.y.Weight(q.Y)
}

// Point returns the physical location of quadrature point q in element e
func (s *Simulation2D) Point(e, q index.Index) element.Point {
	return element.Point{X: s.x.Point(e.X, q.X), Y: s.y.Point(e.Y, q.Y)}
}

// GradDot returns the dot product of the gradients of a and b
func (s *Simulation2D) GradDot(a, b element.Value) float64 {
	return element.GradDot(a, b)
}

// EvalBasis evaluates the tensor-product basis function of global DOF a and
// its gradient at quadrature point q of element e. a must be supported on e.
func (s *Simulation2D) EvalBasis(e, q, a index.Index) element.Value {
	loc := s.DofGlobalToLocal(e, a)

	B1 := s.x.B(e.X, q.X, 0, loc.X)
	B2 := s.y.B(e.Y, q.Y, 0, loc.Y)
	dB1 := s.x.B(e.X, q.X, 1, loc.X)
	dB2 := s.y.B(e.Y, q.Y, 1, loc.Y)

	return element.Value{
		V:  B1 * B2,
		DX: dB1 * B2,
		DY: B1 * dB2,
	}
}

// EvalFun evaluates the finite element function with coefficients v at
// quadrature point q of element e. v must have Shape().
func (s *Simulation2D) EvalFun(v *mat.Dense, e, q index.Index) (u element.Value) {
	s.checkGlobal(v)
	for b := range s.DofsOnElement(e) {
		u = u.AddScaled(v.At(b.X, b.Y), s.EvalBasis(e, q, b))
	}
	return
}

// DofGlobalToLocal converts a global DOF supported on e to its position in
// the element's local buffer
func (s *Simulation2D) DofGlobalToLocal(e, a index.Index) index.Index {
	return a.Sub(s.firstDof(e))
}

// DofLocalToGlobal is the inverse of DofGlobalToLocal
func (s *Simulation2D) DofLocalToGlobal(e, loc index.Index) index.Index {
	return s.firstDof(e).Add(loc)
}

func (s *Simulation2D) firstDof(e index.Index) index.Index {
	return index.Index{X: s.x.FirstDof(e.X), Y: s.y.FirstDof(e.Y)}
}

// ElementRHS allocates a zeroed local buffer of LocalShape()
func (s *Simulation2D) ElementRHS() *mat.Dense {
	return mat.NewDense(s.x.DofsPerElement(), s.y.DofsPerElement(), nil)
}

// UpdateGlobalRHS adds the local contribution of element e into global.
// Elements sharing a DOF accumulate.
func (s *Simulation2D) UpdateGlobalRHS(global, local *mat.Dense, e index.Index) {
	s.checkShapes(global, local)
	for a := range s.DofsOnElement(e) {
		loc := s.DofGlobalToLocal(e, a)
		global.Set(a.X, a.Y, global.At(a.X, a.Y)+local.At(loc.X, loc.Y))
	}
}

// ZeroBoundary zeroes the entries of rhs on DOFs fixed by Dirichlet
// conditions on either axis
func (s *Simulation2D) ZeroBoundary(rhs *mat.Dense) {
	s.checkGlobal(rhs)
	nx, ny := s.Shape()
	for _, i := range s.x.FixedDofs() {
		for j := 0; j < ny; j++ {
			rhs.Set(i, j, 0)
		}
	}
	for _, j := range s.y.FixedDofs() {
		for i := 0; i < nx; i++ {
			rhs.Set(i, j, 0)
		}
	}
}

func (s *Simulation2D) checkGlobal(v *mat.Dense) {
	nx, ny := s.Shape()
	if r, c := v.Dims(); r != nx || c != ny {
		panic(fmt.Sprintf("simulation: global buffer is %d×%d, shape is %d×%d", r, c, nx, ny))
	}
}

func (s *Simulation2D) checkShapes(global, local *mat.Dense) {
	s.checkGlobal(global)
	lx, ly := s.LocalShape()
	if r, c := local.Dims(); r != lx || c != ly {
		panic(fmt.Sprintf("simulation: local buffer is %d×%d, local shape is %d×%d", r, c, lx, ly))
	}
}
