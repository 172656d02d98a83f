package bspline

import (
	"fmt"
	"slices"

	"github.com/notargets/TPKernel/index"
	"gonum.org/v1/gonum/integrate/quad"
)

// Basis is the tabulated 1D discretization of one axis: element partition,
// quadrature rule and basis values/derivatives at every quadrature point.
// It is immutable once constructed; the tables are reachable only through
// the accessor methods.
type Basis struct {
	P         int // Polynomial degree, DofsPerElement()-1
	QuadOrder int // Quadrature points per element
	Ders      int // Highest tabulated derivative

	knots []float64 // nil for a tabulated basis
	dofs  int
	first []int // [element] first global DOF touched by the element

	// Per element Jacobian d(x)/d(r) of the map from the reference
	// interval [-1,1] onto the element
	j []float64
	// Reference quadrature weights on [-1,1], identical on every element
	w []float64
	// Physical quadrature points, [element*QuadOrder + q]
	x []float64
	// Basis values, flattened b[element][q][derivative][local dof]
	b []float64
}

// NewBasis builds the uniform clamped B-spline basis described by cfg
func NewBasis(cfg Config) (*Basis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()
	return NewBasisFromKnots(UniformKnots(cfg.P, cfg.Elements, cfg.A, cfg.B),
		cfg.P, cfg.QuadOrder, cfg.Ders)
}

// NewBasisFromKnots builds a B-spline basis of degree p over an arbitrary
// open knot vector. Every non-empty knot span becomes one element.
func NewBasisFromKnots(knots []float64, p, quadOrder, ders int) (*Basis, error) {
	if p < 0 || quadOrder < 1 || ders < 0 {
		return nil, fmt.Errorf("%w: p=%d quadOrder=%d ders=%d",
			ErrInvalidConfig, p, quadOrder, ders)
	}
	if len(knots) < 2*(p+1) {
		return nil, fmt.Errorf("%w: %d knots cannot carry degree %d",
			ErrInvalidConfig, len(knots), p)
	}
	if !slices.IsSorted(knots) {
		return nil, fmt.Errorf("%w: knot vector is not non-decreasing", ErrInvalidConfig)
	}
	var spans []int
	for i := p; i < len(knots)-p-1; i++ {
		if knots[i] < knots[i+1] {
			spans = append(spans, i)
		}
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("%w: knot vector has no non-empty span", ErrInvalidConfig)
	}

	var (
		ne  = len(spans)
		nd  = p + 1
		bas = &Basis{
			P:         p,
			QuadOrder: quadOrder,
			Ders:      ders,
			knots:     slices.Clone(knots),
			dofs:      len(knots) - p - 1,
			first:     make([]int, ne),
			j:         make([]float64, ne),
			w:         make([]float64, quadOrder),
			x:         make([]float64, ne*quadOrder),
			b:         make([]float64, ne*quadOrder*(ders+1)*nd),
		}
		r       = make([]float64, quadOrder)
		derBufs = make([][]float64, ders+1)
	)
	quad.Legendre{}.FixedLocations(r, bas.w, -1, 1)
	for d := range derBufs {
		derBufs[d] = make([]float64, nd)
	}

	for e, span := range spans {
		u0, u1 := knots[span], knots[span+1]
		bas.first[e] = span - p
		bas.j[e] = (u1 - u0) / 2
		for q, rq := range r {
			u := ((u1-u0)*rq + (u1 + u0)) / 2
			bas.x[e*quadOrder+q] = u
			EvalBasisDers(knots, p, span, u, derBufs)
			for d := 0; d <= ders; d++ {
				copy(bas.b[bas.offset(e, q, d, 0):], derBufs[d])
			}
		}
	}
	return bas, nil
}

// Tabulation is a raw per-axis discretization supplied by the caller, for
// bases that are not B-splines or for hand-built test fixtures.
type Tabulation struct {
	Dofs           int
	DofsPerElement int
	FirstDofs      []int           // [element]
	J              []float64       // [element]
	W              []float64       // [q]
	X              [][]float64     // [element][q]
	B              [][][][]float64 // [element][q][derivative][local dof]
}

// NewTabulated copies t into a Basis after checking that all tables agree
// in shape, that every element's DOFs lie inside [0, Dofs) and that FirstDofs
// strictly increases, as it does for any B-spline basis. Element colouring
// relies on the last property.
func NewTabulated(t Tabulation) (*Basis, error) {
	ne, nq := len(t.FirstDofs), len(t.W)
	if ne == 0 || nq == 0 || t.DofsPerElement < 1 {
		return nil, fmt.Errorf("%w: empty tabulation", ErrInvalidConfig)
	}
	if len(t.J) != ne || len(t.X) != ne || len(t.B) != ne {
		return nil, fmt.Errorf("%w: per element tables disagree on %d elements",
			ErrInvalidConfig, ne)
	}
	ders := -1
	for e, fd := range t.FirstDofs {
		if fd < 0 || fd+t.DofsPerElement > t.Dofs {
			return nil, fmt.Errorf("%w: element %d DOFs [%d,%d) outside [0,%d)",
				ErrInvalidConfig, e, fd, fd+t.DofsPerElement, t.Dofs)
		}
		if e > 0 && fd <= t.FirstDofs[e-1] {
			return nil, fmt.Errorf("%w: element %d first DOF %d does not follow %d",
				ErrInvalidConfig, e, fd, t.FirstDofs[e-1])
		}
		if len(t.X[e]) != nq || len(t.B[e]) != nq {
			return nil, fmt.Errorf("%w: element %d has wrong quadrature table length",
				ErrInvalidConfig, e)
		}
		for q := range t.B[e] {
			if ders < 0 {
				ders = len(t.B[e][q]) - 1
			}
			if len(t.B[e][q]) != ders+1 || ders < 0 {
				return nil, fmt.Errorf("%w: element %d point %d has %d derivative rows",
					ErrInvalidConfig, e, q, len(t.B[e][q]))
			}
			for d := range t.B[e][q] {
				if len(t.B[e][q][d]) != t.DofsPerElement {
					return nil, fmt.Errorf("%w: element %d point %d derivative %d has %d values",
						ErrInvalidConfig, e, q, d, len(t.B[e][q][d]))
				}
			}
		}
	}

	bas := &Basis{
		P:         t.DofsPerElement - 1,
		QuadOrder: nq,
		Ders:      ders,
		dofs:      t.Dofs,
		first:     slices.Clone(t.FirstDofs),
		j:         slices.Clone(t.J),
		w:         slices.Clone(t.W),
		x:         make([]float64, 0, ne*nq),
		b:         make([]float64, 0, ne*nq*(ders+1)*t.DofsPerElement),
	}
	for e := 0; e < ne; e++ {
		bas.x = append(bas.x, t.X[e]...)
		for q := 0; q < nq; q++ {
			for d := 0; d <= ders; d++ {
				bas.b = append(bas.b, t.B[e][q][d]...)
			}
		}
	}
	return bas, nil
}

func (bas *Basis) offset(e, q, d, a int) int {
	return ((e*bas.QuadOrder+q)*(bas.Ders+1)+d)*(bas.P+1) + a
}

// B returns derivative d of local basis function a of element e at
// quadrature point q. Indices out of range are a caller error and panic.
func (bas *Basis) B(e, q, d, a int) float64 {
	if q < 0 || q >= bas.QuadOrder || d < 0 || d > bas.Ders || a < 0 || a > bas.P {
		panic(fmt.Sprintf("basis lookup (e=%d,q=%d,d=%d,a=%d) outside [%d,%d,%d,%d)",
			e, q, d, a, len(bas.first), bas.QuadOrder, bas.Ders+1, bas.P+1))
	}
	return bas.b[bas.offset(e, q, d, a)]
}

// Dofs returns the number of global basis functions
func (bas *Basis) Dofs() int { return bas.dofs }

// DofsPerElement returns the number of basis functions supported on one element
func (bas *Basis) DofsPerElement() int { return bas.P + 1 }

// Elements returns the number of elements
func (bas *Basis) Elements() int { return len(bas.first) }

// ElementRange returns [0, Elements())
func (bas *Basis) ElementRange() index.Range { return index.NewRange(0, len(bas.first)) }

// QuadRange returns [0, QuadOrder)
func (bas *Basis) QuadRange() index.Range { return index.NewRange(0, bas.QuadOrder) }

// FirstDof is the lowest global DOF supported on element e
func (bas *Basis) FirstDof(e int) int { return bas.first[e] }

// DofRange is the set of global DOFs supported on element e
func (bas *Basis) DofRange(e int) index.Range {
	return index.NewRange(bas.first[e], bas.first[e]+bas.P+1)
}

// Jacobian returns d(x)/d(r) on element e
func (bas *Basis) Jacobian(e int) float64 { return bas.j[e] }

// Weight returns the reference weight of quadrature point q
func (bas *Basis) Weight(q int) float64 { return bas.w[q] }

// Point returns the physical coordinate of quadrature point q in element e
func (bas *Basis) Point(e, q int) float64 {
	if q < 0 || q >= bas.QuadOrder {
		panic(fmt.Sprintf("quadrature point %d outside [0,%d)", q, bas.QuadOrder))
	}
	return bas.x[e*bas.QuadOrder+q]
}

// Knots returns a copy of the knot vector, nil for a tabulated basis
func (bas *Basis) Knots() []float64 { return slices.Clone(bas.knots) }

// Eval evaluates the non-zero basis functions and their derivatives up to
// order ders at an arbitrary u. vals[k][j] belongs to global DOF first+j.
// Only B-spline bases built from knots can be evaluated off the quadrature
// points.
func (bas *Basis) Eval(u float64, ders int) (first int, vals [][]float64) {
	if bas.knots == nil {
		panic("Eval requires a knot based basis")
	}
	span := FindSpan(bas.knots, bas.P, u)
	vals = make([][]float64, ders+1)
	for k := range vals {
		vals[k] = make([]float64, bas.P+1)
	}
	EvalBasisDers(bas.knots, bas.P, span, u, vals)
	return span - bas.P, vals
}
