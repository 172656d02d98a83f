package element

// Point is a location in the 2D physical domain. For a tensor-product mesh
// each coordinate comes from its own axis.
type Point struct {
	X, Y float64
}

// Value is a scalar function value together with its first partial
// derivatives. Values form a linear space: sums and scalings act on all three
// components at once, so basis evaluations combine into function evaluations.
type Value struct {
	V      float64 // Function value
	DX, DY float64 // ∂/∂x, ∂/∂y
}

// Add returns a + b
func (a Value) Add(b Value) Value {
	return Value{V: a.V + b.V, DX: a.DX + b.DX, DY: a.DY + b.DY}
}

// Scale returns c*a
func (a Value) Scale(c float64) Value {
	return Value{V: c * a.V, DX: c * a.DX, DY: c * a.DY}
}

// AddScaled returns a + c*b
func (a Value) AddScaled(c float64, b Value) Value {
	return Value{V: a.V + c*b.V, DX: a.DX + c*b.DX, DY: a.DY + c*b.DY}
}

// GradDot is the Euclidean dot product of the gradients of a and b,
// the integrand of a Laplace stiffness term.
func GradDot(a, b Value) float64 {
	return a.DX*b.DX + a.DY*b.DY
}
