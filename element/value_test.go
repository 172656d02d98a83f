package element

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func randomValue(r *rand.Rand) Value {
	return Value{V: r.NormFloat64(), DX: r.NormFloat64(), DY: r.NormFloat64()}
}

func TestValueLinearSpace(t *testing.T) {
	a := Value{1, 2, 3}
	b := Value{-4, 0.5, 6}

	assert.Equal(t, Value{-3, 2.5, 9}, a.Add(b))
	assert.Equal(t, Value{2, 4, 6}, a.Scale(2))
	assert.Equal(t, a.Add(b.Scale(3)), a.AddScaled(3, b))

	var zero Value
	assert.Equal(t, a, a.Add(zero))
	assert.Equal(t, zero, a.Scale(0))
}

func TestGradDotProperties(t *testing.T) {
	var (
		r   = rand.New(rand.NewPCG(1, 2))
		tol = 1.e-12
	)
	for i := 0; i < 200; i++ {
		a, b, c := randomValue(r), randomValue(r), randomValue(r)
		s := r.NormFloat64()

		assert.GreaterOrEqual(t, GradDot(a, a), 0.)
		assert.InDelta(t, GradDot(a, b), GradDot(b, a), tol)
		assert.InDelta(t, GradDot(a.Add(b), c), GradDot(a, c)+GradDot(b, c), tol)
		assert.InDelta(t, GradDot(a.Scale(s), b), s*GradDot(a, b), tol)
	}
	// The function value does not enter the product
	assert.Equal(t, 0., GradDot(Value{V: 5}, Value{V: 7}))
	assert.Equal(t, 11., GradDot(Value{DX: 1, DY: 2}, Value{DX: 3, DY: 4}))
}
