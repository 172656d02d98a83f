package bspline

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid axis configuration")

// Config describes a uniform B-spline discretization of one axis
type Config struct {
	P         int     // Polynomial degree
	Elements  int     // Number of knot spans on [A,B]
	A, B      float64 // Axis interval
	QuadOrder int     // Gauss points per element; 0 selects P+1
	Ders      int     // Highest tabulated derivative; 0 selects 1
}

// WithDefaults fills in the optional fields
func (c Config) WithDefaults() Config {
	if c.QuadOrder == 0 {
		c.QuadOrder = c.P + 1
	}
	if c.Ders == 0 {
		c.Ders = 1
	}
	return c
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig
func (c Config) Validate() error {
	switch {
	case c.P < 0:
		return fmt.Errorf("%w: degree %d < 0", ErrInvalidConfig, c.P)
	case c.Elements < 1:
		return fmt.Errorf("%w: %d elements, need at least one", ErrInvalidConfig, c.Elements)
	case !(c.A < c.B):
		return fmt.Errorf("%w: empty interval [%g,%g]", ErrInvalidConfig, c.A, c.B)
	case c.QuadOrder < 0:
		return fmt.Errorf("%w: quadrature order %d < 0", ErrInvalidConfig, c.QuadOrder)
	case c.Ders < 0:
		return fmt.Errorf("%w: derivative order %d < 0", ErrInvalidConfig, c.Ders)
	}
	return nil
}
