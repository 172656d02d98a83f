package simulation

import (
	"fmt"

	"github.com/notargets/TPKernel/bspline"
)

// TimestepsConfig carries the time loop parameters of solvers built on a
// Simulation2D. The kernel itself never steps.
type TimestepsConfig struct {
	StepCount int
	DT        float64
}

// Config2D configures both axes of a Simulation2D
type Config2D struct {
	X, Y  bspline.Config
	Steps TimestepsConfig
}

// Validate checks both axes and the time step parameters
func (c Config2D) Validate() error {
	if err := c.X.Validate(); err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	if err := c.Y.Validate(); err != nil {
		return fmt.Errorf("y axis: %w", err)
	}
	if c.Steps.StepCount < 0 || c.Steps.DT < 0 {
		return fmt.Errorf("%w: %d steps of size %g",
			bspline.ErrInvalidConfig, c.Steps.StepCount, c.Steps.DT)
	}
	return nil
}
