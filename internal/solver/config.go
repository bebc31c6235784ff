package solver

import (
	"fmt"
	"math"

	"github.com/san-kum/fdpde/internal/pde"
)

// Correction replaces the first Steps time intervals with SubSteps smaller
// steps of the Theta scheme, which damps the oscillations Crank-Nicolson
// produces from non-smooth initial data.
type Correction struct {
	Steps    int     `yaml:"steps" json:"steps"`
	Theta    float64 `yaml:"theta" json:"theta"`
	SubSteps int     `yaml:"sub_steps" json:"sub_steps"`
}

// Rannacher returns the usual implicit start: steps intervals, each taken as
// two fully implicit half steps.
func Rannacher(steps int) Correction {
	return Correction{Steps: steps, Theta: 1, SubSteps: 2}
}

// Enabled reports whether any interval is corrected.
func (c Correction) Enabled() bool { return c.Steps > 0 }

func (c Correction) validate() error {
	if c.Steps < 0 {
		return fmt.Errorf("correction steps %d is negative: %w", c.Steps, pde.ErrInvalidParameter)
	}
	if c.Steps > 0 && c.SubSteps < 1 {
		return fmt.Errorf("correction sub-steps %d must be at least 1: %w", c.SubSteps, pde.ErrInvalidParameter)
	}
	if !inUnit(c.Theta) {
		return fmt.Errorf("correction theta %v outside [0, 1]: %w", c.Theta, pde.ErrInvalidParameter)
	}
	return nil
}

type Config struct {
	// Theta weights the implicit part: 0 explicit, 0.5 Crank-Nicolson,
	// 1 fully implicit.
	Theta float64 `yaml:"theta" json:"theta"`
	// RetainHistory keeps every time layer; otherwise only the first and
	// the last are returned.
	RetainHistory bool       `yaml:"retain_history" json:"retain_history"`
	Correction    Correction `yaml:"correction" json:"correction"`
}

func DefaultConfig() Config {
	return Config{
		Theta:         0.5,
		RetainHistory: true,
	}
}

func (c Config) Validate() error {
	if !inUnit(c.Theta) {
		return fmt.Errorf("theta %v outside [0, 1]: %w", c.Theta, pde.ErrInvalidParameter)
	}
	return c.Correction.validate()
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
