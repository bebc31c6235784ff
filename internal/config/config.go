package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/solver"
)

const (
	DefaultProblem = "bs-forward"
	DefaultTheta   = 0.55
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config describes one solve. A mesh left at its zero value is replaced by
// the problem's default mesh.
type Config struct {
	Problem       string             `yaml:"problem"`
	Theta         float64            `yaml:"theta"`
	RetainHistory bool               `yaml:"retain_history"`
	Correction    solver.Correction  `yaml:"correction,omitempty"`
	TimeMesh      mesh.Spec          `yaml:"time_mesh,omitempty"`
	SpaceMesh     mesh.Spec          `yaml:"space_mesh,omitempty"`
	Params        map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:       DefaultProblem,
		Theta:         DefaultTheta,
		RetainHistory: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Params = maps.Clone(c.Params)
	cp.TimeMesh.Nodes = append([]float64(nil), c.TimeMesh.Nodes...)
	cp.SpaceMesh.Nodes = append([]float64(nil), c.SpaceMesh.Nodes...)
	return &cp
}

func (c *Config) SolverConfig() solver.Config {
	return solver.Config{
		Theta:         c.Theta,
		RetainHistory: c.RetainHistory,
		Correction:    c.Correction,
	}
}

// MeshSet reports whether s was given explicitly.
func MeshSet(s mesh.Spec) bool {
	return s.Points != 0 || len(s.Nodes) != 0
}

// Validate checks everything that can be checked without the problem
// registry.
func (c *Config) Validate() error {
	if c.Problem == "" {
		return fmt.Errorf("%w: problem is required", ErrInvalidConfig)
	}
	if err := c.SolverConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for name, s := range map[string]mesh.Spec{"time": c.TimeMesh, "space": c.SpaceMesh} {
		if !MeshSet(s) {
			continue
		}
		if _, err := mesh.Build(s); err != nil {
			return fmt.Errorf("%w: %s mesh: %w", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// Param returns a problem parameter or def when it is not set.
func (c *Config) Param(key string, def float64) float64 {
	if v, ok := c.Params[key]; ok {
		return v
	}
	return def
}

func (c *Config) SetParam(key string, v float64) {
	if c.Params == nil {
		c.Params = make(map[string]float64)
	}
	c.Params[key] = v
}
