package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/fdpde/internal/config"
	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
	"github.com/san-kum/fdpde/internal/problems"
	"github.com/san-kum/fdpde/internal/solver"
)

// Experiment turns a config into a solved problem.
type Experiment struct {
	cfg     *config.Config
	logger  *slog.Logger
	problem problems.Problem
	bundle  *pde.DataBundle
	solver  *solver.ThetaMethod
}

// Outcome is what a run produced.
type Outcome struct {
	Results     *pde.Results
	Elapsed     time.Duration
	Diagnostics map[string]float64
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Experiment{cfg: cfg.Clone(), logger: logger}
}

// Resolve validates cfg, looks up its problem and returns a copy with any
// unset mesh replaced by the problem's default.
func Resolve(reg *Registry, cfg *config.Config) (*config.Config, problems.Problem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	p, err := reg.GetProblem(cfg.Problem, cfg.Params)
	if err != nil {
		return nil, nil, err
	}

	out := cfg.Clone()
	defTime, defSpace := p.Meshes()
	if !config.MeshSet(out.TimeMesh) {
		out.TimeMesh = defTime
	}
	if !config.MeshSet(out.SpaceMesh) {
		out.SpaceMesh = defSpace
	}
	return out, p, nil
}

// Setup resolves the config and builds the grid, bundle and solver.
func (e *Experiment) Setup(reg *Registry) error {
	cfg, p, err := Resolve(reg, e.cfg)
	if err != nil {
		return err
	}
	e.cfg = cfg

	tm, err := mesh.Build(e.cfg.TimeMesh)
	if err != nil {
		return fmt.Errorf("time mesh: %w", err)
	}
	xm, err := mesh.Build(e.cfg.SpaceMesh)
	if err != nil {
		return fmt.Errorf("space mesh: %w", err)
	}
	g, err := grid.New(tm, xm)
	if err != nil {
		return err
	}

	b, err := p.Bundle(g)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name(), err)
	}
	s, err := solver.NewThetaMethod(e.cfg.SolverConfig())
	if err != nil {
		return err
	}

	e.problem, e.bundle, e.solver = p, b, s
	e.logger.Debug("experiment ready",
		"problem", p.Name(),
		"time_nodes", g.NumTimeNodes(),
		"space_nodes", g.NumSpaceNodes(),
		"time_mesh", string(e.cfg.TimeMesh.Kind),
		"space_mesh", string(e.cfg.SpaceMesh.Kind))
	return nil
}

// Run solves the bundle. The solve itself is not interruptible; when ctx
// ends first Run returns ctx.Err() and the result is discarded.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	e.logger.Info("solving",
		"problem", e.problem.Name(),
		"theta", e.cfg.Theta,
		"correction_steps", e.cfg.Correction.Steps)

	type solved struct {
		res *pde.Results
		err error
	}
	done := make(chan solved, 1)
	start := time.Now()
	go func() {
		res, err := e.solver.Solve(e.bundle)
		done <- solved{res, err}
	}()

	var out solved
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out = <-done:
	}
	elapsed := time.Since(start)
	if out.err != nil {
		e.logger.Error("solve failed", "problem", e.problem.Name(), "err", out.err)
		return nil, out.err
	}

	diag := Diagnose(e.problem, out.res)
	e.logger.Info("solved",
		"problem", e.problem.Name(),
		"elapsed", elapsed,
		"max_abs", diag["max_abs"])
	if v, ok := diag["max_error"]; ok {
		e.logger.Info("error against closed form", "max_error", v)
	}

	return &Outcome{Results: out.res, Elapsed: elapsed, Diagnostics: diag}, nil
}

// Config returns the effective configuration, including resolved meshes.
func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Problem() problems.Problem { return e.problem }

// Bundle and Solver are nil until Setup succeeds.
func (e *Experiment) Bundle() *pde.DataBundle     { return e.bundle }
func (e *Experiment) Solver() *solver.ThetaMethod { return e.solver }

// Diagnose computes summary numbers for a solved problem: the largest
// magnitude, the space integral of the first and last layer and, for
// problems with a closed form, the largest error on the terminal layer.
func Diagnose(p problems.Problem, res *pde.Results) map[string]float64 {
	g := res.Grid()
	last := g.NumTimeNodes() - 1
	diag := map[string]float64{
		"max_abs":          res.MaxAbs(),
		"initial_integral": res.SpaceIntegral(0),
		"final_integral":   res.SpaceIntegral(last),
	}

	if a, ok := p.(problems.Analytic); ok {
		t := g.TimeAt(last)
		worst := 0.0
		for j := 0; j < g.NumSpaceNodes(); j++ {
			worst = math.Max(worst, math.Abs(res.ValueAt(j, last)-a.Exact(t, g.SpaceAt(j))))
		}
		diag["max_error"] = worst
	}
	return diag
}
