package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/fdpde/internal/problems"
)

type ProblemFactory func(params map[string]float64) (problems.Problem, error)

type Registry struct {
	problems map[string]ProblemFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		problems: make(map[string]ProblemFactory),
	}

	r.Register("bs-forward", func(params map[string]float64) (problems.Problem, error) {
		return problems.NewForwardBlackScholes(params)
	})
	r.Register("bs-backward", func(params map[string]float64) (problems.Problem, error) {
		return problems.NewBackwardBlackScholes(params)
	})
	r.Register("heat-dirichlet", func(params map[string]float64) (problems.Problem, error) {
		return problems.NewHeat(params, false)
	})
	r.Register("heat-neumann", func(params map[string]float64) (problems.Problem, error) {
		return problems.NewHeat(params, true)
	})

	return r
}

func (r *Registry) Register(name string, f ProblemFactory) {
	r.problems[name] = f
}

func (r *Registry) GetProblem(name string, params map[string]float64) (problems.Problem, error) {
	fn, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(params)
}

func (r *Registry) ListProblems() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
