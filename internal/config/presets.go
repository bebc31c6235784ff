package config

import (
	"slices"
	"strings"

	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/solver"
)

var (
	forwardTime  = mesh.Spec{Kind: mesh.KindExponential, Low: 0, High: 5, Points: 51, Bunching: 5}
	forwardSpace = mesh.Spec{Kind: mesh.KindHyperbolic, Low: 0, High: 10, Points: 101, Anchor: 1, Bunching: 0.01}
	bsParams     = map[string]float64{"vol": 0.2, "rate": 0.05}
)

var Presets = map[string]map[string]*Config{
	"bs-forward": {
		"reference": {
			Problem: "bs-forward", Theta: 0.55, RetainHistory: true,
			TimeMesh: forwardTime, SpaceMesh: forwardSpace, Params: bsParams,
		},
		"rannacher": {
			Problem: "bs-forward", Theta: 0.5, RetainHistory: true, Correction: solver.Rannacher(2),
			TimeMesh: forwardTime, SpaceMesh: forwardSpace, Params: bsParams,
		},
		"coarse": {
			Problem: "bs-forward", Theta: 0.55, RetainHistory: true,
			TimeMesh:  mesh.Spec{Kind: mesh.KindExponential, Low: 0, High: 2, Points: 21, Bunching: 3},
			SpaceMesh: mesh.Spec{Kind: mesh.KindDoubleExponential, Low: 0, High: 5, Points: 61, Anchor: 1, Fraction: 0.5, Bunching: -3, BunchingHi: 3},
			Params:    bsParams,
		},
	},
	"bs-backward": {
		"atm": {
			Problem: "bs-backward", Theta: 0.5, RetainHistory: true, Correction: solver.Rannacher(2),
			Params: map[string]float64{"vol": 0.2, "rate": 0.05, "strike": 100},
		},
	},
	"heat-neumann": {
		"decay": {
			Problem: "heat-neumann", Theta: 1, RetainHistory: true,
			TimeMesh:  mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 0.5, Points: 51},
			SpaceMesh: mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 1, Points: 51},
		},
	},
	"heat-dirichlet": {
		"decay": {
			Problem: "heat-dirichlet", Theta: 0.5, RetainHistory: true,
			TimeMesh:  mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 0.5, Points: 51},
			SpaceMesh: mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 1, Points: 51},
		},
		"unstable": {
			Problem: "heat-dirichlet", Theta: 0, RetainHistory: true,
			TimeMesh:  mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 1, Points: 11},
			SpaceMesh: mesh.Spec{Kind: mesh.KindUniform, Low: 0, High: 1, Points: 101},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// Lookup resolves "problem/preset".
func Lookup(name string) *Config {
	problem, preset, ok := strings.Cut(name, "/")
	if !ok {
		return nil
	}
	return GetPreset(problem, preset)
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AllPresets returns every preset as "problem/preset", sorted.
func AllPresets() []string {
	var names []string
	for problem := range Presets {
		for _, preset := range ListPresets(problem) {
			names = append(names, problem+"/"+preset)
		}
	}
	slices.Sort(names)
	return names
}
