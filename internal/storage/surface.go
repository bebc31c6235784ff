package storage

import (
	"fmt"

	"github.com/san-kum/fdpde/internal/pde"
)

// Surface is the persisted form of a solve: the retained time layers and
// the space coordinates they are sampled at.
type Surface struct {
	TimeIndices []int       `json:"time_indices"`
	Times       []float64   `json:"times"`
	Space       []float64   `json:"space"`
	Values      [][]float64 `json:"values"` // Values[layer][node]
}

// FromResults copies the retained layers out of res.
func FromResults(res *pde.Results) *Surface {
	idx := res.RetainedTimeIndices()
	s := &Surface{
		TimeIndices: idx,
		Times:       make([]float64, len(idx)),
		Space:       res.Grid().SpaceNodes(),
		Values:      make([][]float64, len(idx)),
	}
	for i, k := range idx {
		s.Times[i] = res.TimeValue(k)
		s.Values[i] = res.Layer(k)
	}
	return s
}

func (s *Surface) NumLayers() int { return len(s.Times) }
func (s *Surface) NumNodes() int  { return len(s.Space) }

// Terminal returns the last layer.
func (s *Surface) Terminal() []float64 {
	if len(s.Values) == 0 {
		return nil
	}
	return s.Values[len(s.Values)-1]
}

// Node returns the values at space node j across all layers.
func (s *Surface) Node(j int) []float64 {
	out := make([]float64, len(s.Values))
	for i, layer := range s.Values {
		out[i] = layer[j]
	}
	return out
}

// NearestNode returns the index of the space node closest to x.
func (s *Surface) NearestNode(x float64) int {
	best := 0
	for j, v := range s.Space {
		if abs(v-x) < abs(s.Space[best]-x) {
			best = j
		}
	}
	return best
}

func (s *Surface) validate() error {
	if len(s.Times) != len(s.Values) || len(s.TimeIndices) != len(s.Values) {
		return fmt.Errorf("surface has %d times, %d indices and %d layers", len(s.Times), len(s.TimeIndices), len(s.Values))
	}
	for i, layer := range s.Values {
		if len(layer) != len(s.Space) {
			return fmt.Errorf("surface layer %d has %d values for %d nodes", i, len(layer), len(s.Space))
		}
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
