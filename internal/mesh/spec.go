package mesh

import "fmt"

// Spec describes a mesh declaratively so it can be read from a config file.
//
// Bunching is the kind-specific clustering parameter: lambda for exponential
// meshes, alpha for hyperbolic meshes and the lower lambda for double
// exponential meshes. Anchor is the hyperbolic centre or the double
// exponential split.
type Spec struct {
	Kind       Kind      `yaml:"kind" json:"kind"`
	Low        float64   `yaml:"low" json:"low"`
	High       float64   `yaml:"high" json:"high"`
	Points     int       `yaml:"points" json:"points"`
	Bunching   float64   `yaml:"bunching,omitempty" json:"bunching,omitempty"`
	Anchor     float64   `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	Fraction   float64   `yaml:"fraction,omitempty" json:"fraction,omitempty"`
	BunchingHi float64   `yaml:"bunching_high,omitempty" json:"bunching_high,omitempty"`
	Nodes      []float64 `yaml:"nodes,omitempty" json:"nodes,omitempty"`
}

// Build generates the mesh described by s.
func Build(s Spec) (*Mesh, error) {
	switch s.Kind {
	case KindUniform, "":
		return NewUniform(s.Low, s.High, s.Points)
	case KindExponential:
		return NewExponential(s.Low, s.High, s.Points, s.Bunching)
	case KindHyperbolic:
		return NewHyperbolic(s.Low, s.High, s.Anchor, s.Points, s.Bunching)
	case KindDoubleExponential:
		return NewDoubleExponential(s.Low, s.High, s.Anchor, s.Points, s.Fraction, s.Bunching, s.BunchingHi)
	case KindPoints:
		return FromPoints(s.Nodes)
	default:
		return nil, fmt.Errorf("unknown mesh kind %q: %w", s.Kind, ErrInvalidParameter)
	}
}
