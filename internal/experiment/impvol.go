package experiment

import (
	"math"

	"github.com/san-kum/fdpde/internal/blackscholes"
	"github.com/san-kum/fdpde/internal/storage"
)

// ImpliedVolPoint is one node of a forward Black-Scholes surface read back as
// an implied volatility. Vol is NaN when the price could not be inverted.
type ImpliedVolPoint struct {
	Time   float64
	Strike float64
	Price  float64
	Vol    float64
}

// ImpliedVols inverts the layers of a forward-normalised call surface at
// every strike within exp((rate - vol²/2) t ± nSigma vol √t), skipping layers
// at or before minTime.
func ImpliedVols(s *storage.Surface, vol, rate, nSigma, minTime float64) []ImpliedVolPoint {
	var points []ImpliedVolPoint
	for i, t := range s.Times {
		if t <= minTime {
			continue
		}
		drift := (rate - 0.5*vol*vol) * t
		width := nSigma * vol * math.Sqrt(t)
		low, high := math.Exp(drift-width), math.Exp(drift+width)

		for j, k := range s.Space {
			if k <= low || k >= high {
				continue
			}
			price := s.Values[i][j]
			iv, err := blackscholes.ImpliedVol(price, 1, k, t, true)
			if err != nil {
				iv = math.NaN()
			}
			points = append(points, ImpliedVolPoint{Time: t, Strike: k, Price: price, Vol: iv})
		}
	}
	return points
}

// MaxVolError returns the largest |Vol - target| over points, with NaN
// counting as infinitely wrong.
func MaxVolError(points []ImpliedVolPoint, target float64) float64 {
	worst := 0.0
	for _, p := range points {
		if math.IsNaN(p.Vol) {
			return math.Inf(1)
		}
		worst = math.Max(worst, math.Abs(p.Vol-target))
	}
	return worst
}
