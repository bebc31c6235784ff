// Package blackscholes prices European options in the Black model and
// inverts prices to implied volatilities. Prices are undiscounted and
// written on the forward.
package blackscholes

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrInvalidInput = errors.New("blackscholes: invalid input")
	ErrNoSolution   = errors.New("blackscholes: price outside no-arbitrage bounds")
)

const (
	minVol       = 1e-8
	maxVol       = 10.0
	volTolerance = 1e-12
	maxIter      = 200
)

// Price returns the Black price of a call or put with the given forward,
// strike, expiry and volatility.
func Price(forward, strike, expiry, vol float64, isCall bool) float64 {
	floor := intrinsic(forward, strike, isCall)
	stdDev := vol * math.Sqrt(expiry)
	if stdDev <= 0 || strike <= 0 {
		return floor
	}
	d1 := (math.Log(forward/strike) + 0.5*stdDev*stdDev) / stdDev
	d2 := d1 - stdDev
	if isCall {
		return forward*distuv.UnitNormal.CDF(d1) - strike*distuv.UnitNormal.CDF(d2)
	}
	return strike*distuv.UnitNormal.CDF(-d2) - forward*distuv.UnitNormal.CDF(-d1)
}

// Vega returns dPrice/dVol, which is the same for calls and puts.
func Vega(forward, strike, expiry, vol float64) float64 {
	stdDev := vol * math.Sqrt(expiry)
	if stdDev <= 0 || strike <= 0 {
		return 0
	}
	d1 := (math.Log(forward/strike) + 0.5*stdDev*stdDev) / stdDev
	return forward * distuv.UnitNormal.Prob(d1) * math.Sqrt(expiry)
}

// ImpliedVol returns the volatility at which Price reproduces price. In the
// money options are converted to their out of the money counterpart by
// put-call parity first.
func ImpliedVol(price, forward, strike, expiry float64, isCall bool) (float64, error) {
	if !(forward > 0) || !(strike > 0) || !(expiry > 0) || math.IsNaN(price) {
		return 0, fmt.Errorf("forward %v, strike %v, expiry %v, price %v: %w", forward, strike, expiry, price, ErrInvalidInput)
	}

	if isCall && strike < forward {
		price, isCall = price-(forward-strike), false
	} else if !isCall && strike > forward {
		price, isCall = price-(strike-forward), true
	}

	upperBound := forward
	if !isCall {
		upperBound = strike
	}
	if price <= 0 || price >= upperBound {
		return 0, fmt.Errorf("price %v outside (0, %v): %w", price, upperBound, ErrNoSolution)
	}

	lo, hi := minVol, maxVol
	if Price(forward, strike, expiry, hi, isCall) < price {
		return 0, fmt.Errorf("price %v needs volatility above %v: %w", price, maxVol, ErrNoSolution)
	}

	// Newton steps, falling back to bisection when a step leaves the bracket.
	vol := math.Sqrt(2 * math.Abs(math.Log(forward/strike)) / expiry)
	if vol < 0.05 || vol > 2 {
		vol = 0.2
	}
	for range maxIter {
		diff := Price(forward, strike, expiry, vol, isCall) - price
		if math.Abs(diff) < volTolerance*upperBound {
			return vol, nil
		}
		if diff > 0 {
			hi = vol
		} else {
			lo = vol
		}
		next := vol - diff/Vega(forward, strike, expiry, vol)
		if !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-vol) < volTolerance {
			return next, nil
		}
		vol = next
	}
	return vol, nil
}

func intrinsic(forward, strike float64, isCall bool) float64 {
	if isCall {
		return math.Max(forward-strike, 0)
	}
	return math.Max(strike-forward, 0)
}
