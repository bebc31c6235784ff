package tridiag

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func denseReference(t *testing.T, sub, diag, sup, rhs []float64) []float64 {
	t.Helper()
	n := len(diag)
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, diag[i])
		if i > 0 {
			a.Set(i, i-1, sub[i])
		}
		if i < n-1 {
			a.Set(i, i+1, sup[i])
		}
	}
	var x mat.VecDense
	require.NoError(t, x.SolveVec(a, mat.NewVecDense(n, append([]float64(nil), rhs...))))
	return x.RawVector().Data
}

func randomSystem(rng *rand.Rand, n int) (sub, diag, sup, rhs []float64) {
	sub = make([]float64, n)
	diag = make([]float64, n)
	sup = make([]float64, n)
	rhs = make([]float64, n)
	for i := range diag {
		sub[i] = rng.Float64()*2 - 1
		sup[i] = rng.Float64()*2 - 1
		diag[i] = 2.5 + rng.Float64()
		rhs[i] = rng.Float64()*10 - 5
	}
	return sub, diag, sup, rhs
}

func TestSolveMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, n := range []int{1, 2, 3, 10, 101} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			sub, diag, sup, rhs := randomSystem(rng, n)
			got, err := Solve(sub, diag, sup, rhs)
			require.NoError(t, err)
			assert.InDeltaSlice(t, denseReference(t, sub, diag, sup, rhs), got, 1e-10)
		})
	}
}

func TestSolveIgnoresCorners(t *testing.T) {
	sub := []float64{99, -1, -1}
	diag := []float64{2, 2, 2}
	sup := []float64{-1, -1, 99}
	rhs := []float64{1, 0, 1}
	got, err := Solve(sub, diag, sup, rhs)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 1}, got, 1e-14)
}

func TestWorkspaceReuseAndAliasing(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	w := NewWorkspace(20)
	require.Equal(t, 20, w.Size())

	for range 3 {
		sub, diag, sup, rhs := randomSystem(rng, 20)
		want := denseReference(t, sub, diag, sup, rhs)
		require.NoError(t, w.Solve(sub, diag, sup, rhs, rhs))
		assert.InDeltaSlice(t, want, rhs, 1e-10)
	}
}

func TestZeroPivot(t *testing.T) {
	tests := []struct {
		name           string
		sub, diag, sup []float64
		row            int
	}{
		{"zero first diagonal", []float64{0, 1}, []float64{0, 1}, []float64{1, 0}, 0},
		{"eliminated to zero", []float64{0, 1}, []float64{1, 1}, []float64{1, 0}, 1},
		{"all zero", []float64{0, 0, 0}, []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"rounding level pivot", []float64{0, 1, 0}, []float64{3, 1.0 / 3, 1}, []float64{1, 0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := Solve(tt.sub, tt.diag, tt.sup, make([]float64, len(tt.diag)))
			require.ErrorIs(t, err, ErrZeroPivot)
			assert.Nil(t, x)

			var pe *PivotError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.row, pe.Row)
		})
	}
}

func TestSizeMismatch(t *testing.T) {
	w := NewWorkspace(3)
	err := w.Solve(make([]float64, 3), make([]float64, 3), make([]float64, 2), make([]float64, 3), make([]float64, 3))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrZeroPivot)

	err = w.Solve(make([]float64, 4), make([]float64, 4), make([]float64, 4), make([]float64, 4), make([]float64, 4))
	require.Error(t, err)
}
