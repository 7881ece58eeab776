package metrics

import (
	"math"

	"github.com/san-kum/vortgen/internal/field"
	"github.com/san-kum/vortgen/internal/spectral"
)

// MaxDivergence returns the maximum absolute value of the discrete
// divergence ∂u/∂x + ∂v/∂y, evaluated spectrally. Stream-function-derived
// velocity fields should give a value at floating-point noise level.
func MaxDivergence(u, v field.Field) float64 {
	if !u.Square2D() || !u.SameShape(v) {
		return math.NaN()
	}
	n := u.Shape[0]

	g := spectral.NewGrid(n)
	tr := spectral.NewTransform2(n)
	sl := tr.SpectrumLen()

	uh := make([]complex128, sl)
	vh := make([]complex128, sl)
	tr.Forward(u.Data, uh)
	tr.Forward(v.Data, vh)

	for i := 0; i < sl; i++ {
		uh[i] = complex(0, 2*math.Pi*g.KX[i])*uh[i] + complex(0, 2*math.Pi*g.KY[i])*vh[i]
	}

	div := make([]float64, n*n)
	tr.Inverse(uh, div)

	max := 0.0
	for _, d := range div {
		if a := math.Abs(d); a > max {
			max = a
		}
	}
	return max
}
