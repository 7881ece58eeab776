package solver

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/vortgen/internal/field"
)

// KolmogorovForcing returns the fixed deterministic forcing field
// 0.1·(sin(2π(x+y)) + cos(2π(x+y))) sampled on the n×n unit grid with
// endpoint-free spacing.
func KolmogorovForcing(n int) field.Field {
	x := make([]float64, n)
	if n > 1 {
		floats.Span(x, 0, 1-1.0/float64(n))
	}

	f := field.New(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			arg := 2 * math.Pi * (x[i] + x[j])
			f.Set2(i, j, 0.1*(math.Sin(arg)+math.Cos(arg)))
		}
	}
	return f
}

// ZeroForcing returns an all-zero forcing field for decaying-turbulence runs.
func ZeroForcing(n int) field.Field {
	return field.New(n, n)
}
