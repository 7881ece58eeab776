package spectral

import "math"

// Wavenumbers returns the signed wavenumber for each frequency bin of an
// n-point transform under wraparound indexing: bins [0,kmax) map to their own
// index, bins [kmax,n) map to index-n, with kmax = floor(n/2).
func Wavenumbers(n int) []int {
	k := make([]int, n)
	kmax := n / 2
	for i := range k {
		if i < kmax {
			k[i] = i
		} else {
			k[i] = i - n
		}
	}
	return k
}

// Grid holds the frequency-domain geometry shared by every operation on an
// N×N periodic grid: the truncated wavenumber matrices, the negative
// Laplacian, and the 2/3-rule dealiasing mask. Built once per grid size,
// immutable afterwards, safe for unbounded concurrent reads.
//
// The matrices are flattened row-major with Cols = floor(N/2)+1 columns
// (truncated last axis). KX varies along rows, KY along columns.
type Grid struct {
	N, KMax, Cols int

	KX, KY []float64
	// Lap is 4π²(kx²+ky²) with the zero mode pinned to 1. The pinned value
	// only ever divides the zero-mode stream function, which carries no
	// physical information.
	Lap []float64
	// Dealias is 1 where |kx| ≤ (2/3)kmax and |ky| ≤ (2/3)kmax, else 0.
	Dealias []float64
}

// NewGrid builds the spectral geometry for an n×n grid.
func NewGrid(n int) *Grid {
	kmax := n / 2
	cols := kmax + 1
	g := &Grid{
		N:       n,
		KMax:    kmax,
		Cols:    cols,
		KX:      make([]float64, n*cols),
		KY:      make([]float64, n*cols),
		Lap:     make([]float64, n*cols),
		Dealias: make([]float64, n*cols),
	}

	wn := Wavenumbers(n)
	cutoff := 2.0 / 3.0 * float64(kmax)
	fourPi2 := 4 * math.Pi * math.Pi

	for i := 0; i < n; i++ {
		kx := float64(wn[i])
		for j := 0; j < cols; j++ {
			ky := float64(wn[j])
			idx := i*cols + j
			g.KX[idx] = kx
			g.KY[idx] = ky
			g.Lap[idx] = fourPi2 * (kx*kx + ky*ky)
			if math.Abs(kx) <= cutoff && math.Abs(ky) <= cutoff {
				g.Dealias[idx] = 1
			}
		}
	}
	g.Lap[0] = 1

	return g
}
