package grf

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/vortgen/internal/field"
	"github.com/san-kum/vortgen/internal/parallel"
	"github.com/san-kum/vortgen/internal/spectral"
)

var (
	ErrDimension = errors.New("grf: dimension must be 1, 2 or 3")
	ErrBoundary  = errors.New("grf: only periodic boundaries are supported")
)

// Params configures a Sampler. A nil Sigma selects the default
// tau^(0.5·(2·alpha−dim)); a set Sigma must be positive. Boundary == ""
// means "periodic", the only supported value.
type Params struct {
	Dim      int
	Size     int
	Alpha    float64
	Tau      float64
	Sigma    *float64
	Boundary string
	Seed     uint64
}

// Sampler draws mean-zero stationary Gaussian random fields on a periodic
// grid with isotropic power-law spectral density. The per-frequency scale
// table is computed once at construction and immutable afterwards; the only
// mutable state is the random source, so Reseed between sampling calls gives
// reproducible batches.
type Sampler struct {
	dim, size int
	alpha     float64
	tau       float64
	sigma     float64

	sqrtEig []float64
	dims    []int
	normal  distuv.Normal
}

// New validates the parameters and precomputes the spectral scale table
// sqrt_eig[k] = size^dim · √2 · sigma · (4π²|k|² + tau²)^(−alpha/2), with
// the zero-wavenumber entry forced to zero so every realization has exact
// zero spatial mean.
func New(p Params) (*Sampler, error) {
	if p.Dim < 1 || p.Dim > 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, p.Dim)
	}
	if p.Boundary != "" && p.Boundary != "periodic" {
		return nil, fmt.Errorf("%w: got %q", ErrBoundary, p.Boundary)
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("grf: size must be positive, got %d", p.Size)
	}
	if p.Alpha <= 0 {
		return nil, fmt.Errorf("grf: alpha must be positive, got %g", p.Alpha)
	}
	if p.Tau <= 0 {
		return nil, fmt.Errorf("grf: tau must be positive, got %g", p.Tau)
	}

	sigma := math.Pow(p.Tau, 0.5*(2*p.Alpha-float64(p.Dim)))
	if p.Sigma != nil {
		if *p.Sigma <= 0 {
			return nil, fmt.Errorf("grf: sigma must be positive, got %g", *p.Sigma)
		}
		sigma = *p.Sigma
	}

	s := &Sampler{
		dim:   p.Dim,
		size:  p.Size,
		alpha: p.Alpha,
		tau:   p.Tau,
		sigma: sigma,
	}
	s.dims = make([]int, p.Dim)
	total := 1
	for i := range s.dims {
		s.dims[i] = p.Size
		total *= p.Size
	}

	s.sqrtEig = make([]float64, total)
	wn := spectral.Wavenumbers(p.Size)
	amp := math.Pow(float64(p.Size), float64(p.Dim)) * math.Sqrt2 * sigma
	fourPi2 := 4 * math.Pi * math.Pi

	for idx := range s.sqrtEig {
		k2 := 0.0
		rem := idx
		for a := p.Dim - 1; a >= 0; a-- {
			k := float64(wn[rem%p.Size])
			rem /= p.Size
			k2 += k * k
		}
		s.sqrtEig[idx] = amp * math.Pow(fourPi2*k2+p.Tau*p.Tau, -p.Alpha/2)
	}
	s.sqrtEig[0] = 0

	s.Reseed(p.Seed)
	return s, nil
}

// Reseed resets the random source. Sampling after Reseed(x) always yields
// the same batches as any other run reseeded with x.
func (s *Sampler) Reseed(seed uint64) {
	s.normal = distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed+1)}
}

// SqrtEig exposes the scale table for inspection. Callers must not modify it.
func (s *Sampler) SqrtEig() []float64 { return s.sqrtEig }

func (s *Sampler) Dim() int  { return s.dim }
func (s *Sampler) Size() int { return s.size }

// Sample draws n independent realizations. Coefficients are drawn
// sequentially for determinism; the inverse transforms run in parallel
// across the batch. The returned fields have shape [size]^dim each.
func (s *Sampler) Sample(n int) field.Batch {
	if n <= 0 {
		return nil
	}

	total := len(s.sqrtEig)
	coeffs := make([][]complex128, n)
	for b := range coeffs {
		c := make([]complex128, total)
		for i := range c {
			c[i] = complex(s.normal.Rand(), s.normal.Rand()) * complex(s.sqrtEig[i], 0)
		}
		coeffs[b] = c
	}

	batch := make(field.Batch, n)
	parallel.Each(n, func(b int) {
		m := dsputils.MakeMatrix(coeffs[b], s.dims)
		inv := fft.IFFTN(m)

		// Matrix has no flat accessor; read values back by per-axis index,
		// row-major to match the field layout.
		f := field.New(s.dims...)
		idx := make([]int, s.dim)
		for i := range f.Data {
			rem := i
			for a := s.dim - 1; a >= 0; a-- {
				idx[a] = rem % s.size
				rem /= s.size
			}
			f.Data[i] = real(inv.Value(idx))
		}
		batch[b] = f
	})

	return batch
}
