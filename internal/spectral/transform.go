package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/vortgen/internal/field"
)

// Transform2 computes the truncated real 2D Fourier transform of an n×n field
// and its paired inverse: a real transform along rows followed by a full
// complex transform down the truncated columns. The spectrum has n rows and
// floor(n/2)+1 columns; reconstruction back to a real field goes only
// through Inverse, never through a naive full-spectrum inversion.
//
// A Transform2 owns scratch buffers and is not safe for concurrent use. Use
// one instance per goroutine; the plans it wraps are cheap to build.
type Transform2 struct {
	n, cols int

	row *fourier.FFT
	col *fourier.CmplxFFT

	colIn  []complex128
	colOut []complex128
	spec   []complex128
}

func NewTransform2(n int) *Transform2 {
	cols := n/2 + 1
	return &Transform2{
		n:      n,
		cols:   cols,
		row:    fourier.NewFFT(n),
		col:    fourier.NewCmplxFFT(n),
		colIn:  make([]complex128, n),
		colOut: make([]complex128, n),
		spec:   make([]complex128, n*cols),
	}
}

// SpectrumLen returns the number of complex entries in a truncated spectrum.
func (t *Transform2) SpectrumLen() int { return t.n * t.cols }

// Forward transforms the row-major real field src (length n²) into the
// truncated spectrum dst (length n·(n/2+1)). Unnormalized, matching the
// usual forward convention.
func (t *Transform2) Forward(src []float64, dst []complex128) {
	n, cols := t.n, t.cols

	for i := 0; i < n; i++ {
		t.row.Coefficients(dst[i*cols:(i+1)*cols], src[i*n:(i+1)*n])
	}

	for j := 0; j < cols; j++ {
		for i := 0; i < n; i++ {
			t.colIn[i] = dst[i*cols+j]
		}
		t.col.Coefficients(t.colOut, t.colIn)
		for i := 0; i < n; i++ {
			dst[i*cols+j] = t.colOut[i]
		}
	}
}

// Inverse transforms the truncated spectrum src back into the real field
// dst, applying the 1/n² normalization so that Inverse(Forward(x)) == x.
// src is not modified.
func (t *Transform2) Inverse(src []complex128, dst []float64) {
	n, cols := t.n, t.cols
	scale := 1.0 / float64(n)

	tmp := t.spec
	copy(tmp, src)

	for j := 0; j < cols; j++ {
		for i := 0; i < n; i++ {
			t.colIn[i] = tmp[i*cols+j]
		}
		t.col.Sequence(t.colOut, t.colIn)
		for i := 0; i < n; i++ {
			tmp[i*cols+j] = t.colOut[i] * complex(scale, 0)
		}
	}

	for i := 0; i < n; i++ {
		t.row.Sequence(dst[i*n:(i+1)*n], tmp[i*cols:(i+1)*cols])
		for k := i * n; k < (i+1)*n; k++ {
			dst[k] *= scale
		}
	}
}

// ForwardField is Forward reading from a square 2D field.
func (t *Transform2) ForwardField(f field.Field, dst []complex128) {
	t.Forward(f.Data, dst)
}

// InverseField is Inverse writing into a freshly allocated square field.
func (t *Transform2) InverseField(src []complex128) field.Field {
	f := field.New(t.n, t.n)
	t.Inverse(src, f.Data)
	return f
}
