package grf

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{"dim too low", Params{Dim: 0, Size: 8, Alpha: 2, Tau: 3}, ErrDimension},
		{"dim too high", Params{Dim: 4, Size: 8, Alpha: 2, Tau: 3}, ErrDimension},
		{"bad boundary", Params{Dim: 2, Size: 8, Alpha: 2, Tau: 3, Boundary: "dirichlet"}, ErrBoundary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	bad := []Params{
		{Dim: 2, Size: 0, Alpha: 2, Tau: 3},
		{Dim: 2, Size: 8, Alpha: 0, Tau: 3},
		{Dim: 2, Size: 8, Alpha: 2, Tau: -1},
	}
	for _, p := range bad {
		if _, err := New(p); err == nil {
			t.Errorf("expected error for params %+v", p)
		}
	}

	if _, err := New(Params{Dim: 2, Size: 8, Alpha: 2, Tau: 3, Boundary: "periodic"}); err != nil {
		t.Errorf("explicit periodic boundary should be accepted: %v", err)
	}
}

func TestDefaultSigma(t *testing.T) {
	s, err := New(Params{Dim: 2, Size: 8, Alpha: 2, Tau: 3})
	if err != nil {
		t.Fatal(err)
	}
	// sigma = tau^(0.5·(2·alpha − d)) = 3^1 = 3
	if math.Abs(s.sigma-3.0) > 1e-12 {
		t.Errorf("expected default sigma 3, got %g", s.sigma)
	}

	explicit := 1.5
	s, err = New(Params{Dim: 2, Size: 8, Alpha: 2, Tau: 3, Sigma: &explicit})
	if err != nil {
		t.Fatal(err)
	}
	if s.sigma != 1.5 {
		t.Errorf("explicit sigma was overridden: %g", s.sigma)
	}
}

func TestExplicitSigmaValidated(t *testing.T) {
	for _, bad := range []float64{0, -1} {
		sigma := bad
		if _, err := New(Params{Dim: 2, Size: 8, Alpha: 2, Tau: 3, Sigma: &sigma}); err == nil {
			t.Errorf("expected error for sigma %g", bad)
		}
	}
}

func TestScaleTable(t *testing.T) {
	s, err := New(Params{Dim: 1, Size: 16, Alpha: 1.5, Tau: 2})
	if err != nil {
		t.Fatal(err)
	}

	eig := s.SqrtEig()
	if eig[0] != 0 {
		t.Errorf("DC entry should be exactly 0, got %g", eig[0])
	}

	for i, v := range eig {
		if v < 0 {
			t.Errorf("negative scale at bin %d: %g", i, v)
		}
	}

	// Strictly decreasing in |k|: bins 1..7 carry wavenumbers 1..7.
	for k := 1; k < 7; k++ {
		if eig[k+1] >= eig[k] {
			t.Errorf("scale not decreasing between |k|=%d and %d: %g vs %g",
				k, k+1, eig[k], eig[k+1])
		}
	}

	// Wraparound symmetry: bin n-k carries the same |k| as bin k.
	for k := 1; k < 8; k++ {
		if math.Abs(eig[k]-eig[16-k]) > 1e-12 {
			t.Errorf("asymmetric scale at |k|=%d: %g vs %g", k, eig[k], eig[16-k])
		}
	}
}

func TestSampleShapeAndMean(t *testing.T) {
	s, err := New(Params{Dim: 2, Size: 64, Alpha: 1.5, Tau: 14, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}

	batch := s.Sample(1)
	if len(batch) != 1 {
		t.Fatalf("expected 1 field, got %d", len(batch))
	}

	f := batch[0]
	if f.Dim() != 2 || f.Shape[0] != 64 || f.Shape[1] != 64 {
		t.Fatalf("expected shape [64 64], got %v", f.Shape)
	}
	if !f.IsFinite() {
		t.Fatal("sampled field contains NaN or Inf")
	}
	if m := math.Abs(f.Mean()); m > 1e-6 {
		t.Errorf("spatial mean should vanish, got %g", m)
	}
}

func TestSampleSpatialCoherence(t *testing.T) {
	// The covariance decays in |k|, so realizations are smooth: adjacent
	// grid points must be strongly correlated along both axes. A readback
	// that misorders the inverse transform output would decorrelate
	// neighbors and push these ratios toward 2.
	s, err := New(Params{Dim: 2, Size: 64, Alpha: 2.5, Tau: 7, Seed: 9})
	if err != nil {
		t.Fatal(err)
	}
	f := s.Sample(1)[0]
	n := f.Shape[0]

	variance := 0.0
	for _, v := range f.Data {
		variance += v * v
	}
	variance /= float64(len(f.Data))
	if variance == 0 {
		t.Fatal("degenerate sample")
	}

	var rowDiff, colDiff float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dr := f.At2(i, j) - f.At2((i+1)%n, j)
			dc := f.At2(i, j) - f.At2(i, (j+1)%n)
			rowDiff += dr * dr
			colDiff += dc * dc
		}
	}
	rowDiff /= float64(n * n)
	colDiff /= float64(n * n)

	if rowDiff/variance > 0.2 {
		t.Errorf("neighbors decorrelated along rows: ratio %g", rowDiff/variance)
	}
	if colDiff/variance > 0.2 {
		t.Errorf("neighbors decorrelated along columns: ratio %g", colDiff/variance)
	}
}

func TestSampleDimensions(t *testing.T) {
	tests := []struct {
		dim  int
		size int
		want []int
	}{
		{1, 32, []int{32}},
		{2, 16, []int{16, 16}},
		{3, 8, []int{8, 8, 8}},
	}

	for _, tt := range tests {
		s, err := New(Params{Dim: tt.dim, Size: tt.size, Alpha: 2, Tau: 3, Seed: 7})
		if err != nil {
			t.Fatal(err)
		}
		batch := s.Sample(2)
		if len(batch) != 2 {
			t.Fatalf("dim %d: expected 2 fields, got %d", tt.dim, len(batch))
		}
		for _, f := range batch {
			if len(f.Shape) != len(tt.want) {
				t.Fatalf("dim %d: shape %v, want %v", tt.dim, f.Shape, tt.want)
			}
			for i := range tt.want {
				if f.Shape[i] != tt.want[i] {
					t.Fatalf("dim %d: shape %v, want %v", tt.dim, f.Shape, tt.want)
				}
			}
			if m := math.Abs(f.Mean()); m > 1e-6 {
				t.Errorf("dim %d: spatial mean %g", tt.dim, m)
			}
		}
	}
}

func TestSampleDeterminism(t *testing.T) {
	p := Params{Dim: 2, Size: 32, Alpha: 2.5, Tau: 7, Seed: 42}

	s1, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	b1 := s1.Sample(3)
	b2 := s2.Sample(3)

	for b := range b1 {
		for i := range b1[b].Data {
			if b1[b].Data[i] != b2[b].Data[i] {
				t.Fatalf("field %d diverges at index %d", b, i)
			}
		}
	}

	// Reseed replays the stream.
	s1.Reseed(42)
	b3 := s1.Sample(3)
	for b := range b1 {
		for i := range b1[b].Data {
			if b1[b].Data[i] != b3[b].Data[i] {
				t.Fatalf("reseeded field %d diverges at index %d", b, i)
			}
		}
	}
}

func TestSampleEmptyBatch(t *testing.T) {
	s, err := New(Params{Dim: 1, Size: 8, Alpha: 2, Tau: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Sample(0); got != nil {
		t.Errorf("expected nil batch, got %d fields", len(got))
	}
}
