package solver

import (
	"testing"

	"github.com/san-kum/vortgen/internal/spectral"
)

func benchWorkspace(n int) (*workspace, *spectral.Grid) {
	ws := newWorkspace(n)
	g := spectral.NewGrid(n)
	ws.tr.ForwardField(twoModeField(n), ws.wh)
	ws.tr.ForwardField(KolmogorovForcing(n), ws.fh)
	return ws, g
}

func BenchmarkStep64(b *testing.B) {
	ws, g := benchWorkspace(64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stepOnce(ws, g, 1e-4, 1e-3)
	}
}

func BenchmarkStep256(b *testing.B) {
	ws, g := benchWorkspace(256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stepOnce(ws, g, 1e-4, 1e-3)
	}
}

func BenchmarkRunBatch8(b *testing.B) {
	n := 64
	w0 := zeroBatch(n, 8)
	for i := range w0 {
		w0[i] = twoModeField(n)
	}
	f := zeroBatch(n, 1)
	f[0] = KolmogorovForcing(n)
	p := Params{Viscosity: 1e-3, T: 1e-3, Dt: 1e-4, Snapshots: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New().Run(w0, f, p); err != nil {
			b.Fatal(err)
		}
	}
}
