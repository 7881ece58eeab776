package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/vortgen/internal/field"
	"github.com/san-kum/vortgen/internal/parallel"
	"github.com/san-kum/vortgen/internal/spectral"
)

// DefaultDt matches the reference time step for vorticity transport.
const DefaultDt = 1e-4

var ErrRecordingSchedule = errors.New("solver: snapshot count exceeds step count")

// Params controls one integration run. Dt == 0 selects DefaultDt.
type Params struct {
	Viscosity float64
	T         float64
	Dt        float64
	Snapshots int
}

func (p Params) withDefaults() Params {
	if p.Dt == 0 {
		p.Dt = DefaultDt
	}
	return p
}

func (p Params) validate() error {
	if p.Viscosity <= 0 {
		return fmt.Errorf("solver: viscosity must be positive, got %g", p.Viscosity)
	}
	if p.T <= 0 {
		return fmt.Errorf("solver: duration must be positive, got %g", p.T)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("solver: dt must be positive, got %g", p.Dt)
	}
	if p.Snapshots < 1 {
		return fmt.Errorf("solver: snapshots must be at least 1, got %d", p.Snapshots)
	}
	return nil
}

// Steps returns the number of time steps implied by the parameters.
func (p Params) Steps() int {
	p = p.withDefaults()
	return int(math.Ceil(p.T / p.Dt))
}

// Trajectory is the recorded output of one run: Snapshots entries per batch
// element, each a (vorticity, u, v) triple at the matching entry of Times.
// It is created and exclusively owned by the run that produced it and never
// mutated after the run returns.
type Trajectory struct {
	Times     []float64
	Vorticity []field.Batch // [batch][snapshot]
	U         []field.Batch
	V         []field.Batch
}

// Observer is notified after each recording event. step is the 1-based time
// step index, recorded the number of snapshots stored so far.
type Observer interface {
	OnRecord(step int, t float64, recorded, total int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, t float64, recorded, total int)

func (f ObserverFunc) OnRecord(step int, t float64, recorded, total int) {
	f(step, t, recorded, total)
}

// Solver advances batches of 2D vorticity fields under the vorticity
// formulation of incompressible Navier-Stokes on a periodic grid: spectral
// space discretization, 2/3-rule dealiasing, explicit advection and
// Crank-Nicolson viscosity. Time stepping is sequential; all per-step work
// is parallel across the batch. A Solver holds no state between runs.
type Solver struct {
	observers []Observer
}

func New() *Solver { return &Solver{} }

func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// workspace holds the per-batch-element scratch arrays for one run.
type workspace struct {
	tr         *spectral.Transform2
	wh, fh, nh []complex128
	psiBuf     []complex128
	u, v       []float64
	wx, wy     []float64
	adv        []float64
}

func newWorkspace(n int) *workspace {
	tr := spectral.NewTransform2(n)
	sl := tr.SpectrumLen()
	return &workspace{
		tr:     tr,
		wh:     make([]complex128, sl),
		fh:     make([]complex128, sl),
		nh:     make([]complex128, sl),
		psiBuf: make([]complex128, sl),
		u:      make([]float64, n*n),
		v:      make([]float64, n*n),
		wx:     make([]float64, n*n),
		wy:     make([]float64, n*n),
		adv:    make([]float64, n*n),
	}
}

// Run integrates the batch w0 forward in time under the forcing f. f must
// hold either one field (broadcast across the batch) or one field per batch
// element; every field must match w0's grid. The run is deterministic and
// has no side effects beyond the returned trajectory. Numerical instability
// from an aggressive dt/viscosity/resolution combination is not detected;
// parameters are the caller's responsibility.
func (s *Solver) Run(w0 field.Batch, f field.Batch, p Params) (*Trajectory, error) {
	p = p.withDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(w0) == 0 {
		return nil, errors.New("solver: empty vorticity batch")
	}
	if !w0[0].Square2D() {
		return nil, field.ShapeError{Op: "solver", Want: []int{-1, -1}, Got: w0[0].Shape}
	}
	n := w0[0].Shape[0]
	for _, w := range w0 {
		if !w.SameShape(w0[0]) {
			return nil, field.ShapeError{Op: "solver", Want: w0[0].Shape, Got: w.Shape}
		}
	}
	if len(f) != 1 && len(f) != len(w0) {
		return nil, field.ShapeError{Op: "solver: forcing batch", Want: []int{1}, Got: []int{len(f)}}
	}
	for _, ff := range f {
		if !ff.SameShape(w0[0]) {
			return nil, field.ShapeError{Op: "solver: forcing", Want: w0[0].Shape, Got: ff.Shape}
		}
	}

	steps := p.Steps()
	interval := steps / p.Snapshots
	if interval < 1 {
		return nil, fmt.Errorf("%w: %d snapshots over %d steps", ErrRecordingSchedule, p.Snapshots, steps)
	}

	grid := spectral.NewGrid(n)
	batch := len(w0)
	dt := p.Dt
	visc := p.Viscosity

	ws := make([]*workspace, batch)
	parallel.Each(batch, func(b int) {
		w := newWorkspace(n)
		w.tr.Forward(w0[b].Data, w.wh)
		fi := 0
		if len(f) == len(w0) {
			fi = b
		}
		w.tr.Forward(f[fi].Data, w.fh)
		ws[b] = w
	})

	traj := &Trajectory{
		Times:     make([]float64, 0, p.Snapshots),
		Vorticity: make([]field.Batch, batch),
		U:         make([]field.Batch, batch),
		V:         make([]field.Batch, batch),
	}
	for b := range traj.Vorticity {
		traj.Vorticity[b] = make(field.Batch, 0, p.Snapshots)
		traj.U[b] = make(field.Batch, 0, p.Snapshots)
		traj.V[b] = make(field.Batch, 0, p.Snapshots)
	}

	t := 0.0
	recorded := 0

	for j := 0; j < steps; j++ {
		record := (j+1)%interval == 0 && recorded < p.Snapshots
		t += dt

		parallel.Each(batch, func(b int) {
			stepOnce(ws[b], grid, dt, visc)
			if record {
				w := ws[b]
				traj.Vorticity[b] = append(traj.Vorticity[b], w.tr.InverseField(w.wh))
				u := field.New(n, n)
				copy(u.Data, w.u)
				v := field.New(n, n)
				copy(v.Data, w.v)
				traj.U[b] = append(traj.U[b], u)
				traj.V[b] = append(traj.V[b], v)
			}
		})

		if record {
			traj.Times = append(traj.Times, t)
			recorded++
			for _, o := range s.observers {
				o.OnRecord(j+1, t, recorded, p.Snapshots)
			}
		}
	}

	return traj, nil
}

// stepOnce applies one time step to a single batch element, leaving the
// velocity computed from the pre-update vorticity in ws.u and ws.v so a
// recording pass can reuse it.
func stepOnce(ws *workspace, g *spectral.Grid, dt, visc float64) {
	n := len(ws.wh)

	// Stream function: psi_h = w_h / L.
	for i := 0; i < n; i++ {
		ws.psiBuf[i] = ws.wh[i] / complex(g.Lap[i], 0)
	}

	// u = F⁻¹(i·2π·ky·psi_h), v = F⁻¹(−i·2π·kx·psi_h).
	for i := 0; i < n; i++ {
		ws.nh[i] = complex(0, 2*math.Pi*g.KY[i]) * ws.psiBuf[i]
	}
	ws.tr.Inverse(ws.nh, ws.u)
	for i := 0; i < n; i++ {
		ws.nh[i] = complex(0, -2*math.Pi*g.KX[i]) * ws.psiBuf[i]
	}
	ws.tr.Inverse(ws.nh, ws.v)

	// Vorticity gradient in physical space.
	for i := 0; i < n; i++ {
		ws.nh[i] = complex(0, 2*math.Pi*g.KX[i]) * ws.wh[i]
	}
	ws.tr.Inverse(ws.nh, ws.wx)
	for i := 0; i < n; i++ {
		ws.nh[i] = complex(0, 2*math.Pi*g.KY[i]) * ws.wh[i]
	}
	ws.tr.Inverse(ws.nh, ws.wy)

	// Nonlinear term u·∇w as a pointwise product, then dealias in
	// frequency space.
	for i := range ws.adv {
		ws.adv[i] = ws.u[i]*ws.wx[i] + ws.v[i]*ws.wy[i]
	}
	ws.tr.Forward(ws.adv, ws.nh)
	for i := 0; i < n; i++ {
		ws.nh[i] *= complex(g.Dealias[i], 0)
	}

	// Explicit advection and forcing, Crank-Nicolson viscosity.
	for i := 0; i < n; i++ {
		num := -complex(dt, 0)*ws.nh[i] + complex(dt, 0)*ws.fh[i] +
			complex(1-0.5*dt*visc*g.Lap[i], 0)*ws.wh[i]
		ws.wh[i] = num / complex(1+0.5*dt*visc*g.Lap[i], 0)
	}
}
