package dataset

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/san-kum/vortgen/internal/config"
	"github.com/san-kum/vortgen/internal/field"
	"github.com/san-kum/vortgen/internal/grf"
	"github.com/san-kum/vortgen/internal/metrics"
	"github.com/san-kum/vortgen/internal/solver"
	"github.com/san-kum/vortgen/internal/storage"
)

// Progress describes the state of a generation run. Step-level events carry
// the solver's recording position; chunk-level events additionally carry the
// batch-averaged kinetic energy of the final snapshot.
type Progress struct {
	Chunk, Chunks       int
	Step                int
	Time                float64
	Recorded, Snapshots int
	Energy              float64
	ChunkDone           bool
	Elapsed             time.Duration
}

// Generator drives the full synthesis workflow: sample initial vorticity,
// integrate, persist, repeat per batch chunk with deterministic per-chunk
// seeding.
type Generator struct {
	cfg     *config.Config
	store   *storage.Store
	sampler *grf.Sampler
	solver  *solver.Solver
	forcing field.Field

	progress func(Progress)
	curChunk int
	chunks   int
	started  time.Time
	stopped  atomic.Bool
}

// ErrStopped is returned by Run when Stop was requested; chunks written
// before the stop remain valid.
var ErrStopped = errors.New("dataset: generation stopped")

func New(cfg *config.Config, store *storage.Store) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := grf.Params{
		Dim:   2,
		Size:  cfg.GridSize,
		Alpha: cfg.Alpha,
		Tau:   cfg.Tau,
		Seed:  cfg.Seed,
	}
	if cfg.Sigma != 0 {
		params.Sigma = &cfg.Sigma
	}
	sampler, err := grf.New(params)
	if err != nil {
		return nil, err
	}

	forcing := solver.ZeroForcing(cfg.GridSize)
	if cfg.Forcing == "" || cfg.Forcing == "kolmogorov" {
		forcing = solver.KolmogorovForcing(cfg.GridSize)
	}

	g := &Generator{
		cfg:     cfg,
		store:   store,
		sampler: sampler,
		solver:  solver.New(),
		forcing: forcing,
	}
	g.solver.AddObserver(solver.ObserverFunc(func(step int, t float64, recorded, total int) {
		g.emit(Progress{
			Chunk: g.curChunk, Chunks: g.chunks,
			Step: step, Time: t,
			Recorded: recorded, Snapshots: total,
			Elapsed: time.Since(g.started),
		})
	}))
	return g, nil
}

// OnProgress registers a callback for progress events. The callback runs on
// the generating goroutine between solver steps.
func (g *Generator) OnProgress(fn func(Progress)) { g.progress = fn }

// Stop requests that Run return after the chunk currently being integrated.
// The solver itself is not interruptible; a chunk always completes or fails
// whole.
func (g *Generator) Stop() { g.stopped.Store(true) }

// Chunks returns the number of batch chunks the configured count implies.
func (g *Generator) Chunks() int {
	return (g.cfg.Count + g.cfg.BatchSize - 1) / g.cfg.BatchSize
}

// Run executes the whole generation workflow and returns the run ID under
// which everything was stored.
func (g *Generator) Run() (string, error) {
	runID, err := g.store.CreateRun(g.cfg)
	if err != nil {
		return "", err
	}

	g.chunks = g.Chunks()
	g.started = time.Now()
	remaining := g.cfg.Count

	params := solver.Params{
		Viscosity: g.cfg.Viscosity,
		T:         g.cfg.Duration,
		Dt:        g.cfg.Dt,
		Snapshots: g.cfg.Snapshots,
	}

	for chunk := 0; chunk < g.chunks; chunk++ {
		if g.stopped.Load() {
			return runID, ErrStopped
		}
		g.curChunk = chunk

		size := g.cfg.BatchSize
		if size > remaining {
			size = remaining
		}
		remaining -= size

		// Per-chunk reseeding keeps every chunk reproducible on its own.
		g.sampler.Reseed(g.cfg.Seed + uint64(chunk))
		w0 := g.sampler.Sample(size)

		traj, err := g.solver.Run(w0, field.Batch{g.forcing}, params)
		if err != nil {
			return runID, fmt.Errorf("chunk %d: %w", chunk, err)
		}

		if err := g.store.SaveChunk(runID, chunk, w0, traj); err != nil {
			return runID, fmt.Errorf("chunk %d: %w", chunk, err)
		}

		last := len(traj.Times) - 1
		energy := 0.0
		for b := range traj.U {
			energy += metrics.KineticEnergy(traj.U[b][last], traj.V[b][last])
		}
		energy /= float64(len(traj.U))

		g.emit(Progress{
			Chunk: chunk, Chunks: g.chunks,
			Recorded: len(traj.Times), Snapshots: g.cfg.Snapshots,
			Time: traj.Times[last], Energy: energy,
			ChunkDone: true, Elapsed: time.Since(g.started),
		})
	}

	return runID, nil
}

func (g *Generator) emit(p Progress) {
	if g.progress != nil {
		g.progress(p)
	}
}
