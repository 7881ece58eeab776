package dataset

import (
	"errors"
	"testing"

	"github.com/san-kum/vortgen/internal/config"
	"github.com/san-kum/vortgen/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.GridSize = 16
	cfg.BatchSize = 2
	cfg.Count = 3
	cfg.Duration = 0.002
	cfg.Dt = 1e-3
	cfg.Snapshots = 2
	cfg.Seed = 5
	return cfg
}

func TestChunks(t *testing.T) {
	tests := []struct {
		count, batch, want int
	}{
		{10, 10, 1},
		{20, 10, 2},
		{21, 10, 3},
		{3, 2, 2},
		{1, 100, 1},
	}

	for _, tt := range tests {
		cfg := testConfig()
		cfg.Count = tt.count
		cfg.BatchSize = tt.batch
		gen, err := New(cfg, storage.New(t.TempDir()))
		if err != nil {
			t.Fatal(err)
		}
		if got := gen.Chunks(); got != tt.want {
			t.Errorf("count=%d batch=%d: chunks=%d, want %d", tt.count, tt.batch, got, tt.want)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.GridSize = 0
	if _, err := New(cfg, storage.New(t.TempDir())); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestRun(t *testing.T) {
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	gen, err := New(cfg, store)
	if err != nil {
		t.Fatal(err)
	}

	var stepEvents, chunkEvents int
	gen.OnProgress(func(p Progress) {
		if p.ChunkDone {
			chunkEvents++
			if p.Energy <= 0 {
				t.Errorf("chunk %d: non-positive energy %g", p.Chunk, p.Energy)
			}
		} else {
			stepEvents++
		}
	})

	runID, err := gen.Run()
	if err != nil {
		t.Fatal(err)
	}

	// Count=3 with BatchSize=2 splits into a chunk of 2 and a chunk of 1.
	if chunkEvents != 2 {
		t.Errorf("expected 2 chunk events, got %d", chunkEvents)
	}
	if stepEvents != 2*cfg.Snapshots {
		t.Errorf("expected %d step events, got %d", 2*cfg.Snapshots, stepEvents)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Count != 3 || meta.GridSize != 16 {
		t.Errorf("unexpected metadata %+v", meta)
	}

	records, err := store.LoadSnapshots(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2*cfg.Snapshots {
		t.Errorf("expected %d snapshot records, got %d", 2*cfg.Snapshots, len(records))
	}

	// The second chunk holds a single batch element.
	fields, err := store.LoadVorticity(runID, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != cfg.Snapshots {
		t.Fatalf("expected %d snapshots, got %d", cfg.Snapshots, len(fields))
	}
	for _, f := range fields {
		if !f.IsFinite() {
			t.Fatal("stored vorticity is not finite")
		}
	}
}

func TestRunDeterminism(t *testing.T) {
	run := func() []float64 {
		store := storage.New(t.TempDir())
		if err := store.Init(); err != nil {
			t.Fatal(err)
		}
		gen, err := New(testConfig(), store)
		if err != nil {
			t.Fatal(err)
		}
		runID, err := gen.Run()
		if err != nil {
			t.Fatal(err)
		}
		fields, err := store.LoadVorticity(runID, 0, 1)
		if err != nil {
			t.Fatal(err)
		}
		return fields[len(fields)-1].Data
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs diverge at index %d: %g != %g", i, a[i], b[i])
		}
	}
}

func TestStop(t *testing.T) {
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	gen, err := New(testConfig(), store)
	if err != nil {
		t.Fatal(err)
	}
	gen.Stop()

	runID, err := gen.Run()
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if runID == "" {
		t.Error("expected a run ID even when stopped")
	}

	// Nothing was integrated, so no snapshot records exist.
	records, err := store.LoadSnapshots(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
