package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/vortgen/internal/config"
	"github.com/san-kum/vortgen/internal/field"
	"github.com/san-kum/vortgen/internal/metrics"
	"github.com/san-kum/vortgen/internal/solver"
)

// Store persists generated trajectories under a base directory. Each run
// gets its own directory with a metadata.json; each batch chunk gets a
// subdirectory holding raw little-endian float64 field files plus a
// snapshot index CSV.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	GridSize  int       `json:"grid_size"`
	BatchSize int       `json:"batch_size"`
	Count     int       `json:"count"`
	Alpha     float64   `json:"alpha"`
	Tau       float64   `json:"tau"`
	Sigma     float64   `json:"sigma"`
	Viscosity float64   `json:"viscosity"`
	Duration  float64   `json:"duration"`
	Dt        float64   `json:"dt"`
	Snapshots int       `json:"snapshots"`
	Seed      uint64    `json:"seed"`
	Forcing   string    `json:"forcing"`
	Reynolds  float64   `json:"reynolds"`
}

// SnapshotRecord is one row of a chunk's snapshot index.
type SnapshotRecord struct {
	Index     int     `csv:"index"`
	Time      float64 `csv:"time"`
	Energy    float64 `csv:"energy"`
	Enstrophy float64 `csv:"enstrophy"`
}

// CreateRun allocates a run directory named after the generation parameters
// and writes its metadata. The returned ID addresses the run in every other
// Store call.
func (s *Store) CreateRun(cfg *config.Config) (string, error) {
	runID := fmt.Sprintf("ns_a%g_t%g_v%g_s%d_%d",
		cfg.Alpha, cfg.Tau, cfg.Viscosity, cfg.GridSize, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		GridSize:  cfg.GridSize,
		BatchSize: cfg.BatchSize,
		Count:     cfg.Count,
		Alpha:     cfg.Alpha,
		Tau:       cfg.Tau,
		Sigma:     cfg.Sigma,
		Viscosity: cfg.Viscosity,
		Duration:  cfg.Duration,
		Dt:        cfg.Dt,
		Snapshots: cfg.Snapshots,
		Seed:      cfg.Seed,
		Forcing:   cfg.Forcing,
		Reynolds:  cfg.ReynoldsNumber(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return runID, nil
}

// SaveChunk writes one batch chunk: the initial vorticity batch and the full
// trajectory, plus a per-snapshot index with batch-averaged energy and
// enstrophy.
func (s *Store) SaveChunk(runID string, chunk int, w0 field.Batch, traj *solver.Trajectory) error {
	dir := filepath.Join(s.baseDir, runID, fmt.Sprintf("chunk_%03d", chunk))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := writeFields(filepath.Join(dir, "initial.f64"), w0); err != nil {
		return err
	}
	if err := writeTrajectory(filepath.Join(dir, "vorticity.f64"), traj.Vorticity); err != nil {
		return err
	}
	if err := writeTrajectory(filepath.Join(dir, "velocity_x.f64"), traj.U); err != nil {
		return err
	}
	if err := writeTrajectory(filepath.Join(dir, "velocity_y.f64"), traj.V); err != nil {
		return err
	}

	records := make([]*SnapshotRecord, len(traj.Times))
	for r := range traj.Times {
		var energy, enstrophy float64
		for b := range traj.Vorticity {
			energy += metrics.KineticEnergy(traj.U[b][r], traj.V[b][r])
			enstrophy += metrics.Enstrophy(traj.Vorticity[b][r])
		}
		nb := float64(len(traj.Vorticity))
		records[r] = &SnapshotRecord{
			Index:     r,
			Time:      traj.Times[r],
			Energy:    energy / nb,
			Enstrophy: enstrophy / nb,
		}
	}

	csvFile, err := os.Create(filepath.Join(dir, "snapshots.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	return gocsv.MarshalFile(&records, csvFile)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshots reads the snapshot index of every chunk of a run, in chunk
// order.
func (s *Store) LoadSnapshots(runID string) ([]SnapshotRecord, error) {
	chunks, err := s.chunkDirs(runID)
	if err != nil {
		return nil, err
	}

	all := make([]SnapshotRecord, 0)
	for _, dir := range chunks {
		f, err := os.Open(filepath.Join(dir, "snapshots.csv"))
		if err != nil {
			return nil, err
		}
		var records []*SnapshotRecord
		err = gocsv.UnmarshalFile(f, &records)
		f.Close()
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			all = append(all, *r)
		}
	}
	return all, nil
}

// LoadChunkSnapshots reads the snapshot index of a single chunk.
func (s *Store) LoadChunkSnapshots(runID string, chunk int) ([]SnapshotRecord, error) {
	dir := filepath.Join(s.baseDir, runID, fmt.Sprintf("chunk_%03d", chunk))
	f, err := os.Open(filepath.Join(dir, "snapshots.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*SnapshotRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, err
	}
	out := make([]SnapshotRecord, len(records))
	for i, r := range records {
		out[i] = *r
	}
	return out, nil
}

// LoadVorticity reads the recorded vorticity snapshots of one batch element
// from one chunk.
func (s *Store) LoadVorticity(runID string, chunk, elem int) ([]field.Field, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.baseDir, runID, fmt.Sprintf("chunk_%03d", chunk))
	return readTrajectoryElem(filepath.Join(dir, "vorticity.f64"), meta.GridSize, meta.Snapshots, elem)
}

func (s *Store) chunkDirs(runID string) ([]string, error) {
	runDir := filepath.Join(s.baseDir, runID)
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(runDir, e.Name()))
		}
	}
	return dirs, nil
}

func writeFields(path string, fields field.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, fld := range fields {
		if err := binary.Write(w, binary.LittleEndian, fld.Data); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeTrajectory(path string, batches []field.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, batch := range batches {
		for _, fld := range batch {
			if err := binary.Write(w, binary.LittleEndian, fld.Data); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func readTrajectoryElem(path string, n, snapshots, elem int) ([]field.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fieldBytes := int64(n * n * 8)
	if _, err := f.Seek(int64(elem)*int64(snapshots)*fieldBytes, 0); err != nil {
		return nil, err
	}

	r := bufio.NewReader(f)
	out := make([]field.Field, snapshots)
	for i := range out {
		fld := field.New(n, n)
		if err := binary.Read(r, binary.LittleEndian, fld.Data); err != nil {
			return nil, err
		}
		out[i] = fld
	}
	return out, nil
}
