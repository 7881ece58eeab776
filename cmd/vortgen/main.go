package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/vortgen/internal/config"
	"github.com/san-kum/vortgen/internal/dataset"
	"github.com/san-kum/vortgen/internal/grf"
	"github.com/san-kum/vortgen/internal/storage"
	"github.com/san-kum/vortgen/internal/viz"
)

var (
	dataDir    string
	gridSize   int
	batchSize  int
	count      int
	alpha      float64
	tau        float64
	sigma      float64
	viscosity  float64
	duration   float64
	dt         float64
	snapshots  int
	seed       uint64
	forcing    string
	configFile string
	preset     string

	// sample command
	dimension int

	// view command
	frameRate int
	chunk     int
	elem      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vortgen",
		Short: "navier-stokes training data generator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vortgen", "data directory")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a vorticity trajectory dataset",
		RunE:  runGenerate,
	}
	addGenerationFlags(generateCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "generate with a live terminal view",
		RunE:  runLive,
	}
	addGenerationFlags(liveCmd)

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "draw gaussian random fields and report statistics",
		RunE:  runSample,
	}
	sampleCmd.Flags().IntVar(&dimension, "dim", 2, "field dimension (1-3)")
	sampleCmd.Flags().IntVar(&gridSize, "size", 64, "grid size per axis")
	sampleCmd.Flags().IntVar(&batchSize, "batch", 4, "number of realizations")
	sampleCmd.Flags().Float64Var(&alpha, "alpha", 2.5, "spectral decay exponent")
	sampleCmd.Flags().Float64Var(&tau, "tau", 7.0, "inverse length scale")
	sampleCmd.Flags().Float64Var(&sigma, "sigma", 0, "amplitude (default derived from alpha and tau)")
	sampleCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and enstrophy history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "play back a stored vorticity trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate")
	viewCmd.Flags().IntVar(&chunk, "chunk", 0, "batch chunk index")
	viewCmd.Flags().IntVar(&elem, "elem", 0, "batch element index")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list generation presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "name\tgrid\tcount\talpha\ttau\tviscosity\tT\tforcing")
			for _, name := range config.ListPresets() {
				c := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%g\t%g\t%s\n",
					name, c.GridSize, c.Count, c.Alpha, c.Tau, c.Viscosity, c.Duration, c.Forcing)
			}
			w.Flush()
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(generateCmd, liveCmd, sampleCmd, listCmd, plotCmd, viewCmd, presetsCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&gridSize, "size", config.DefaultGridSize, "grid size per axis")
	cmd.Flags().IntVar(&batchSize, "batch", config.DefaultBatchSize, "batch size per chunk")
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "total number of trajectories")
	cmd.Flags().Float64Var(&alpha, "alpha", config.DefaultAlpha, "spectral decay exponent")
	cmd.Flags().Float64Var(&tau, "tau", config.DefaultTau, "inverse length scale")
	cmd.Flags().Float64Var(&sigma, "sigma", 0, "amplitude (0 = derived)")
	cmd.Flags().Float64Var(&viscosity, "viscosity", config.DefaultViscosity, "kinematic viscosity")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "integration time")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().IntVar(&snapshots, "snapshots", config.DefaultSnapshots, "snapshots per trajectory")
	cmd.Flags().Uint64Var(&seed, "seed", uint64(time.Now().UnixNano()), "base random seed")
	cmd.Flags().StringVar(&forcing, "forcing", "kolmogorov", "forcing field (kolmogorov|none)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig assembles the effective configuration: defaults, then preset,
// then config file, then any explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("size") {
		cfg.GridSize = gridSize
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize = batchSize
	}
	if cmd.Flags().Changed("count") {
		cfg.Count = count
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("tau") {
		cfg.Tau = tau
	}
	if cmd.Flags().Changed("sigma") {
		cfg.Sigma = sigma
	}
	if cmd.Flags().Changed("viscosity") {
		cfg.Viscosity = viscosity
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("snapshots") {
		cfg.Snapshots = snapshots
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("forcing") {
		cfg.Forcing = forcing
	}

	return cfg, cfg.Validate()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	gen, err := dataset.New(cfg, st)
	if err != nil {
		return err
	}

	fmt.Printf("generating %d trajectories on a %d² grid (Re≈%.0f)...\n",
		cfg.Count, cfg.GridSize, cfg.ReynoldsNumber())

	gen.OnProgress(func(p dataset.Progress) {
		if p.ChunkDone {
			fmt.Printf("chunk %d/%d done  t=%.3f  energy=%.6f  elapsed=%s\n",
				p.Chunk+1, p.Chunks, p.Time, p.Energy, p.Elapsed.Round(time.Second))
		}
	})

	start := time.Now()
	runID, err := gen.Run()
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Second))
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runID, err := viz.RunLive(cfg, st)
	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	return err
}

func runSample(cmd *cobra.Command, args []string) error {
	params := grf.Params{
		Dim:   dimension,
		Size:  gridSize,
		Alpha: alpha,
		Tau:   tau,
		Seed:  seed,
	}
	if cmd.Flags().Changed("sigma") {
		params.Sigma = &sigma
	}
	sampler, err := grf.New(params)
	if err != nil {
		return err
	}

	batch := sampler.Sample(batchSize)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "field\tmean\tstddev\tmin\tmax")
	for i, f := range batch {
		fmt.Fprintf(w, "%d\t%.3e\t%.6f\t%.6f\t%.6f\n",
			i, stat.Mean(f.Data, nil), stat.StdDev(f.Data, nil),
			floats.Min(f.Data), floats.Max(f.Data))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tgrid\tcount\tviscosity\tT\tsnapshots\ttimestamp")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%d\t%s\n",
			r.ID, r.GridSize, r.Count, r.Viscosity, r.Duration, r.Snapshots,
			r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	records, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no snapshots in run %s", args[0])
	}

	energy := make([]float64, len(records))
	enstrophy := make([]float64, len(records))
	for i, r := range records {
		energy[i] = r.Energy
		enstrophy[i] = r.Enstrophy
	}

	fmt.Println("kinetic energy:")
	fmt.Println(asciigraph.Plot(energy, asciigraph.Height(10), asciigraph.Width(70)))
	fmt.Println("\nenstrophy:")
	fmt.Println(asciigraph.Plot(enstrophy, asciigraph.Height(10), asciigraph.Width(70)))
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	fields, err := st.LoadVorticity(args[0], chunk, elem)
	if err != nil {
		return err
	}

	records, err := st.LoadChunkSnapshots(args[0], chunk)
	if err != nil {
		return err
	}
	times := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.Time
	}

	viz.NewFieldView(frameRate).Play(fields, times)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
