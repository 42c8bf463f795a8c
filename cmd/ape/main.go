package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/san-kum/ape"
	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/jobs"
	"github.com/san-kum/ape/internal/sim"
	"github.com/san-kum/ape/internal/storage"
	"github.com/san-kum/ape/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float32
	steps      int
	bodies     int
	gravityY   float32
	plot       bool
	save       bool
	validate   bool
	// bench
	worlds      int
	workers     int
	profileMode string
	logProd     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ape",
		Short: "rigid body simulation core playground",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ape", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and print telemetry",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the tracked body height")
	runCmd.Flags().BoolVar(&save, "save", false, "persist the run under the data directory")
	runCmd.Flags().BoolVar(&validate, "validate", false, "stop when body state goes NaN/Inf")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "watch a scenario live in the terminal",
		RunE:  watchScenario,
	}
	addScenarioFlags(watchCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run world replicas in parallel and time them",
		RunE:  runBench,
	}
	addScenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&worlds, "worlds", 8, "number of world replicas")
	benchCmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "worker goroutines")
	benchCmd.Flags().StringVar(&profileMode, "profile", "", "write a profile (cpu|mem)")
	benchCmd.Flags().BoolVar(&logProd, "log-prod", false, "production log encoding")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the engine version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ape", ape.Version())
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, benchCmd, listCmd, showCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named preset scenario")
	cmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps to run")
	cmd.Flags().IntVar(&bodies, "bodies", config.DefaultCount, "bodies to spawn")
	cmd.Flags().Float32Var(&gravityY, "gravity-y", config.DefaultGravityY, "vertical gravity")
}

// resolveScenario builds the scenario from, in priority order, an explicit
// config file, a named preset, or the flag values over the defaults.
func resolveScenario(cmd *cobra.Command) (*config.Scenario, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		scn := config.Preset(preset)
		if scn == nil {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
		return scn, nil
	}

	scn := config.Default()
	if cmd.Flags().Changed("dt") {
		scn.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		scn.Steps = steps
	}
	if cmd.Flags().Changed("bodies") {
		scn.Spawn.Count = bodies
	}
	if cmd.Flags().Changed("gravity-y") {
		scn.Gravity.Y = gravityY
	}
	return scn, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd)
	if err != nil {
		return err
	}

	runner, err := sim.Build(scn)
	if err != nil {
		return err
	}
	runner.ValidateState = validate

	result, err := runner.Run(context.Background(), scn.Dt, scn.Steps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "scenario\t%s\n", scn.Name)
	fmt.Fprintf(w, "bodies\t%d\n", runner.World.Len())
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "final pairs\t%d\n", result.FinalPairs())
	fmt.Fprintf(w, "max speed\t%.3f\n", result.MaxSpeed)
	if n := len(result.Tracked); n > 0 {
		p := result.Tracked[n-1]
		fmt.Fprintf(w, "tracked body\t(%.3f, %.3f, %.3f)\n", p.X, p.Y, p.Z)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "error\t%v\n", e)
	}
	w.Flush()

	if plot && len(result.Tracked) > 0 {
		heights := make([]float64, len(result.Tracked))
		for i, p := range result.Tracked {
			heights[i] = float64(p.Y)
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(heights,
			asciigraph.Height(12),
			asciigraph.Caption("tracked body height")))
	}

	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(scn, result)
		if err != nil {
			return err
		}
		fmt.Println("saved", runID)
	}
	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	scn, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	model, err := tui.NewModel(scn)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runBench(cmd *cobra.Command, args []string) error {
	if worlds < 1 {
		return fmt.Errorf("need at least one world, got %d", worlds)
	}
	scn, err := resolveScenario(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(logProd)
	if err != nil {
		return err
	}
	defer log.Sync()

	switch profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		return fmt.Errorf("unknown profile mode %q", profileMode)
	}

	pool := jobs.NewPool(workers, log)
	defer pool.Close()

	log.Info("bench starting",
		zap.String("scenario", scn.Name),
		zap.Int("worlds", worlds),
		zap.Int("workers", workers),
		zap.Int("steps", scn.Steps))

	start := time.Now()
	results, err := sim.NewEnsemble(scn, worlds).Run(context.Background(), pool)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	log.Info("bench complete",
		zap.Duration("elapsed", elapsed),
		zap.Duration("per_world", elapsed/time.Duration(worlds)),
		zap.Int("final_pairs", results[0].FinalPairs()),
		zap.Bool("deterministic", sim.Deterministic(results)))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTEPS\tPAIRS\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Scenario.Name, run.StepsTaken, run.FinalPairs,
			run.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "when\t%s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "scenario\t%s\n", meta.Scenario.Name)
	fmt.Fprintf(w, "bodies\t%d\n", meta.Scenario.Spawn.Count)
	fmt.Fprintf(w, "dt\t%.5f\n", meta.Scenario.Dt)
	fmt.Fprintf(w, "steps taken\t%d\n", meta.StepsTaken)
	fmt.Fprintf(w, "final pairs\t%d\n", meta.FinalPairs)
	fmt.Fprintf(w, "max speed\t%.3f\n", meta.MaxSpeed)
	return w.Flush()
}

func newLogger(prod bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if prod {
		cfg = zap.NewProductionConfig()
	}
	return cfg.Build()
}
