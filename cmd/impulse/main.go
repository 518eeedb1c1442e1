package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/solverlab/impulse/internal/config"
	"github.com/solverlab/impulse/internal/graphics"
	"github.com/solverlab/impulse/internal/viz"
	"github.com/solverlab/impulse/internal/world"
)

var (
	dt         float64
	duration   float64
	iterations int
	tau        float64
	damping    float64
	links      int
	motorRate  float64
	configFile string
	preset     string
	frameRate  int
	csvPath    string
	jsonPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "impulse",
		Short: "joint constraint solver playground",
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and report convergence",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0.02, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 5.0, "duration")
	runCmd.Flags().IntVar(&iterations, "iterations", 4, "solver iterations per step")
	runCmd.Flags().Float64Var(&tau, "tau", 0.6, "baumgarte tau")
	runCmd.Flags().Float64Var(&damping, "damping", 0.99, "baumgarte damping")
	runCmd.Flags().IntVar(&links, "links", 4, "chain links")
	runCmd.Flags().Float64Var(&motorRate, "motor-rate", 4.0, "motor target rate")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&csvPath, "export-csv", "", "write per-step data to CSV")
	runCmd.Flags().StringVar(&jsonPath, "export-json", "", "write per-step data to JSON")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", 0.02, "timestep")
	liveCmd.Flags().IntVar(&iterations, "iterations", 4, "solver iterations per step")
	liveCmd.Flags().IntVar(&links, "links", 4, "chain links")
	liveCmd.Flags().Float64Var(&motorRate, "motor-rate", 4.0, "motor target rate")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range world.SceneNames() {
				fmt.Println(name)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across timesteps and iteration counts",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 5.0, "duration")
	benchCmd.Flags().IntVar(&links, "links", 8, "chain links")

	rootCmd.AddCommand(runCmd, liveCmd, scenesCmd, presetsCmd, configCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sceneConfig resolves preset, config file, and CLI flags into a config.
// Flags win over the config file, which wins over the preset.
func sceneConfig(cmd *cobra.Command, scene string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scene = scene

	if preset != "" {
		p := config.GetPreset(scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scene))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Scene = scene
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = iterations
	}
	if cmd.Flags().Changed("tau") {
		cfg.Tau = tau
	}
	if cmd.Flags().Changed("damping") {
		cfg.Damping = damping
	}
	if cmd.Flags().Changed("links") {
		cfg.SceneParams.Links = links
	}
	if cmd.Flags().Changed("motor-rate") {
		cfg.SceneParams.MotorRate = motorRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildWorld(cfg *config.Config) (*world.World, *graphics.TimeStore, error) {
	store := &graphics.TimeStore{}
	wcfg := world.Config{
		Timestep:   cfg.Dt,
		Iterations: cfg.Iterations,
		Tau:        cfg.Tau,
		Damping:    cfg.Damping,
	}
	wcfg.Gravity[0] = cfg.Gravity[0]
	wcfg.Gravity[1] = cfg.Gravity[1]
	wcfg.Gravity[2] = cfg.Gravity[2]

	params := world.SceneParams{
		Links:      cfg.SceneParams.Links,
		LimitMin:   cfg.SceneParams.LimitMin,
		LimitMax:   cfg.SceneParams.LimitMax,
		MotorRate:  cfg.SceneParams.MotorRate,
		MaxImpulse: cfg.SceneParams.MaxImpulse,
	}

	w, err := world.BuildScene(cfg.Scene, wcfg, params, store, 0)
	if err != nil {
		return nil, nil, err
	}
	return w, store, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := sceneConfig(cmd, args[0])
	if err != nil {
		return err
	}

	w, _, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s scene...\n", cfg.Scene)
	start := time.Now()

	result, err := w.Run(context.Background(), cfg.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	maxErr := 0.0
	for _, e := range result.MaxErrors {
		if e > maxErr {
			maxErr = e
		}
	}
	finalEnergy := 0.0
	if len(result.Energies) > 0 {
		finalEnergy = result.Energies[len(result.Energies)-1]
	}
	fmt.Print(viz.Summary(result.Steps, w.Elapsed(), maxErr, finalEnergy, result.Events))

	fmt.Println()
	fmt.Println(viz.PlotSeries("max constraint error", viz.Downsample(result.MaxErrors, 120), 80, 10))
	fmt.Println()
	fmt.Println(viz.PlotSeries("kinetic energy", viz.Downsample(result.Energies, 120), 80, 10))

	if csvPath != "" {
		if err := result.ExportCSV(csvPath); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := result.ExportJSON(jsonPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := sceneConfig(cmd, args[0])
	if err != nil {
		return err
	}

	w, store, err := buildWorld(cfg)
	if err != nil {
		return err
	}

	return viz.RunLive(w, store, cfg.Scene, frameRate)
}

func benchScene(cmd *cobra.Command, args []string) error {
	scene := args[0]

	dts := []float64{0.005, 0.01, 0.02}
	iterCounts := []int{2, 4, 8}

	fmt.Printf("benchmarking %s\n\n", scene)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DT\tITER\tSTEPS\tTIME\tSTEPS/SEC\tMAX ERROR")

	for _, benchDt := range dts {
		for _, iters := range iterCounts {
			cfg := config.DefaultConfig()
			cfg.Scene = scene
			cfg.Dt = benchDt
			cfg.Iterations = iters
			cfg.SceneParams.Links = links

			w, _, err := buildWorld(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := w.Run(context.Background(), duration)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			maxErr := 0.0
			for _, e := range result.MaxErrors {
				if e > maxErr {
					maxErr = e
				}
			}

			fmt.Fprintf(tw, "%.4fs\t%d\t%d\t%v\t%.0f\t%.2e\n",
				benchDt, iters, result.Steps, elapsed,
				float64(result.Steps)/elapsed.Seconds(), maxErr)
		}
	}

	return tw.Flush()
}
