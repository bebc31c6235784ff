package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"

	"github.com/san-kum/fdpde/internal/config"
	"github.com/san-kum/fdpde/internal/experiment"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/solver"
	"github.com/san-kum/fdpde/internal/storage"
)

var (
	configFile    string
	preset        string
	theta         float64
	timeNodes     int
	spaceNodes    int
	retainHistory bool
	rannacher     int
	params        []string
	saveConfig    string
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "solve a problem and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name, or problem/preset")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "implicitness weight in [0, 1]")
	cmd.Flags().IntVar(&timeNodes, "tnodes", 0, "override the number of time nodes")
	cmd.Flags().IntVar(&spaceNodes, "xnodes", 0, "override the number of space nodes")
	cmd.Flags().BoolVar(&retainHistory, "history", true, "keep every time layer")
	cmd.Flags().IntVar(&rannacher, "rannacher", 0, "fully implicit half-steps over the first N intervals")
	cmd.Flags().StringSliceVar(&params, "param", nil, "problem parameter key=value (repeatable)")
	cmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to this path")
	return cmd
}

// buildConfig layers preset, config file, positional problem and changed
// flags, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.Lookup(preset)
		if p == nil && len(args) > 0 {
			p = config.GetPreset(args[0], preset)
		}
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.AllPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if len(args) > 0 {
		cfg.Problem = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("history") {
		cfg.RetainHistory = retainHistory
	}
	if flags.Changed("rannacher") {
		cfg.Correction = solver.Rannacher(rannacher)
	}
	kv, err := parseParams(params)
	if err != nil {
		return nil, err
	}
	for k, v := range kv {
		cfg.SetParam(k, v)
	}

	if timeNodes == 0 && spaceNodes == 0 {
		return cfg, nil
	}
	resolved, _, err := experiment.Resolve(experiment.NewRegistry(), cfg)
	if err != nil {
		return nil, err
	}
	if err := setPoints(&resolved.TimeMesh, timeNodes); err != nil {
		return nil, fmt.Errorf("--tnodes: %w", err)
	}
	if err := setPoints(&resolved.SpaceMesh, spaceNodes); err != nil {
		return nil, fmt.Errorf("--xnodes: %w", err)
	}
	return resolved, nil
}

func setPoints(s *mesh.Spec, n int) error {
	if n == 0 {
		return nil
	}
	if s.Kind == mesh.KindPoints {
		return fmt.Errorf("explicit %d-node mesh cannot be resized", len(s.Nodes))
	}
	s.Points = n
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("solving %s...\n", cfg.Problem)
	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	effective := exp.Config()
	surface := storage.FromResults(out.Results)
	runID, err := st.Save(effective, surface, out.Results.NumTimeNodes(), out.Diagnostics, out.Elapsed)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, effective); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", out.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("grid: %d x %d\n", out.Results.NumTimeNodes(), out.Results.NumSpaceNodes())
	fmt.Println("\ndiagnostics:")
	names := make([]string, 0, len(out.Diagnostics))
	for name := range out.Diagnostics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, out.Diagnostics[name])
	}
	return nil
}
