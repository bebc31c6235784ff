package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fdpde/internal/config"
	"github.com/san-kum/fdpde/internal/experiment"
	"github.com/san-kum/fdpde/internal/pde"
	"github.com/san-kum/fdpde/internal/solver"
)

var (
	nSigma     float64
	minTime    float64
	maxRows    int
	benchScale []int
	workers    int
)

func newImpvolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impvol [run_id]",
		Short: "read a forward Black-Scholes run back as implied volatilities",
		Args:  cobra.MaximumNArgs(1),
		RunE:  impliedVols,
	}
	cmd.Flags().Float64Var(&nSigma, "nsigma", 3, "strike window half-width in standard deviations")
	cmd.Flags().Float64Var(&minTime, "min-time", 0.02, "skip layers at or before this time")
	cmd.Flags().IntVar(&maxRows, "rows", 30, "maximum table rows (0 for all)")
	return cmd
}

func impliedVols(cmd *cobra.Command, args []string) error {
	meta, s, err := loadRun(args)
	if err != nil {
		return err
	}
	if meta.Problem != "bs-forward" {
		return fmt.Errorf("run %s solves %s; implied vols need a bs-forward run", meta.ID, meta.Problem)
	}

	cfg := meta.Config()
	vol, rate := cfg.Param("vol", 0.2), cfg.Param("rate", 0.05)
	points := experiment.ImpliedVols(s, vol, rate, nSigma, minTime)
	if len(points) == 0 {
		fmt.Println("no nodes inside the strike window")
		return nil
	}

	step := 1
	if maxRows > 0 && len(points) > maxRows {
		step = (len(points) + maxRows - 1) / maxRows
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTRIKE\tPRICE\tVOL\tERROR")
	for i := 0; i < len(points); i += step {
		p := points[i]
		fmt.Fprintf(w, "%.4f\t%.4f\t%.6f\t%.5f\t%+.2e\n", p.Time, p.Strike, p.Price, p.Vol, p.Vol-vol)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d nodes, max |vol - %g| = %.3e\n", len(points), vol, experiment.MaxVolError(points, vol))
	return nil
}

func newProblemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "list available problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range reg.ListProblems() {
				p, err := reg.GetProblem(name, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", name, p.Description())
			}
			return w.Flush()
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [problem]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, p := range config.AllPresets() {
					fmt.Printf("  %s\n", p)
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for problem: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [problem]",
		Short: "time solves on refined copies of a problem's default grid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchProblem,
	}
	cmd.Flags().IntSliceVar(&benchScale, "scale", []int{1, 2, 4}, "refinement factors applied to both meshes")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent solves for the batch pass (0 for GOMAXPROCS)")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "implicitness weight in [0, 1]")
	return cmd
}

func benchProblem(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Problem = args[0]
	}
	cfg.Theta = theta
	cfg.RetainHistory = false

	reg := experiment.NewRegistry()
	base, _, err := experiment.Resolve(reg, cfg)
	if err != nil {
		return err
	}

	exps := make([]*experiment.Experiment, 0, len(benchScale))
	for _, f := range benchScale {
		if f < 1 {
			return fmt.Errorf("scale %d must be at least 1", f)
		}
		c := base.Clone()
		if err := setPoints(&c.TimeMesh, (c.TimeMesh.Points-1)*f+1); err != nil {
			return err
		}
		if err := setPoints(&c.SpaceMesh, (c.SpaceMesh.Points-1)*f+1); err != nil {
			return err
		}
		exp := experiment.New(c, logger)
		if err := exp.Setup(reg); err != nil {
			return fmt.Errorf("scale %d: %w", f, err)
		}
		exps = append(exps, exp)
	}

	fmt.Printf("benchmarking %s at theta %g\n\n", base.Problem, base.Theta)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCALE\tTNODES\tXNODES\tTIME\tNODES/SEC\tMAX_ERROR")

	ctx := context.Background()
	bundles := make([]*pde.DataBundle, len(exps))
	var sequential time.Duration
	for i, exp := range exps {
		out, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		sequential += out.Elapsed
		bundles[i] = exp.Bundle()

		nodes := out.Results.NumTimeNodes() * out.Results.NumSpaceNodes()
		maxErr := "-"
		if v, ok := out.Diagnostics["max_error"]; ok {
			maxErr = fmt.Sprintf("%.3e", v)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%s\n",
			benchScale[i], out.Results.NumTimeNodes(), out.Results.NumSpaceNodes(),
			out.Elapsed, float64(nodes)/math.Max(out.Elapsed.Seconds(), 1e-9), maxErr)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s, err := solver.NewThetaMethod(base.SolverConfig())
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := solver.SolveAll(ctx, s, bundles, workers); err != nil {
		return err
	}
	fmt.Printf("\nsequential %v, batch %v\n", sequential, time.Since(start))
	return nil
}
