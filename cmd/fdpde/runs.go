package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/fdpde/internal/export"
	"github.com/san-kum/fdpde/internal/storage"
	"github.com/san-kum/fdpde/internal/viz"
)

var (
	plotLayer  int
	plotX      float64
	plotWidth  int
	plotHeight int
	plotSVG    string
	theme      string
	outPath    string
	numLayers  int
	plainSVG   bool
	gifDelay   int
)

// loadRun resolves the optional run argument, defaulting to the newest run.
func loadRun(args []string) (*storage.RunMetadata, *storage.Surface, error) {
	st := storage.New(dataDir)
	var runID string
	if len(args) > 0 {
		runID = args[0]
	} else {
		latest, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = latest
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	s, err := st.LoadSurface(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, s, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tTHETA\tGRID\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%dx%d\t%v\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Theta,
			run.TimeNodes,
			run.SpaceNodes,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarise a run (newest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, s, err := loadRun(args)
			if err != nil {
				return err
			}
			fmt.Println(viz.Summary(meta, s))
			return nil
		},
	}
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a time layer and a space node of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&plotLayer, "layer", -1, "retained layer to plot (-1 for the last)")
	cmd.Flags().Float64Var(&plotX, "x", 0, "plot the node nearest to x through time (default: middle node)")
	cmd.Flags().IntVar(&plotWidth, "width", 70, "chart width")
	cmd.Flags().IntVar(&plotHeight, "height", 15, "chart height")
	cmd.Flags().StringVar(&plotSVG, "svg", "", "also write a Braille overlay of the first, chosen and last layers as SVG")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, s, err := loadRun(args)
	if err != nil {
		return err
	}

	layer := plotLayer
	if layer < 0 {
		layer = s.NumLayers() - 1
	}
	opts := viz.PlotOptions{Width: plotWidth, Height: plotHeight}

	fmt.Printf("%s\n\n", meta.ID)
	chart, err := viz.PlotLayer(s, layer, opts)
	if err != nil {
		return err
	}
	fmt.Println(chart)

	node := s.NumNodes() / 2
	if cmd.Flags().Changed("x") {
		node = s.NearestNode(plotX)
	}
	if s.NumLayers() < 2 {
		fmt.Println("\nonly the first and last layers were kept; node history needs --history")
	} else {
		chart, err := viz.PlotNode(s, node, opts)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(chart)
	}

	if plotSVG != "" {
		c := viz.NewCanvas(plotWidth, plotHeight)
		c.PlotCurves(s.Space, s.Values[0], s.Values[layer], s.Terminal())
		if err := os.WriteFile(plotSVG, []byte(export.CanvasToSVG(c, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", plotSVG)
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "step through the layers of a run interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, s, err := loadRun(args)
			if err != nil {
				return err
			}
			b := viz.NewBrowser(meta.ID, s, viz.GetTheme(theme))
			_, err = tea.NewProgram(b, tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, s, err := loadRun(args)
			if err != nil {
				return err
			}
			if outPath == "" {
				return export.WriteJSON(os.Stdout, meta, s)
			}
			if err := export.ExportJSON(outPath, meta, s); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV, one row per node and layer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadRun(args)
			if err != nil {
				return err
			}
			if outPath == "" {
				return export.WriteCSV(os.Stdout, s)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := export.WriteCSV(f, s); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render layers to an image (.png, .svg, .pdf) or an animation (.gif)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderRun,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.png)")
	cmd.Flags().IntVar(&numLayers, "layers", 5, "number of evenly spaced layers (frames for .gif)")
	cmd.Flags().BoolVar(&plainSVG, "plain-svg", false, "write a bare polyline SVG instead of a gonum/plot figure")
	cmd.Flags().IntVar(&gifDelay, "delay", 10, "gif frame delay in 1/100 s")
	return cmd
}

func renderRun(cmd *cobra.Command, args []string) error {
	meta, s, err := loadRun(args)
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = meta.ID + ".png"
	}
	layers := export.SelectLayers(s, numLayers)

	switch {
	case strings.EqualFold(filepath.Ext(path), ".gif"):
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		err = export.AnimateGIF(f, s, layers, 80, 20, gifDelay)
		if err != nil {
			return err
		}
	case plainSVG:
		svg, err := export.LayersToSVG(s, layers, 800, 500)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
	default:
		title := fmt.Sprintf("%s (theta %g)", meta.Problem, meta.Theta)
		if err := export.RenderLayers(path, title, s, layers, 6*vg.Inch, 4*vg.Inch); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d layers to %s\n", len(layers), path)
	return nil
}
