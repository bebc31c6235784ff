package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fdpde/internal/storage"
)

// Summary renders run metadata, its diagnostics and a sparkline of the
// terminal layer.
func Summary(meta *storage.RunMetadata, s *storage.Surface) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(ThemeCyberpunk.Secondary).Render(meta.ID)

	rows := [][2]string{
		{"problem", meta.Problem},
		{"theta", fmt.Sprintf("%g", meta.Theta)},
		{"grid", fmt.Sprintf("%d x %d (time x space)", meta.TimeNodes, meta.SpaceNodes)},
		{"meshes", fmt.Sprintf("%s / %s", meta.TimeMesh.Kind, meta.SpaceMesh.Kind)},
		{"history", historyLabel(meta.RetainHistory)},
		{"elapsed", meta.Elapsed.String()},
	}
	if meta.Correction.Enabled() {
		rows = append(rows, [2]string{"correction", fmt.Sprintf("%d steps x %d at theta %g",
			meta.Correction.Steps, meta.Correction.SubSteps, meta.Correction.Theta)})
	}
	for _, k := range sortedKeys(meta.Params) {
		rows = append(rows, [2]string{k, fmt.Sprintf("%g", meta.Params[k])})
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	writeRows(&b, rows)

	if len(meta.Diagnostics) > 0 {
		b.WriteString("\n")
		diag := make([][2]string, 0, len(meta.Diagnostics))
		for _, k := range sortedKeys(meta.Diagnostics) {
			diag = append(diag, [2]string{k, fmt.Sprintf("%.6g", meta.Diagnostics[k])})
		}
		writeRows(&b, diag)
	}

	if s != nil && s.NumLayers() > 0 {
		b.WriteString("\n" + MetricLabel.Render("terminal  ") + Sparkline(s.Terminal(), 48))
	}
	return Panel.Render(b.String())
}

func writeRows(b *strings.Builder, rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		label := r[0] + strings.Repeat(" ", width-len(r[0]))
		b.WriteString(MetricLabel.Render(label) + "  " + MetricValue.Render(r[1]) + "\n")
	}
}

func historyLabel(full bool) string {
	if full {
		return "all layers"
	}
	return "first and last"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
