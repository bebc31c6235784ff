package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fdpde/internal/storage"
)

// View modes of the browser.
const (
	ViewLayer = iota
	ViewNode
	ViewOverlay
	numViews
)

var viewNames = [numViews]string{"layer", "node", "overlay"}

type TickMsg time.Time

// Browser is a Bubble Tea model that steps through a stored surface.
type Browser struct {
	title   string
	surface *storage.Surface
	theme   Theme

	view    int
	layer   int
	node    int
	playing bool

	width, height int
}

func NewBrowser(title string, s *storage.Surface, theme Theme) Browser {
	return Browser{
		title:   title,
		surface: s,
		theme:   theme,
		layer:   s.NumLayers() - 1,
		node:    s.NumNodes() / 2,
		width:   80,
		height:  24,
	}
}

func (m Browser) Layer() int { return m.layer }
func (m Browser) Node() int  { return m.node }
func (m Browser) Init() tea.Cmd { return nil }

func tick() tea.Cmd {
	return tea.Tick(time.Second/15, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.step(1)
		case "left", "h":
			m.step(-1)
		case "up", "k":
			m.step(10)
		case "down", "j":
			m.step(-10)
		case "home", "g":
			m.layer, m.node = 0, 0
		case "end", "G":
			m.layer, m.node = m.surface.NumLayers()-1, m.surface.NumNodes()-1
		case "tab":
			m.view = (m.view + 1) % numViews
		case "t":
			m.theme = nextTheme(m.theme)
		case " ", "space":
			m.playing = !m.playing
			if m.playing {
				if m.layer == m.surface.NumLayers()-1 {
					m.layer = 0
				}
				return m, tick()
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		if !m.playing {
			return m, nil
		}
		if m.layer >= m.surface.NumLayers()-1 {
			m.playing = false
			return m, nil
		}
		m.layer++
		return m, tick()
	}
	return m, nil
}

// step moves the cursor of the current view, clamped to the surface.
func (m *Browser) step(d int) {
	if m.view == ViewNode {
		m.node = max(0, min(m.node+d, m.surface.NumNodes()-1))
		return
	}
	m.layer = max(0, min(m.layer+d, m.surface.NumLayers()-1))
}

func (m Browser) View() string {
	s := m.surface
	head := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Secondary).Render(m.title)
	mode := lipgloss.NewStyle().Foreground(m.theme.Accent).Render("[" + viewNames[m.view] + "]")
	pos := MetricLabel.Render(fmt.Sprintf("layer %d/%d  t=%.4g   node %d/%d  x=%.4g",
		m.layer, s.NumLayers()-1, s.Times[m.layer], m.node, s.NumNodes()-1, s.Space[m.node]))

	opts := PlotOptions{Width: max(m.width-12, 20), Height: max(m.height-10, 5)}
	var body string
	switch m.view {
	case ViewLayer:
		body, _ = PlotLayer(s, m.layer, opts)
	case ViewNode:
		var err error
		if body, err = PlotNode(s, m.node, opts); err != nil {
			body = Subtle.Render(err.Error())
		}
	case ViewOverlay:
		c := NewCanvas(opts.Width, opts.Height)
		c.PlotCurves(s.Space, s.Values[0], s.Values[m.layer], s.Terminal())
		body = lipgloss.NewStyle().Foreground(m.theme.Primary).Render(strings.TrimRight(c.String(), "\n"))
	}

	value := fmt.Sprintf("V = %.6g", s.Values[m.layer][m.node])
	play := ""
	if m.playing {
		play = lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Render("  ▶ playing")
	}
	hints := KeyHint.Render("←/→ step  ↑/↓ jump  tab view  space play  t theme (" + m.theme.Name + ")  q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, head, "  ", mode, play),
		pos,
		"",
		body,
		"",
		MetricValue.Render(value),
		Separator(min(m.width, 80)),
		hints,
	)
}
