// Package viz renders stored solutions in the terminal.
//
//   - [PlotLayer] and [PlotNode]: asciigraph charts of one time layer or of
//     one space node through time
//   - [Summary]: a lipgloss panel with run metadata and diagnostics
//   - [Canvas]: Braille pixel canvas used for curve overlays and frames
//   - [Browser]: a Bubble Tea model stepping through the retained layers
//
// # Browser keys
//
//	←/→   step layer (or node in node view)
//	↑/↓   jump by ten
//	Tab   cycle layer, node and overlay views
//	Space play the layers in time order
//	T     cycle colour themes
package viz
