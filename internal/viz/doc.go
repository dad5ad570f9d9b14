// Package viz renders simulation results for the terminal.
//
// Plots are drawn with asciigraph and sized to the terminal when stdout is
// one; tables and panels are styled with lipgloss. Every renderer returns a
// string so the CLI and the explorer share them.
package viz
