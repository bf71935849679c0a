// Package styles provides shared lipgloss styles for the REPL.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorRed    = lipgloss.Color("#d75f6b")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner ASCII art for the REPL header.
const Banner = `
 ╔╦╗╔═╗╦  ╦  ╦ ╦
  ║ ╠═╣║  ║  ╚╦╝
  ╩ ╩ ╩╩═╝╩═╝ ╩`

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// ErrorStyle styles error lines in the transcript.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// EchoStyle styles the echoed user input.
var EchoStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle styles the footer help line.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// PromptStyle styles the input prompt.
var PromptStyle = lipgloss.NewStyle().
	Foreground(ColorGreen).
	Bold(true)
