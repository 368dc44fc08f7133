// Package ui renders tags and entries for the terminal.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/v0rts/wutag/internal/tag"
)

// Printer writes command output. Colors are dropped when the output is not a
// terminal or when color is disabled.
type Printer struct {
	w         io.Writer
	renderer  *lipgloss.Renderer
	pathStyle lipgloss.Style
}

func NewPrinter(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return newPrinter(w, r)
}

// NewPrinterWithProfile forces a color profile regardless of the output.
func NewPrinterWithProfile(w io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return newPrinter(w, r)
}

func newPrinter(w io.Writer, r *lipgloss.Renderer) *Printer {
	return &Printer{
		w:         w,
		renderer:  r,
		pathStyle: r.NewStyle().Bold(true),
	}
}

func terminalColor(c tag.Color) lipgloss.TerminalColor {
	if idx, ok := c.ANSI(); ok {
		return lipgloss.Color(strconv.Itoa(idx))
	}
	if rgb, ok := c.RGB(); ok {
		return lipgloss.Color(rgb.Hex())
	}
	return lipgloss.NoColor{}
}

// Tag renders a single tag in its color.
func (p *Printer) Tag(t tag.Tag) string {
	return p.renderer.NewStyle().Bold(true).Foreground(terminalColor(t.Color)).Render(t.Name)
}

// Tags renders tags separated by spaces.
func (p *Printer) Tags(tags []tag.Tag) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, p.Tag(t))
	}
	return strings.Join(parts, " ")
}

func (p *Printer) Path(path string) string {
	return p.pathStyle.Render(path)
}

// Entry prints "path: tag tag" or just the path when tags is empty.
func (p *Printer) Entry(path string, tags []tag.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(p.w, p.Path(path))
		return
	}
	fmt.Fprintf(p.w, "%s: %s\n", p.Path(path), p.Tags(tags))
}

// Line prints text followed by a newline without styling.
func (p *Printer) Line(text string) {
	fmt.Fprintln(p.w, text)
}

// Status prints a path with a short colored marker such as "+ src".
func (p *Printer) Status(path, marker string, t tag.Tag) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.Path(path), marker, p.Tag(t))
}
