// Package report presents run results: styled terminal output for humans
// and a JUnit-style XML document for CI systems.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/precheck/pkg/runner"
)

// Status of one rendered result line
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusPass:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusFail:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

var statusMarks = map[Status]string{
	StatusPass: "ok",
	StatusFail: "fail",
	StatusSkip: "skip",
}

// Printer renders results to a terminal
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer writing to out. mode is one of auto, always,
// never; auto enables color only for capable TTYs and respects NO_COLOR.
func NewPrinter(out io.Writer, mode string) *Printer {
	p := &Printer{out: out, color: colorEnabled(out, mode)}
	if p.color {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
	return p
}

func colorEnabled(out io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// ResultStatus classifies a result for display
func ResultStatus(res runner.Result) Status {
	switch {
	case res.Skipped:
		return StatusSkip
	case res.Failed():
		return StatusFail
	default:
		return StatusPass
	}
}

// Action renders one result line, plus the tool's output when it failed
func (p *Printer) Action(res runner.Result) {
	status := ResultStatus(res)
	mark := StatusStyle(status).Sprint(fmt.Sprintf("%-4s", statusMarks[status]))

	switch status {
	case StatusSkip:
		fmt.Fprintf(p.out, "  %s %s (not run)\n", mark, res.Action)
	case StatusPass:
		fmt.Fprintf(p.out, "  %s %s (%d files, %s)\n", mark, res.Action, len(res.Files), res.Duration.Round(time.Millisecond))
	case StatusFail:
		detail := "failed"
		if res.Err != nil && res.ExitCode > 0 {
			detail = fmt.Sprintf("exited %d", res.ExitCode)
		} else if res.Err != nil {
			detail = res.Err.Error()
		}
		fmt.Fprintf(p.out, "  %s %s %s (%d files, %s)\n", mark, res.Action, detail, len(res.Files), res.Duration.Round(time.Millisecond))
		p.toolOutput(res)
	}
}

// toolOutput echoes the failing tool's captured streams, indented
func (p *Printer) toolOutput(res runner.Result) {
	for _, stream := range [][]byte{res.Stdout, res.Stderr} {
		text := strings.TrimRight(string(stream), "\n")
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(p.out, "       %s\n", line)
		}
	}
}

// Summary renders the closing summary block
func (p *Printer) Summary(sum runner.Summary) {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d passed", sum.Passed))
	if sum.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", sum.Failed))
	}
	if sum.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", sum.Skipped))
	}

	text := strings.Join(parts, ", ")
	if sum.OK() {
		text = "all checks passed: " + text
	} else {
		text = "checks failed: " + text
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if p.color {
		if sum.OK() {
			style = style.BorderForeground(lipgloss.Color("2"))
		} else {
			style = style.BorderForeground(lipgloss.Color("1"))
		}
	}

	fmt.Fprintln(p.out, style.Render(text))
}
