package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
)

// Printer writes single-line, severity-colored messages for the user
type Printer struct {
	out   io.Writer
	err   io.Writer
	color bool
}

// NewPrinter creates a printer; color is used only when stdout is a terminal
func NewPrinter(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut, color: isTerminal(out) && isTerminal(errOut)}
}

// Out is the writer for command data (tables, JSON)
func (p *Printer) Out() io.Writer {
	return p.out
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if p.color {
		fmt.Fprintf(p.out, "%s %s\n", successStyle.Render("✓"), successStyle.Render(message))
	} else {
		fmt.Fprintln(p.out, message)
	}
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	if p.color {
		fmt.Fprintf(p.out, "%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Fprintln(p.out, message)
	}
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if p.color {
		fmt.Fprintf(p.err, "%s %s\n", warningStyle.Render("⚠"), warningStyle.Render(message))
	} else {
		fmt.Fprintf(p.err, "WARNING: %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	if p.color {
		fmt.Fprintf(p.err, "%s %s\n", errorStyle.Render("✗"), errorStyle.Render(message))
	} else {
		fmt.Fprintf(p.err, "ERROR: %s\n", message)
	}
}

// ShowProgress runs fn while a spinner with message is shown on a terminal
func (p *Printer) ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !p.color {
		LogInfo(message)
		return fn()
	}

	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Fprintf(p.err, "\r%s %s", progressStyle.Render(spinnerChars[i%len(spinnerChars)]), message)
			}
		}
	}()

	err := fn()
	close(stop)
	<-spinnerDone

	if err != nil {
		fmt.Fprintf(p.err, "\r%s %s\n", errorStyle.Render("✗"), message)
		return err
	}
	fmt.Fprintf(p.err, "\r%s %s\n", successStyle.Render("✓"), message)
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}
