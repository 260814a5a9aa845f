package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes notifications as coloured lines, for the command line.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter prints to color.Output, colouring only when stdout is a terminal.
func NewPrinter() *Printer {
	return &Printer{
		out:   color.Output,
		color: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// NewPlainPrinter prints uncoloured lines to w.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{out: w}
}

func (p *Printer) Notify(level Level, text string) {
	prefix := Symbol(level)
	if p.color {
		prefix = levelColor(level).Sprint(prefix)
	}
	_, _ = fmt.Fprintf(p.out, "%s %s\n", prefix, text)
}

// Symbol is the one-character marker used for a level.
func Symbol(level Level) string {
	switch level {
	case Success:
		return "✔"
	case Warning:
		return "!"
	case Danger:
		return "✘"
	default:
		return "•"
	}
}

func levelColor(level Level) *color.Color {
	c := color.New(color.FgCyan)
	switch level {
	case Success:
		c = color.New(color.FgGreen)
	case Warning:
		c = color.New(color.FgYellow)
	case Danger:
		c = color.New(color.FgRed, color.Bold)
	}
	c.EnableColor()
	return c
}
