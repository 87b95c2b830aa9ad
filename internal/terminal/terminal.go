// Package terminal renders run progress as one line per message:
//
//	[ℹ︎]: Running command go vet ./...
//	[✔︎]: Finished command go vet ./...
//	[✘]: task 'lint': command `golangci-lint run` failed (exit status 1)
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Message icons
const (
	IconInfo    = "ℹ︎"
	IconOK      = "✔︎"
	IconError   = "✘"
	IconWarning = "‼︎"
	IconDebug   = "⌗"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorCyan    = "\033[36m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorMagenta = "\033[35m"
)

// Printer writes progress messages. Info, OK and Warn go to out, errors to
// errOut. It is safe for concurrent use; each message is written whole.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	color  bool
}

// New creates a printer writing to out and errOut. Colors are used only when
// both are terminals and NO_COLOR is not set.
func New(out, errOut io.Writer) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		color:  colorEnabled(out) && colorEnabled(errOut),
	}
}

// NewStd creates a printer on the process stdout and stderr
func NewStd() *Printer {
	return New(os.Stdout, os.Stderr)
}

// Info reports that a task is starting
func (p *Printer) Info(msg string) {
	p.print(p.out, IconInfo, colorCyan, msg)
}

// OK reports that a task finished successfully
func (p *Printer) OK(msg string) {
	p.print(p.out, IconOK, colorGreen, msg)
}

// Warn reports a non-fatal problem
func (p *Printer) Warn(msg string) {
	p.print(p.out, IconWarning, colorYellow, msg)
}

// Error reports a failure
func (p *Printer) Error(err error) {
	p.print(p.errOut, IconError, colorRed, err.Error())
}

// Debug reports details only shown in verbose mode
func (p *Printer) Debug(msg string) {
	p.print(p.out, IconDebug, colorMagenta, msg)
}

func (p *Printer) print(w io.Writer, icon, code, msg string) {
	line := fmt.Sprintf("%s%s%s%s%s\n",
		p.paint(colorDim, "["), p.paint(code+colorBold, icon), p.paint(colorDim, "]"),
		p.paint(colorDim, ": "), msg)

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(w, line)
}

func (p *Printer) paint(code, text string) string {
	if !p.color {
		return text
	}
	return code + text + colorReset
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Bold highlights text when colors are enabled
func (p *Printer) Bold(text string) string {
	return p.paint(colorBold, text)
}
