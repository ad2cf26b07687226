package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorReset  = "\x1b[39m"
)

const bannerRule = "////////////////////////////////////////////////////////"

// Display is the user-facing output of a session. Both relay loops write to
// it, so every method holds a lock for the duration of one write.
type Display struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// NewDisplay writes to w, wrapping decorations in ANSI colours when color is set.
func NewDisplay(w io.Writer, color bool) *Display {
	return &Display{w: w, color: color}
}

// NewStdoutDisplay writes to stdout, with colour only when stdout is a terminal.
func NewStdoutDisplay() *Display {
	return NewDisplay(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

// Banner announces a successful connection.
func (d *Display) Banner(platform, port string, baud int) {
	var b strings.Builder
	b.WriteString(bannerRule + "\n")
	fmt.Fprintf(&b, "// Platform: %s\n", platform)
	fmt.Fprintf(&b, "// Connected to %s at %d baud.\n", port, baud)
	b.WriteString("//\n")
	b.WriteString("// Press Ctrl+C to exit.\n")
	b.WriteString(bannerRule + "\n")
	d.write(colorYellow, b.String())
}

// Received passes device output through untouched.
func (d *Display) Received(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = io.WriteString(d.w, text)
}

// Sent echoes a transmitted line. line already ends in a newline.
func (d *Display) Sent(line []byte) {
	d.write(colorCyan, ">> "+string(line))
}

// Notice prints a status message on its own line.
func (d *Display) Notice(msg string) {
	d.write(colorYellow, msg+"\n")
}

// Error prints a failure message on its own line.
func (d *Display) Error(msg string) {
	d.write(colorRed, msg+"\n")
}

func (d *Display) write(color, s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.color {
		s = color + s + colorReset
	}
	_, _ = io.WriteString(d.w, s)
}
