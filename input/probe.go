package input

import (
	"io"
	"os"
	"time"
)

// Console bundles the timed menu reader with the plain line reader used for
// every other prompt. Both read from the same source.
type Console struct {
	Timed   Controller
	Lines   LineReader
	Precise bool

	terminal *Terminal
}

// Restore leaves raw mode if a timed read was interrupted while the terminal
// was in it.
func (c Console) Restore() error {
	if c.terminal == nil {
		return nil
	}
	return c.terminal.Restore()
}

// Probe selects the timeout strategy once at startup: keystroke polling when
// in is an interactive terminal, a blocking line read otherwise.
func Probe(in *os.File, out io.Writer, tick time.Duration, forceLineInput bool) Console {
	if !forceLineInput && IsTerminal(in) {
		t := NewTerminal(in)
		log.Infof("Terminal supports keystroke polling, menu timeout is enforced every %s", tick)
		return Console{
			Timed:    NewPollingController(t, t, out, tick),
			Lines:    t,
			Precise:  true,
			terminal: t,
		}
	}

	lines := NewLineReader(in)
	log.Infof("Keystroke polling unavailable, menu timeout is checked after each line")
	return Console{
		Timed: NewBlockingController(lines, out),
		Lines: lines,
	}
}
