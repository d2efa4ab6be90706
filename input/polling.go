package input

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

const (
	keyInterrupt = 0x03 // Ctrl-C
	keyEOT       = 0x04 // Ctrl-D
	keyBackspace = '\b'
	keyDelete    = 0x7f
)

// KeySource delivers single keystrokes without blocking.
type KeySource interface {
	// Raw switches the terminal to unbuffered, unechoed input. The returned
	// function restores the previous mode.
	Raw() (restore func() error, err error)
	// Poll returns the next pending keystroke, or ok=false when none is
	// available yet.
	Poll() (r rune, ok bool, err error)
}

// pollingController enforces the timeout precisely by checking for keystrokes
// on every tick and echoing them itself.
type pollingController struct {
	keys  KeySource
	lines LineReader
	out   io.Writer
	tick  time.Duration
}

func NewPollingController(keys KeySource, lines LineReader, out io.Writer, tick time.Duration) Controller {
	if tick <= 0 {
		tick = time.Second
	}
	return &pollingController{
		keys:  keys,
		lines: lines,
		out:   out,
		tick:  tick,
	}
}

func (c *pollingController) ReadWithTimeout(timeout time.Duration) (Result, error) {
	promptChoice(c.out, timeout)

	restore, err := c.keys.Raw()
	if err != nil {
		return Result{}, fmt.Errorf("could not enter raw mode: %w", err)
	}
	result, done, err := c.collect(timeout)
	if rerr := restore(); rerr != nil {
		log.Errorf("Could not restore terminal mode: %v", rerr)
	}
	fmt.Fprintln(c.out)
	if err != nil || done {
		return result, err
	}

	return askContinue(c.lines, c.out)
}

// collect accumulates keystrokes until Enter or the deadline. done is false
// only when the wait timed out.
func (c *pollingController) collect(timeout time.Duration) (Result, bool, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	var buf []rune
	for {
		for {
			r, ok, err := c.keys.Poll()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return Result{Kind: Exit}, true, nil
				}
				return Result{}, true, err
			}
			if !ok {
				break
			}

			switch {
			case r == '\r' || r == '\n':
				return Result{Kind: Choice, Value: strings.TrimSpace(string(buf))}, true, nil
			case r == keyInterrupt || (r == keyEOT && len(buf) == 0):
				return Result{Kind: Exit}, true, nil
			case r == keyBackspace || r == keyDelete:
				if len(buf) > 0 {
					buf = buf[:len(buf)-1]
					fmt.Fprint(c.out, "\b \b")
				}
			case unicode.IsPrint(r):
				buf = append(buf, r)
				fmt.Fprint(c.out, string(r))
			}
		}

		select {
		case <-deadline.C:
			return Result{}, false, nil
		case <-ticker.C:
		}
	}
}
