package input

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Terminal owns stdin when it is an interactive terminal. A single goroutine
// reads runes from the device so that raw keystroke polling and ordinary line
// reads never compete for the same bytes.
type Terminal struct {
	in    *os.File
	fd    int
	runes chan rune
	err   error
	once  sync.Once

	makeRaw func(fd int) (*term.State, error)
	restore func(fd int, state *term.State) error

	mu    sync.Mutex
	saved *term.State
}

func NewTerminal(in *os.File) *Terminal {
	return &Terminal{
		in:      in,
		fd:      int(in.Fd()),
		runes:   make(chan rune, 256),
		makeRaw: term.MakeRaw,
		restore: term.Restore,
	}
}

// IsTerminal reports whether f supports raw keystroke polling.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) start() {
	t.once.Do(func() {
		go t.readLoop()
	})
}

func (t *Terminal) readLoop() {
	r := bufio.NewReader(t.in)
	for {
		c, _, err := r.ReadRune()
		if err != nil {
			t.err = err
			close(t.runes)
			return
		}
		t.runes <- c
	}
}

// Raw switches the device to raw mode. The saved mode stays on the Terminal
// until restored, so Restore can also be called from a signal handler.
func (t *Terminal) Raw() (func() error, error) {
	state, err := t.makeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.saved = state
	t.mu.Unlock()
	t.start()
	return t.Restore, nil
}

// Restore puts back the mode saved by Raw. It does nothing when the device is
// not in raw mode.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved == nil {
		return nil
	}
	state := t.saved
	t.saved = nil
	return t.restore(t.fd, state)
}

func (t *Terminal) Poll() (rune, bool, error) {
	t.start()
	select {
	case c, ok := <-t.runes:
		if !ok {
			return 0, false, t.closedErr()
		}
		return c, true, nil
	default:
		return 0, false, nil
	}
}

// ReadLine blocks until a full line is available. The terminal must be in its
// normal (cooked) mode so the device does the echoing and editing.
func (t *Terminal) ReadLine() (string, error) {
	t.start()
	var b strings.Builder
	for c := range t.runes {
		if c == '\n' {
			return strings.TrimRight(b.String(), "\r"), nil
		}
		b.WriteRune(c)
	}
	if b.Len() > 0 {
		return b.String(), nil
	}
	return "", t.closedErr()
}

func (t *Terminal) closedErr() error {
	if t.err == nil {
		return io.EOF
	}
	return t.err
}
