package input

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

type scriptedKeys struct {
	keys     []rune
	err      error
	raw      int
	restored int
}

func (k *scriptedKeys) Raw() (func() error, error) {
	k.raw++
	return func() error {
		k.restored++
		return nil
	}, nil
}

func (k *scriptedKeys) Poll() (rune, bool, error) {
	if len(k.keys) == 0 {
		if k.err != nil {
			return 0, false, k.err
		}
		return 0, false, nil
	}
	r := k.keys[0]
	k.keys = k.keys[1:]
	return r, true, nil
}

// steppingClock returns start on the first call and start+step afterwards.
func steppingClock(step time.Duration) func() time.Time {
	start := time.Now()
	calls := 0
	return func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(step)
	}
}

func TestBlockingControllerReturnsTrimmedChoice(t *testing.T) {
	var out bytes.Buffer
	c := NewBlockingController(NewLineReader(strings.NewReader("  2 \n")), &out)

	res, err := c.ReadWithTimeout(10 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Result{Kind: Choice, Value: "2"}, res)
	assert.Contains(t, out.String(), "10 minutes")
}

func TestBlockingControllerDoesNotValidate(t *testing.T) {
	c := NewBlockingController(NewLineReader(strings.NewReader("\n")), io.Discard)
	res, err := c.ReadWithTimeout(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Result{Kind: Choice, Value: ""}, res)
}

func TestBlockingControllerLateInputAsksToContinue(t *testing.T) {
	var out bytes.Buffer
	c := NewBlockingController(NewLineReader(strings.NewReader("1\nquizas\nsi\n")), &out).(*blockingController)
	c.now = steppingClock(11 * time.Minute)

	res, err := c.ReadWithTimeout(10 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Continue, res.Kind)
	assert.Equal(t, 1, strings.Count(out.String(), "The waiting time is over."))
	assert.Contains(t, out.String(), "Invalid answer.")
}

func TestBlockingControllerLateInputExit(t *testing.T) {
	c := NewBlockingController(NewLineReader(strings.NewReader("1\nNO\n")), io.Discard).(*blockingController)
	c.now = steppingClock(time.Hour)

	res, err := c.ReadWithTimeout(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Exit, res.Kind)
}

func TestBlockingControllerEOFExits(t *testing.T) {
	c := NewBlockingController(NewLineReader(strings.NewReader("")), io.Discard)
	res, err := c.ReadWithTimeout(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, Exit, res.Kind)
}

func TestPollingControllerAccumulatesKeys(t *testing.T) {
	var out bytes.Buffer
	keys := &scriptedKeys{keys: []rune{'4', 'x', keyDelete, '\r'}}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("")), &out, 10*time.Millisecond)

	res, err := c.ReadWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Result{Kind: Choice, Value: "4"}, res)
	assert.Equal(t, 1, keys.raw)
	assert.Equal(t, 1, keys.restored)
	assert.Contains(t, out.String(), "4x\b \b")
}

func TestPollingControllerBackspaceOnEmptyBuffer(t *testing.T) {
	keys := &scriptedKeys{keys: []rune{keyBackspace, '1', '\n'}}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("")), io.Discard, 10*time.Millisecond)

	res, err := c.ReadWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Result{Kind: Choice, Value: "1"}, res)
}

func TestPollingControllerTimeoutPromptsOnce(t *testing.T) {
	var out bytes.Buffer
	keys := &scriptedKeys{}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("no\n")), &out, time.Second)

	start := time.Now()
	res, err := c.ReadWithTimeout(2 * time.Second)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, Exit, res.Kind)
	assert.GreaterOrEqual(t, elapsed, 2*time.Second)
	assert.Less(t, elapsed, 3*time.Second)
	assert.Equal(t, 1, strings.Count(out.String(), "(yes/no)"))
	assert.Equal(t, 1, keys.restored)
}

func TestPollingControllerTimeoutContinue(t *testing.T) {
	keys := &scriptedKeys{}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("yes\n")), io.Discard, 5*time.Millisecond)

	res, err := c.ReadWithTimeout(50 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Continue, res.Kind)
}

func TestPollingControllerInterrupt(t *testing.T) {
	keys := &scriptedKeys{keys: []rune{'1', keyInterrupt}}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("")), io.Discard, 10*time.Millisecond)

	res, err := c.ReadWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Exit, res.Kind)
	assert.Equal(t, 1, keys.restored)
}

func TestPollingControllerClosedInput(t *testing.T) {
	keys := &scriptedKeys{err: io.EOF}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("")), io.Discard, 10*time.Millisecond)

	res, err := c.ReadWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, Exit, res.Kind)
}

func TestPollingControllerPollError(t *testing.T) {
	boom := errors.New("device gone")
	keys := &scriptedKeys{err: boom}
	c := NewPollingController(keys, NewLineReader(strings.NewReader("")), io.Discard, 10*time.Millisecond)

	_, err := c.ReadWithTimeout(time.Second)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, keys.restored)
}

func TestLineReaderLastLineWithoutNewline(t *testing.T) {
	r := NewLineReader(strings.NewReader("uno\r\ndos"))
	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "uno", line)
	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "dos", line)
	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestProbeFallsBackForNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer f.Close()

	console := Probe(f, io.Discard, time.Second, false)
	assert.False(t, console.Precise)
	_, ok := console.Timed.(*blockingController)
	assert.True(t, ok)
	assert.NoError(t, console.Restore())
}

func TestTerminalRestoreOutsideTimedRead(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "tty"))
	require.NoError(t, err)
	defer f.Close()

	tm := NewTerminal(f)
	restored := 0
	tm.makeRaw = func(int) (*term.State, error) { return &term.State{}, nil }
	tm.restore = func(int, *term.State) error {
		restored++
		return nil
	}

	restore, err := tm.Raw()
	require.NoError(t, err)

	// A shutdown path restores first, the timed read's own restore then finds
	// nothing left to undo.
	console := Console{terminal: tm}
	require.NoError(t, console.Restore())
	require.NoError(t, restore())
	require.NoError(t, tm.Restore())
	assert.Equal(t, 1, restored)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "10 minutes", describe(600*time.Second))
	assert.Equal(t, "1 minute", describe(time.Minute))
	assert.Equal(t, "2 seconds", describe(2*time.Second))
	assert.Equal(t, "1.5s", describe(1500*time.Millisecond))
}
