package input

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"
)

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader reads newline terminated lines from r. A final line without a
// newline is returned before io.EOF.
func NewLineReader(r io.Reader) LineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// blockingController is used where keystrokes cannot be polled. It performs a
// single blocking line read and only afterwards compares the elapsed time with
// the timeout, so an operator who never presses Enter is never asked whether
// to continue.
type blockingController struct {
	lines LineReader
	out   io.Writer
	now   func() time.Time
}

func NewBlockingController(lines LineReader, out io.Writer) Controller {
	return &blockingController{
		lines: lines,
		out:   out,
		now:   time.Now,
	}
}

func (c *blockingController) ReadWithTimeout(timeout time.Duration) (Result, error) {
	promptChoice(c.out, timeout)
	start := c.now()

	line, err := c.lines.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{Kind: Exit}, nil
		}
		return Result{}, err
	}
	if c.now().Sub(start) < timeout {
		return Result{Kind: Choice, Value: strings.TrimSpace(line)}, nil
	}

	log.Debugf("Discarding late menu input %q", line)
	return askContinue(c.lines, c.out)
}
