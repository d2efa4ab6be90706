package persistance

import (
	"bufio"
	"io"
	"strings"
)

// LineIterator walks the lines of a text stream in order.
type LineIterator interface {
	Next() (string, error) // returns line or io.EOF
	LineNumber() int       // 1-based number of the last line returned
	Close() error
}

type lineIterator struct {
	r      *bufio.Reader
	c      io.Closer
	lineNo int
}

// NewLineIterator returns an iterator over the lines of r. Carriage returns are
// stripped and a last line without a newline is still returned.
func NewLineIterator(r io.Reader) LineIterator {
	it := &lineIterator{r: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		it.c = c
	}
	return it
}

func (it *lineIterator) Next() (string, error) {
	line, err := it.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", err
		}
		if line == "" {
			return "", io.EOF
		}
		// torn last line, return what is there
	}
	it.lineNo++
	return strings.TrimRight(line, "\r\n"), nil
}

func (it *lineIterator) LineNumber() int {
	return it.lineNo
}

func (it *lineIterator) Close() error {
	if it.c != nil {
		err := it.c.Close()
		it.c = nil
		return err
	}
	return nil
}
