package persistance

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrMissing is returned by OpenLineLog when the file does not exist and
// creation was not requested.
var ErrMissing = errors.New("log file does not exist")

// LineLog is an append-only text file. Every Append is followed by an fsync so
// a line that was acknowledged is on disk.
type LineLog interface {
	Append(line string) error
	Write(p []byte) (int, error)
	Path() string
	Close() error
}

type lineLog struct {
	mu      sync.Mutex
	logPath string
	logFile *os.File
}

// OpenLineLog opens path for appending. When create is false the file must
// already exist.
func OpenLineLog(path string, create bool) (LineLog, error) {
	flags := os.O_WRONLY | os.O_APPEND
	if create {
		flags |= os.O_CREATE
	}
	lf, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissing)
		}
		return nil, err
	}

	return &lineLog{
		logPath: path,
		logFile: lf,
	}, nil
}

// Append writes line plus a trailing newline in a single write and commits it.
func (l *lineLog) Append(line string) error {
	line = strings.TrimRight(line, "\r\n")
	_, err := l.Write([]byte(line + "\n"))
	return err
}

// Write makes the log usable as an io.Writer for logging backends. Each call
// is committed before returning.
func (l *lineLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile == nil {
		return 0, fmt.Errorf("log not opened")
	}
	n, err := l.logFile.Write(p)
	if err != nil {
		return n, err
	}
	return n, l.logFile.Sync()
}

func (l *lineLog) Path() string {
	return l.logPath
}

func (l *lineLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		err := l.logFile.Close()
		l.logFile = nil
		return err
	}
	return nil
}

// AppendLine opens path, appends a single line and closes it again. The file
// must exist.
func AppendLine(path string, line string) error {
	l, err := OpenLineLog(path, false)
	if err != nil {
		return err
	}
	if err := l.Append(line); err != nil {
		l.Close()
		return err
	}
	return l.Close()
}
