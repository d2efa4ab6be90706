package audit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/op/go-logging"

	pers "storemanager/persistance"
)

const (
	module = "audit"
	format = `%{time:2006-01-02 15:04:05} [%{level}] - %{message}`
)

// lineBackend formats records and appends them to the trail file. It keeps
// the outcome of the last write because the logger discards backend errors.
type lineBackend struct {
	out       pers.LineLog
	formatter logging.Formatter

	mu   sync.Mutex
	last error
}

func (b *lineBackend) Log(level logging.Level, calldepth int, rec *logging.Record) error {
	var buf bytes.Buffer
	err := b.formatter.Format(calldepth+1, rec, &buf)
	if err == nil {
		err = b.out.Append(buf.String())
	}
	b.mu.Lock()
	b.last = err
	b.mu.Unlock()
	return err
}

func (b *lineBackend) reset() {
	b.mu.Lock()
	b.last = nil
	b.mu.Unlock()
}

func (b *lineBackend) lastErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Trail is the audit log: one timestamped line per mutating operation. Every
// line is fsync'd before the call returns.
type Trail struct {
	*logging.Logger
	out     pers.LineLog
	backend *lineBackend
	mu      sync.Mutex
}

// Open appends to the audit file at path, creating it and its directory if
// needed.
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	out, err := pers.OpenLineLog(path, true)
	if err != nil {
		return nil, err
	}

	backend := &lineBackend{out: out, formatter: logging.MustStringFormatter(format)}
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(logging.INFO, module)

	logger := logging.MustGetLogger(module)
	logger.SetBackend(leveled)
	return &Trail{Logger: logger, out: out, backend: backend}, nil
}

// Record writes one INFO line and reports whether it reached the disk.
func (t *Trail) Record(format string, args ...interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backend.reset()
	t.Logger.Infof(format, args...)
	if err := t.backend.lastErr(); err != nil {
		return fmt.Errorf("audit trail %s: %w", t.out.Path(), err)
	}
	return nil
}

func (t *Trail) Path() string {
	return t.out.Path()
}

func (t *Trail) Close() error {
	return t.out.Close()
}
