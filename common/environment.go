package common

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/op/go-logging"

	"storemanager/audit"
	"storemanager/ledger"
)

const (
	ProcessLogName = "sistema_ventas.log"
	AuditLogName   = "audit.log"
)

var log = logging.MustGetLogger("log")

// Environment holds the directories and long-lived handles of one run. It is
// built once at startup and closed on exit.
type Environment struct {
	DataDir string
	LogDir  string
	Audit   *audit.Trail
	Store   *ledger.Store
}

// NewEnvironment creates the storage and log directories, opens the audit
// trail and the ledger store, and seeds the placeholder files and the report
// for the month of now.
func NewEnvironment(cfg *Config, now time.Time) (*Environment, error) {
	for _, dir := range []string{cfg.DataDir, cfg.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}

	trail, err := audit.Open(filepath.Join(cfg.LogDir, AuditLogName))
	if err != nil {
		return nil, fmt.Errorf("could not open audit trail: %w", err)
	}

	store, err := ledger.NewStore(cfg.DataDir, trail)
	if err != nil {
		trail.Close()
		return nil, fmt.Errorf("could not open ledger store: %w", err)
	}

	if err := store.Seed(cfg.SeedFiles, now); err != nil {
		trail.Close()
		return nil, fmt.Errorf("could not seed storage: %w", err)
	}

	log.Infof("Environment ready: data in %s, audit trail in %s", cfg.DataDir, trail.Path())
	return &Environment{
		DataDir: cfg.DataDir,
		LogDir:  cfg.LogDir,
		Audit:   trail,
		Store:   store,
	}, nil
}

// ProcessLogPath is where the process log is written.
func ProcessLogPath(logDir string) string {
	return filepath.Join(logDir, ProcessLogName)
}

func (e *Environment) Close() error {
	return e.Audit.Close()
}
