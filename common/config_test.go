package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitConfigRequiresDataDir(t *testing.T) {
	_, err := InitConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config field: data-dir")

	_, err = InitConfig(writeConfig(t, `{"log-level": "DEBUG"}`))
	assert.ErrorContains(t, err, "data-dir")
}

func TestInitConfigDefaultsWithoutFile(t *testing.T) {
	t.Setenv("DATA_DIR", "data")
	cfg, err := InitConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 600*time.Second, cfg.MenuTimeout())
	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Equal(t, []string{"inventario.txt", "proveedores.txt", "clientes.txt", "configuracion.txt"}, cfg.SeedFiles)
	assert.False(t, cfg.ForceLineInput)
}

func TestInitConfigReadsFile(t *testing.T) {
	path := writeConfig(t, `{
		"data-dir": "ventas",
		"log-level": "DEBUG",
		"menu-timeout-seconds": 30,
		"seed-files": ["stock.txt"],
		"force-line-input": true
	}`)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ventas", cfg.DataDir)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.MenuTimeout())
	assert.Equal(t, []string{"stock.txt"}, cfg.SeedFiles)
	assert.True(t, cfg.ForceLineInput)
	assert.Equal(t, "logs", cfg.LogDir)
}

func TestInitConfigEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"data-dir": "ventas", "poll-interval-ms": 250}`)
	t.Setenv("DATA_DIR", "desde-env")
	t.Setenv("SEED_FILES", "a.txt, b.txt")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "desde-env", cfg.DataDir)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
	assert.Equal(t, []string{"a.txt", "b.txt"}, cfg.SeedFiles)
}

func TestInitConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"timeout":  `{"data-dir": "data", "menu-timeout-seconds": 0}`,
		"interval": `{"data-dir": "data", "poll-interval-ms": -5}`,
		"data dir": `{"data-dir": "  "}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := InitConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestInitConfigMalformedFile(t *testing.T) {
	_, err := InitConfig(writeConfig(t, `{"data-dir": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read config")
}

func TestNewEnvironmentSeedsStorage(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		DataDir:   filepath.Join(root, "data"),
		LogDir:    filepath.Join(root, "logs"),
		SeedFiles: []string{"inventario.txt", "clientes"},
	}
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)

	env, err := NewEnvironment(cfg, now)
	require.NoError(t, err)

	files, err := env.Store.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"clientes.txt", "inventario.txt", "ventas_2024-03.txt"}, files)

	content, err := env.Store.ReadFile("inventario.txt")
	require.NoError(t, err)
	assert.Equal(t, "# Archivo creado automáticamente\n", content)
	require.NoError(t, env.Close())

	audit, err := os.ReadFile(filepath.Join(cfg.LogDir, AuditLogName))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(audit), "\n"))

	// A second start finds everything in place and records nothing new.
	env, err = NewEnvironment(cfg, now)
	require.NoError(t, err)
	require.NoError(t, env.Close())
	again, err := os.ReadFile(filepath.Join(cfg.LogDir, AuditLogName))
	require.NoError(t, err)
	assert.Equal(t, string(audit), string(again))
}
