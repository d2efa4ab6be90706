package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/op/go-logging"

	"storemanager/common"
	"storemanager/input"
	"storemanager/menu"
)

const loadingStep = 500 * time.Millisecond

var log = logging.MustGetLogger("log")

// InitLogger Receives the log level to be set in go-logging as a string and the
// writer that receives the process log. Errors are also echoed to stderr,
// since stdout belongs to the menu. If the level string is not valid an error
// is returned
func InitLogger(logLevel string, out io.Writer) error {
	format := logging.MustStringFormatter(
		`%{time:2006-01-02 15:04:05} %{level:.5s}     %{message}`,
	)

	fileBackend := logging.NewBackendFormatter(logging.NewLogBackend(out, "", 0), format)
	fileLeveled := logging.AddModuleLevel(fileBackend)
	logLevelCode, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	fileLeveled.SetLevel(logLevelCode, "")

	stderrBackend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), format)
	stderrLeveled := logging.AddModuleLevel(stderrBackend)
	stderrLeveled.SetLevel(logging.ERROR, "")

	// Set the backends to be used.
	logging.SetBackend(fileLeveled, stderrLeveled)
	return nil
}

func openProcessLog(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(common.ProcessLogPath(logDir), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func main() {
	config, err := common.InitConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	logFile, err := openProcessLog(config.LogDir)
	if err != nil {
		log.Fatalf("Failed to open process log: %s", err)
	}
	defer logFile.Close()

	if err := InitLogger(config.LogLevel, logFile); err != nil {
		log.Fatalf("%s", err)
	}

	log.Debugf("Config: %+v", config)

	env, err := common.NewEnvironment(config, time.Now())
	if err != nil {
		log.Fatalf("Failed to prepare storage: %v", err)
	}
	defer env.Close()

	console := input.Probe(os.Stdin, os.Stdout, config.PollInterval(), config.ForceLineInput)
	machine := menu.New(env.Store, console.Timed, console.Lines, os.Stdout, env.Audit, menu.Config{
		Timeout:     config.MenuTimeout(),
		LoadingStep: loadingStep,
		ClearScreen: console.Precise,
	})

	// Ctrl-C outside raw mode arrives as a signal.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Infof("Received signal %s, shutting down", sig)
		if err := console.Restore(); err != nil {
			log.Errorf("Could not restore terminal mode: %v", err)
		}
		fmt.Fprintln(os.Stdout, "\nSystem interrupted by the user.")
		if err := env.Audit.Record("Session interrupted by signal %s", sig); err != nil {
			log.Errorf("%v", err)
		}
		env.Close()
		logFile.Close()
		os.Exit(0)
	}()

	if err := machine.Run(); err != nil {
		log.Errorf("Menu stopped: %v", err)
		env.Close()
		logFile.Close()
		os.Exit(1)
	}
	log.Info("Sales register closed")
}
