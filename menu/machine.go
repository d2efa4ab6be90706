package menu

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/op/go-logging"

	"storemanager/input"
	"storemanager/ledger"
	"storemanager/sale"
	"storemanager/session"
)

var log = logging.MustGetLogger("log")

// State of the menu driver.
type State int

const (
	AwaitingVendor State = iota
	MainMenu
	RegisterSale
	ViewReport
	CreateReport
	ManageFiles
	SwitchVendor
	Exiting
)

var stateNames = map[State]string{
	AwaitingVendor: "AwaitingVendor",
	MainMenu:       "MainMenu",
	RegisterSale:   "RegisterSale",
	ViewReport:     "ViewReport",
	CreateReport:   "CreateReport",
	ManageFiles:    "ManageFiles",
	SwitchVendor:   "SwitchVendor",
	Exiting:        "Exiting",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// mainOptions maps the digits of the main menu to the state they lead to.
var mainOptions = map[string]State{
	"1": RegisterSale,
	"2": ViewReport,
	"3": CreateReport,
	"4": ManageFiles,
	"5": SwitchVendor,
	"6": Exiting,
}

// Ledger is the part of the ledger store the menu drives.
type Ledger interface {
	CreateReport(year int, month time.Month) (string, error)
	ListReports() ([]string, error)
	AppendSale(reportID string, s sale.Sale) error
	ReadReport(reportID string) (ledger.Report, error)
	ListFiles() ([]string, error)
	CreateFile(name, initialContent string) (string, error)
	ReadFile(name string) (string, error)
	WriteFile(name, content string, mode ledger.WriteMode) error
}

// Config tunes the presentation of the menu.
type Config struct {
	// Timeout is the maximum wait on the main menu.
	Timeout time.Duration
	// LoadingStep is the pause between the dots of the loading indicator.
	LoadingStep time.Duration
	// ClearScreen clears the terminal before the main menu is drawn.
	ClearScreen bool
}

// Machine drives one operator session at the terminal.
type Machine struct {
	store   Ledger
	timed   input.Controller
	lines   input.LineReader
	out     io.Writer
	audit   ledger.Auditor
	cfg     Config
	session *session.Session
	state   State
}

func New(store Ledger, timed input.Controller, lines input.LineReader, out io.Writer, audit ledger.Auditor, cfg Config) *Machine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 600 * time.Second
	}
	if audit == nil {
		audit = ledger.LogAuditor{}
	}
	return &Machine{
		store: store,
		timed: timed,
		lines: lines,
		out:   out,
		audit: audit,
		cfg:   cfg,
		state: AwaitingVendor,
	}
}

func (m *Machine) State() State {
	return m.state
}

// Session returns the active vendor session, nil while awaiting a vendor.
func (m *Machine) Session() *session.Session {
	return m.session
}

// Run drives the machine until the operator exits. Closed input also ends the
// run; any other error is returned.
func (m *Machine) Run() error {
	fmt.Fprintln(m.out, "--- Sales Register ---")
	for m.state != Exiting {
		next, err := m.step()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Infof("Input closed in state %s, leaving", m.state)
				break
			}
			return err
		}
		if next != m.state {
			log.Debugf("Menu transition %s -> %s", m.state, next)
		}
		m.state = next
	}
	m.state = Exiting
	fmt.Fprintln(m.out, "Closing the system. See you soon!")
	if m.session != nil {
		m.record("Session closed for vendor %s after %s", m.session,
			time.Since(m.session.Started()).Round(time.Second))
	}
	return nil
}

func (m *Machine) step() (State, error) {
	switch m.state {
	case AwaitingVendor:
		if err := m.login(); err != nil {
			return m.state, err
		}
		m.loading(3)
		return MainMenu, nil

	case MainMenu:
		return m.mainMenu()

	case RegisterSale:
		return m.afterAction(m.registerSale())

	case ViewReport:
		return m.afterAction(m.viewReport())

	case CreateReport:
		return m.afterAction(m.createReport())

	case ManageFiles:
		if err := m.manageFiles(); err != nil {
			return m.state, err
		}
		return MainMenu, nil

	case SwitchVendor:
		fmt.Fprintln(m.out, "\n--- Switching Vendor ---")
		if m.session != nil {
			m.record("Vendor %s signed off", m.session)
		}
		m.session = nil
		if err := m.login(); err != nil {
			return m.state, err
		}
		m.loading(2)
		return m.afterAction(nil)
	}
	return m.state, fmt.Errorf("no handler for state %s", m.state)
}

func (m *Machine) afterAction(err error) (State, error) {
	if err != nil {
		return m.state, err
	}
	if err := m.pause("\nPress Enter to return to the menu..."); err != nil {
		return m.state, err
	}
	return MainMenu, nil
}

// login blocks, without timeout, until a non-empty vendor name is entered.
func (m *Machine) login() error {
	for m.session == nil {
		name, err := m.ask("Please enter your vendor name: ")
		if err != nil {
			return err
		}
		s, err := session.New(name)
		if err != nil {
			if errors.Is(err, session.ErrEmptyName) {
				fmt.Fprintln(m.out, "The name cannot be empty.")
			} else {
				fmt.Fprintf(m.out, "ERROR: %v\n", err)
			}
			continue
		}
		m.session = s
	}
	fmt.Fprintln(m.out, m.session.Greeting())
	m.record("Active vendor: %s", m.session)
	return nil
}

// record writes a session event to the audit trail. A failure is shown to the
// operator but does not end the session.
func (m *Machine) record(format string, args ...interface{}) {
	if err := m.audit.Record(format, args...); err != nil {
		log.Errorf("Could not audit session event: %v", err)
		fmt.Fprintf(m.out, "ERROR: %v\n", err)
	}
}

func (m *Machine) loading(steps int) {
	fmt.Fprint(m.out, "Starting point of sale system")
	for i := 0; i < steps; i++ {
		if m.cfg.LoadingStep > 0 {
			time.Sleep(m.cfg.LoadingStep)
		}
		fmt.Fprint(m.out, ".")
	}
	fmt.Fprintln(m.out, "\nSystem ready!")
}

func (m *Machine) renderMenu() {
	if m.cfg.ClearScreen {
		fmt.Fprint(m.out, "\033[H\033[2J")
	}
	rule := strings.Repeat("=", 45)
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, rule)
	fmt.Fprintf(m.out, "%sPOINT OF SALE MENU (%s)\n", strings.Repeat(" ", 8), m.session.Name())
	fmt.Fprintln(m.out, rule)
	fmt.Fprintln(m.out, "[1] Register New Sale   | [2] View Sales Report")
	fmt.Fprintln(m.out, "[3] Create Monthly Report | [4] Manage Files")
	fmt.Fprintln(m.out, "[5] Switch Vendor       | [6] Exit the System")
	fmt.Fprintln(m.out, rule)
}

func (m *Machine) mainMenu() (State, error) {
	m.renderMenu()
	res, err := m.timed.ReadWithTimeout(m.cfg.Timeout)
	if err != nil {
		return m.state, err
	}

	switch res.Kind {
	case input.Continue:
		return MainMenu, nil
	case input.Exit:
		log.Infof("Leaving after menu timeout")
		return Exiting, nil
	}

	next, ok := mainOptions[res.Value]
	if !ok {
		fmt.Fprintln(m.out, "Invalid option. Choose a number from 1 to 6.")
		return m.afterAction(nil)
	}
	return next, nil
}
