package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storemanager/ledger"
	"storemanager/sale"
)

func (m *Machine) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	line, err := m.lines.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Machine) pause(prompt string) error {
	_, err := m.ask(prompt)
	return err
}

// askNumber re-prompts until the answer parses as a decimal and passes check.
func (m *Machine) askNumber(prompt, invalid string, check func(decimal.Decimal) string) (decimal.Decimal, error) {
	for {
		answer, err := m.ask(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		n, err := sale.ParseNumber(answer)
		if err != nil {
			fmt.Fprintln(m.out, invalid)
			continue
		}
		if check != nil {
			if msg := check(n); msg != "" {
				fmt.Fprintln(m.out, msg)
				continue
			}
		}
		return n, nil
	}
}

func (m *Machine) askInt(prompt, invalid string) (int, error) {
	for {
		answer, err := m.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(m.out, invalid)
			continue
		}
		return n, nil
	}
}

// askDate re-prompts, without limit, until a valid dd/mm/yyyy date is given.
func (m *Machine) askDate() (sale.Date, error) {
	for {
		answer, err := m.ask("-> Transaction date (dd/mm/yyyy): ")
		if err != nil {
			return sale.Date{}, err
		}
		d, err := sale.ParseDate(answer)
		if err != nil {
			fmt.Fprintln(m.out, "ERROR: Invalid format. Example: 25/12/2023.")
			continue
		}
		return d, nil
	}
}

// askContent collects lines until an empty one.
func (m *Machine) askContent() (string, error) {
	fmt.Fprintln(m.out, "Write the content (finish with an empty line):")
	var lines []string
	for {
		line, err := m.lines.ReadLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// showError renders a store failure for the operator. Failures outside the
// known taxonomy are also logged.
func (m *Machine) showError(err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrAlreadyExists),
		errors.Is(err, ledger.ErrInvalidName),
		errors.Is(err, ledger.ErrInvalidPeriod),
		errors.Is(err, ledger.ErrReportOverwrite),
		errors.Is(err, sale.ErrInvalidFormat):
	default:
		log.Errorf("Unexpected storage error: %v", err)
	}
	fmt.Fprintf(m.out, "ERROR: %v\n", err)
}
