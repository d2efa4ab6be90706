package menu

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storemanager/ledger"
	"storemanager/sale"
)

func (m *Machine) registerSale() error {
	fmt.Fprintln(m.out, "\n--- Register New Sale ---")
	reports, err := m.store.ListReports()
	if err != nil {
		m.showError(err)
		return nil
	}
	if len(reports) == 0 {
		fmt.Fprintln(m.out, "There are no sales reports. Create one first with option 3.")
		return nil
	}

	fmt.Fprintln(m.out, "Available reports:", strings.Join(reports, ", "))
	reportID, err := m.ask("-> Name of the report to add the sale to: ")
	if err != nil {
		return err
	}

	product, err := m.ask("-> Product name: ")
	if err != nil {
		return err
	}
	if product == "" {
		fmt.Fprintln(m.out, "\nThe product name cannot be empty. Sale cancelled.")
		return nil
	}

	quantity, err := m.askNumber("-> Quantity sold: ", "Error: the quantity must be a number.", nil)
	if err != nil {
		return err
	}
	price, err := m.askNumber("-> Unit price: $", "Error: the price must be a number.", func(d decimal.Decimal) string {
		if d.IsNegative() {
			return "Error: the price cannot be negative."
		}
		return ""
	})
	if err != nil {
		return err
	}
	date, err := m.askDate()
	if err != nil {
		return err
	}

	s, err := sale.New(product, quantity, price, date, m.session.Name())
	if err != nil {
		m.showError(err)
		return nil
	}
	if err := m.store.AppendSale(reportID, s); err != nil {
		m.showError(err)
		return nil
	}
	fmt.Fprintf(m.out, "\nSale registered successfully in '%s'!\n", reportID)
	fmt.Fprintf(m.out, "Subtotal: $%s\n", s.Subtotal().StringFixed(2))
	return nil
}

func (m *Machine) viewReport() error {
	fmt.Fprintln(m.out, "\n--- View Sales Report ---")
	reports, err := m.store.ListReports()
	if err != nil {
		m.showError(err)
		return nil
	}
	if len(reports) == 0 {
		fmt.Fprintln(m.out, "There are no sales reports to show.")
		return nil
	}

	fmt.Fprintln(m.out, "Available reports:", strings.Join(reports, ", "))
	reportID, err := m.ask("-> Name of the report to view: ")
	if err != nil {
		return err
	}
	if reportID == "" {
		fmt.Fprintln(m.out, "No report selected.")
		return nil
	}

	report, err := m.store.ReadReport(reportID)
	if err != nil {
		m.showError(err)
		return nil
	}

	rule := strings.Repeat("-", len(report.ID)+20)
	fmt.Fprintf(m.out, "\n--- Content of: %s ---\n", report.ID)
	if report.Content == "" {
		fmt.Fprintln(m.out, "(empty report)")
	} else {
		fmt.Fprint(m.out, report.Content)
		if !strings.HasSuffix(report.Content, "\n") {
			fmt.Fprintln(m.out)
		}
	}
	fmt.Fprintln(m.out, rule)
	fmt.Fprintf(m.out, "TOTAL REVENUE IN THIS REPORT: $%s\n", report.Total.StringFixed(2))
	if report.Malformed > 0 {
		fmt.Fprintf(m.out, "(%d malformed lines were skipped)\n", report.Malformed)
	}
	fmt.Fprintln(m.out, rule)
	return nil
}

func (m *Machine) createReport() error {
	fmt.Fprintln(m.out, "\n--- Create New Monthly Report ---")
	year, err := m.askInt("-> Year (e.g. 2023): ", "Error: the year must be a number.")
	if err != nil {
		return err
	}
	month, err := m.askInt("-> Month (e.g. 10 for October): ", "Error: the month must be a number.")
	if err != nil {
		return err
	}

	id, err := m.store.CreateReport(year, time.Month(month))
	if err != nil {
		m.showError(err)
		return nil
	}
	fmt.Fprintf(m.out, "Success! Report '%s' created.\n", id)
	return nil
}

func (m *Machine) manageFiles() error {
	for {
		fmt.Fprintln(m.out, "\n--- File Management ---")
		fmt.Fprintln(m.out, "[1] List files | [2] Create file")
		fmt.Fprintln(m.out, "[3] Read file  | [4] Write to file")
		fmt.Fprintln(m.out, "[5] Back to the main menu")

		option, err := m.ask("Select an option: ")
		if err != nil {
			return err
		}

		switch option {
		case "1":
			m.listFiles()
		case "2":
			if err := m.createFile(); err != nil {
				return err
			}
		case "3":
			done, err := m.readFile()
			if err != nil {
				return err
			}
			if !done {
				continue
			}
		case "4":
			done, err := m.writeFile()
			if err != nil {
				return err
			}
			if !done {
				continue
			}
		case "5":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option.")
		}

		if err := m.pause("\nPress Enter to continue..."); err != nil {
			return err
		}
	}
}

func (m *Machine) listFiles() {
	files, err := m.store.ListFiles()
	if err != nil {
		m.showError(err)
		return
	}
	fmt.Fprintf(m.out, "\nAvailable files (%d):\n", len(files))
	for i, f := range files {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, f)
	}
}

func (m *Machine) createFile() error {
	name, err := m.ask("File name: ")
	if err != nil {
		return err
	}
	content, err := m.ask("Initial content (optional): ")
	if err != nil {
		return err
	}
	if content != "" {
		content += "\n"
	}
	created, err := m.store.CreateFile(name, content)
	if err != nil {
		m.showError(err)
		return nil
	}
	fmt.Fprintf(m.out, "File '%s' created successfully!\n", created)
	return nil
}

// readFile returns done=false when there was nothing to read, in which case
// the sub-menu is shown again without pausing.
func (m *Machine) readFile() (bool, error) {
	files, err := m.store.ListFiles()
	if err != nil {
		m.showError(err)
		return true, nil
	}
	if len(files) == 0 {
		fmt.Fprintln(m.out, "No files available.")
		return false, nil
	}
	fmt.Fprintln(m.out, "Available files:", strings.Join(files, ", "))
	name, err := m.ask("Name of the file to read: ")
	if err != nil {
		return true, err
	}
	content, err := m.store.ReadFile(name)
	if err != nil {
		m.showError(err)
		return true, nil
	}
	fmt.Fprintf(m.out, "\n--- Content of %s ---\n", name)
	fmt.Fprint(m.out, content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(m.out)
	}
	fmt.Fprintln(m.out, strings.Repeat("-", len(name)+20))
	return true, nil
}

// writeFile returns done=false when the write mode was not understood.
func (m *Machine) writeFile() (bool, error) {
	files, err := m.store.ListFiles()
	if err != nil {
		m.showError(err)
		return true, nil
	}
	fmt.Fprintln(m.out, "Available files:", strings.Join(files, ", "))
	name, err := m.ask("File name: ")
	if err != nil {
		return true, err
	}
	answer, err := m.ask("Mode (w=overwrite, a=append): ")
	if err != nil {
		return true, err
	}

	var mode ledger.WriteMode
	switch strings.ToLower(answer) {
	case "w":
		mode = ledger.Overwrite
	case "a":
		mode = ledger.Append
	default:
		fmt.Fprintln(m.out, "Invalid mode.")
		return false, nil
	}

	content, err := m.askContent()
	if err != nil {
		return true, err
	}
	if err := m.store.WriteFile(name, content, mode); err != nil {
		m.showError(err)
		return true, nil
	}
	fmt.Fprintln(m.out, "Content saved successfully!")
	return true, nil
}
