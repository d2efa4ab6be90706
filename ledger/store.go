package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/shopspring/decimal"

	pers "storemanager/persistance"
	"storemanager/sale"
)

var log = logging.MustGetLogger("log")

const (
	reportPrefix = "ventas_"
	fileSuffix   = ".txt"

	seedContent    = "# Archivo creado automáticamente\n"
	newFileContent = "# Archivo nuevo\n"

	periodLayout = "2006-01"

	minYear = 2001
	maxYear = 2099
)

// Auditor receives one line for every operation that changes the storage
// root. A mutation whose line could not be recorded is reported as failed.
type Auditor interface {
	Record(format string, args ...interface{}) error
}

// LogAuditor records on the process log. It is the fallback when no trail is
// configured.
type LogAuditor struct{}

func (LogAuditor) Record(format string, args ...interface{}) error {
	log.Infof(format, args...)
	return nil
}

// WriteMode selects how WriteFile treats existing content.
type WriteMode int

const (
	Overwrite WriteMode = iota
	Append
)

func (m WriteMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// Report is the result of reading a monthly ledger.
type Report struct {
	ID        string
	Content   string
	Entries   []sale.Entry
	Total     decimal.Decimal
	Malformed int
}

// Store keeps monthly sales reports and free-form text files in a single
// directory. It assumes a single writer; appends are not locked.
type Store struct {
	root  string
	audit Auditor
}

// NewStore opens the storage root, creating the directory if it is absent.
func NewStore(root string, audit Auditor) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	if audit == nil {
		audit = LogAuditor{}
	}
	return &Store{root: root, audit: audit}, nil
}

func (s *Store) Root() string {
	return s.root
}

// ReportID returns the file name of the report for a period. Zero padding
// keeps lexicographic order equal to chronological order.
func ReportID(year int, month time.Month) string {
	return fmt.Sprintf("%s%04d-%02d%s", reportPrefix, year, int(month), fileSuffix)
}

func validatePeriod(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("month %d outside 1-12: %w", int(month), ErrInvalidPeriod)
	}
	if year < minYear || year > maxYear {
		return fmt.Errorf("year %d outside %d-%d: %w", year, minYear, maxYear, ErrInvalidPeriod)
	}
	return nil
}

// CreateReport creates an empty ledger for the period. It never touches an
// existing ledger.
func (s *Store) CreateReport(year int, month time.Month) (string, error) {
	if err := validatePeriod(year, month); err != nil {
		return "", err
	}
	id := ReportID(year, month)
	if err := pers.CreateExclusive(s.path(id), nil); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("report '%s': %w", id, ErrAlreadyExists)
		}
		return "", err
	}
	if err := s.audit.Record("Monthly report created: %s", id); err != nil {
		return "", fmt.Errorf("report '%s' created but not audited: %w", id, err)
	}
	return id, nil
}

// ListReports returns the report ids in the storage root sorted by name.
func (s *Store) ListReports() ([]string, error) {
	names, err := s.glob(reportPrefix + "*" + fileSuffix)
	if err != nil {
		return nil, err
	}
	reports := names[:0]
	for _, n := range names {
		if isReportID(n) {
			reports = append(reports, n)
		}
	}
	return reports, nil
}

// AppendSale appends the serialized sale to an existing report.
func (s *Store) AppendSale(reportID string, sl sale.Sale) error {
	id, err := reportName(reportID)
	if err != nil {
		return err
	}
	if err := pers.AppendLine(s.path(id), sl.Line()); err != nil {
		if errors.Is(err, pers.ErrMissing) {
			return fmt.Errorf("report '%s': %w", id, ErrNotFound)
		}
		return err
	}
	if err := s.audit.Record("Sale registered in %s by %s: %s x %s = %s",
		id, sl.Vendor, sl.Product, sl.Quantity, sl.Subtotal().StringFixed(2)); err != nil {
		return fmt.Errorf("sale appended to '%s' but not audited: %w", id, err)
	}
	return nil
}

// ReadReport returns the content of a report and the sum of the subtotals of
// its well formed lines. Malformed lines are logged and skipped.
func (s *Store) ReadReport(reportID string) (Report, error) {
	id, err := reportName(reportID)
	if err != nil {
		return Report{}, err
	}
	data, err := s.readExisting("report", id)
	if err != nil {
		return Report{}, err
	}

	report := Report{ID: id, Content: string(data)}
	it := pers.NewLineIterator(bytes.NewReader(data))
	defer it.Close()
	for {
		line, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Report{}, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := sale.ParseLine(line)
		if err != nil {
			report.Malformed++
			log.Warningf("Line %d malformed in '%s': '%s' (%v)", it.LineNumber(), id, line, err)
			continue
		}
		report.Entries = append(report.Entries, entry)
	}
	report.Total = sale.Sum(report.Entries)

	log.Infof("Report read: %s", id)
	return report, nil
}

// ListFiles returns every text file in the storage root, reports included.
func (s *Store) ListFiles() ([]string, error) {
	return s.glob("*" + fileSuffix)
}

// CreateFile creates a new text file. Empty initial content is replaced by a
// placeholder header.
func (s *Store) CreateFile(name, initialContent string) (string, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", err
	}
	if initialContent == "" {
		initialContent = newFileContent
	}
	if err := pers.CreateExclusive(s.path(name), []byte(initialContent)); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("file '%s': %w", name, ErrAlreadyExists)
		}
		return "", err
	}
	if err := s.audit.Record("Custom file created: %s", name); err != nil {
		return "", fmt.Errorf("file '%s' created but not audited: %w", name, err)
	}
	return name, nil
}

// ReadFile returns the full content of a text file.
func (s *Store) ReadFile(name string) (string, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", err
	}
	data, err := s.readExisting("file", name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces or extends a text file. Overwrite creates the file when
// it is missing; Append requires it to exist.
func (s *Store) WriteFile(name, content string, mode WriteMode) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	path := s.path(name)

	switch mode {
	case Overwrite:
		if isReportID(name) {
			return fmt.Errorf("report '%s': %w", name, ErrReportOverwrite)
		}
		if err := pers.WriteAtomic(path, []byte(content)); err != nil {
			return err
		}
		if err := s.audit.Record("Content written to: %s", name); err != nil {
			return fmt.Errorf("file '%s' written but not audited: %w", name, err)
		}
	case Append:
		l, err := pers.OpenLineLog(path, false)
		if err != nil {
			if errors.Is(err, pers.ErrMissing) {
				return fmt.Errorf("file '%s': %w", name, ErrNotFound)
			}
			return err
		}
		_, werr := l.Write([]byte(content))
		if cerr := l.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return werr
		}
		if err := s.audit.Record("Content appended to: %s", name); err != nil {
			return fmt.Errorf("file '%s' appended but not audited: %w", name, err)
		}
	default:
		return fmt.Errorf("unknown write mode %s", mode)
	}
	return nil
}

// Seed creates the placeholder files and the report for the month of now,
// skipping whatever already exists.
func (s *Store) Seed(placeholders []string, now time.Time) error {
	for _, p := range placeholders {
		name, err := normalizeName(p)
		if err != nil {
			return err
		}
		err = pers.CreateExclusive(s.path(name), []byte(seedContent))
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return err
		}
		if err := s.audit.Record("Placeholder file created: %s", name); err != nil {
			return fmt.Errorf("placeholder '%s' created but not audited: %w", name, err)
		}
	}

	_, err := s.CreateReport(now.Year(), now.Month())
	if err != nil && !errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, name)
}

func (s *Store) readExisting(kind, name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s '%s': %w", kind, name, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, pattern))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if ok, err := pers.Exists(m); err != nil || !ok {
			continue
		}
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// reportName normalizes id and rejects names that do not follow the report
// naming scheme, so ledger lines never land in generic files.
func reportName(id string) (string, error) {
	name, err := normalizeName(id)
	if err != nil {
		return "", err
	}
	if !isReportID(name) {
		return "", fmt.Errorf("%q is not a sales report: %w", name, ErrInvalidName)
	}
	return name, nil
}

func isReportID(name string) bool {
	period, ok := strings.CutPrefix(name, reportPrefix)
	if !ok {
		return false
	}
	period, ok = strings.CutSuffix(period, fileSuffix)
	if !ok || len(period) != len(periodLayout) {
		return false
	}
	_, err := time.Parse(periodLayout, period)
	return err == nil
}

// normalizeName trims name, rejects anything that is not a plain file name and
// appends the .txt suffix when it is missing.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if !strings.HasSuffix(name, fileSuffix) {
		name += fileSuffix
	}
	return name, nil
}
