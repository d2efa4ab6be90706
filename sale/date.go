package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFormat is returned for operator input that does not parse as a
// number or a calendar date.
var ErrInvalidFormat = errors.New("invalid format")

const inputLayout = "2/1/2006"

// Date is a transaction date as written on the ledger.
type Date struct {
	Day   int
	Month time.Month
	Year  int
}

func NewDate(day int, month time.Month, year int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return Date{}, fmt.Errorf("%02d/%02d/%04d is not a calendar date: %w", day, month, year, ErrInvalidFormat)
	}
	return Date{Day: day, Month: month, Year: year}, nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Day: d, Month: m, Year: y}
}

// ParseDate parses dd/mm/yyyy. The year must have four digits and the day must
// exist in that month.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(inputLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("%q (expected dd/mm/yyyy): %w", value, ErrInvalidFormat)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
