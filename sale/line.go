package sale

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Entry is a ledger line read back from disk. Only Subtotal is guaranteed to
// be meaningful; the other fields are kept as written so hand-edited lines are
// not rejected for cosmetic reasons.
type Entry struct {
	Date      string
	Vendor    string
	Product   string
	Quantity  string
	UnitPrice string
	Subtotal  decimal.Decimal
}

// ParseLine reads a ledger line. A line is well formed when it contains the
// "]: " delimiter followed by at least five comma separated fields, the last
// of which is a decimal number. Product names containing commas are rebuilt
// from the middle fields.
func ParseLine(line string) (Entry, error) {
	head, body, found := strings.Cut(line, dateDelimiter)
	if !found {
		return Entry{}, fmt.Errorf("missing %q delimiter: %w", strings.TrimSpace(dateDelimiter), ErrMalformedLine)
	}

	fields := strings.Split(body, fieldSep)
	if len(fields) < minFields {
		return Entry{}, fmt.Errorf("expected %d fields, found %d: %w", minFields, len(fields), ErrMalformedLine)
	}

	last := len(fields) - 1
	subtotal, err := decimal.NewFromString(strings.TrimSpace(fields[last]))
	if err != nil {
		return Entry{}, fmt.Errorf("subtotal %q is not a number: %w", fields[last], ErrMalformedLine)
	}

	return Entry{
		Date:      strings.TrimPrefix(strings.TrimSpace(head), datePrefix),
		Vendor:    fields[0],
		Product:   strings.Join(fields[1:last-2], fieldSep),
		Quantity:  fields[last-2],
		UnitPrice: fields[last-1],
		Subtotal:  subtotal,
	}, nil
}

// Sum adds up the subtotals of entries.
func Sum(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Subtotal)
	}
	return total
}
