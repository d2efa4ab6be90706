package sale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedLine marks a ledger line that cannot be read back as a sale.
var ErrMalformedLine = errors.New("malformed ledger line")

const (
	datePrefix    = "["
	dateDelimiter = "]: "
	fieldSep      = ","
	minFields     = 5
	moneyPlaces   = 2
)

// Sale is one transaction. The subtotal is never stored on the struct; it is
// derived from quantity and unit price every time it is needed.
type Sale struct {
	Product   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Date      Date
	Vendor    string
}

// New validates the inputs of a sale.
func New(product string, quantity, unitPrice decimal.Decimal, date Date, vendor string) (Sale, error) {
	product = strings.TrimSpace(product)
	vendor = strings.TrimSpace(vendor)
	if product == "" {
		return Sale{}, fmt.Errorf("product name is empty: %w", ErrInvalidFormat)
	}
	if strings.ContainsAny(product, "\r\n") {
		return Sale{}, fmt.Errorf("product name spans several lines: %w", ErrInvalidFormat)
	}
	if vendor == "" {
		return Sale{}, fmt.Errorf("vendor name is empty: %w", ErrInvalidFormat)
	}
	if strings.ContainsAny(vendor, ",\r\n") {
		return Sale{}, fmt.Errorf("vendor name %q contains a separator: %w", vendor, ErrInvalidFormat)
	}
	if unitPrice.IsNegative() {
		return Sale{}, fmt.Errorf("unit price %s is negative: %w", unitPrice, ErrInvalidFormat)
	}
	if date.IsZero() {
		return Sale{}, fmt.Errorf("transaction date is missing: %w", ErrInvalidFormat)
	}
	return Sale{
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Date:      date,
		Vendor:    vendor,
	}, nil
}

func (s Sale) Subtotal() decimal.Decimal {
	return s.Quantity.Mul(s.UnitPrice)
}

// Line renders the sale as a ledger line, without the trailing newline:
//
//	[YYYY-MM-DD]: vendor,product,quantity,price,subtotal
func (s Sale) Line() string {
	fields := []string{
		s.Vendor,
		s.Product,
		s.Quantity.String(),
		s.UnitPrice.StringFixed(moneyPlaces),
		s.Subtotal().StringFixed(moneyPlaces),
	}
	return datePrefix + s.Date.String() + dateDelimiter + strings.Join(fields, fieldSep)
}

// ParseNumber parses operator input as a decimal. A comma is accepted as the
// decimal separator.
func ParseNumber(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "$")
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number: %w", value, ErrInvalidFormat)
	}
	return d, nil
}
