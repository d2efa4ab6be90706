package ledger

import "errors"

var (
	// ErrAlreadyExists is returned when creating a report or file that is
	// already in the storage root.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound is returned when reading or appending to a report or file
	// that is not in the storage root.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName is returned for names that would escape the storage root.
	ErrInvalidName = errors.New("invalid file name")
	// ErrInvalidPeriod is returned for a report period outside the supported
	// range.
	ErrInvalidPeriod = errors.New("invalid report period")
	// ErrReportOverwrite is returned when a write would replace the content of
	// a sales report. Reports only grow.
	ErrReportOverwrite = errors.New("sales reports cannot be overwritten")
)
