package dataset

import "errors"

var (
	// ErrNoDataset is returned when no candidate path produced a table.
	ErrNoDataset = errors.New("dataset not found in any candidate path")
	// ErrUnknownColumn is returned when a requested column is absent.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotNumeric is returned when a numeric operation targets a text column.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrEmptyFile is returned for files without even a header row.
	ErrEmptyFile = errors.New("file has no header row")
)
