package services

import (
	"errors"

	"esgdash/internal/dataset"
)

// Dashboard service errors
var (
	// Dataset errors
	ErrNoDataset     = dataset.ErrNoDataset
	ErrUnknownColumn = dataset.ErrUnknownColumn
	ErrNotNumeric    = dataset.ErrNotNumeric

	// View errors
	ErrUnknownView = errors.New("unknown view")
	ErrViewSkipped = errors.New("view skipped")

	// General errors
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
