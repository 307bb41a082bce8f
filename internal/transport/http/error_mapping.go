package http

import (
	"errors"
	"strings"

	"esgdash/internal/charts"
	apierrors "esgdash/internal/errors"
	"esgdash/internal/exporter"
	"esgdash/internal/services"
)

// apiError maps service errors to API errors. name is the view, chart or
// format the request asked for.
func apiError(err error, name string) error {
	switch {
	case errors.Is(err, services.ErrNoDataset):
		return apierrors.ErrDatasetUnavailable
	case errors.Is(err, services.ErrUnknownView):
		return apierrors.UnknownViewError(name)
	case errors.Is(err, services.ErrViewSkipped):
		return apierrors.ViewSkippedError(name, skipReason(err))
	case errors.Is(err, services.ErrUnknownColumn):
		return apierrors.UnknownColumnError(name)
	case errors.Is(err, services.ErrNotNumeric):
		return apierrors.NotNumericError(name)
	case errors.Is(err, charts.ErrUnsupportedFormat), errors.Is(err, exporter.ErrUnsupportedFormat):
		return apierrors.UnsupportedFormatError(name)
	case errors.Is(err, services.ErrServiceUnavailable):
		return apierrors.ErrServiceUnavailable
	}
	return err
}

// skipReason returns the text after the last "view skipped: <view>: " prefix.
func skipReason(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, services.ErrViewSkipped.Error()+": "); i >= 0 {
		msg = msg[i+len(services.ErrViewSkipped.Error())+2:]
	}
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return "no data for this view"
}
