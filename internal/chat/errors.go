package chat

import "errors"

var (
	// ErrInvalidExport indicates the export could not be decoded.
	ErrInvalidExport = errors.New("invalid chat export")
	// ErrUnknownKind is returned when a statistic name is not recognised.
	ErrUnknownKind = errors.New("unknown statistic kind")
	// ErrUnknownLocale is returned for locales without translated bucket names.
	ErrUnknownLocale = errors.New("unknown locale")
	// ErrInvalidOption indicates an aggregator option is out of range.
	ErrInvalidOption = errors.New("invalid aggregator option")
)
