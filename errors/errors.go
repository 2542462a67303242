// Package errors provides error handling for omniwordlist.
//
// This package re-exports github.com/cockroachdb/errors and defines the
// error kinds raised by the generation pipeline. Kinds are attached with
// Mark, so callers check them with Is while the message stays specific:
//
//	if errors.Is(err, errors.ErrTransform) {
//	    // unknown transform name
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Error kinds. Every error leaving a pipeline package carries exactly one
// of these marks.
var (
	// ErrConfig covers invalid bounds and unreadable or unparseable config files
	ErrConfig = New("configuration error")

	// ErrInvalidCharset is raised for an unknown named charset preset
	ErrInvalidCharset = New("invalid charset")

	// ErrGenerator is raised when a generation mode is missing required input
	ErrGenerator = New("generator error")

	// ErrTransform is raised for unknown or malformed transform names
	ErrTransform = New("transform error")

	// ErrFilter is raised for malformed filter specifications
	ErrFilter = New("filter error")

	// ErrStorage covers unsupported compression names and sink I/O failures
	ErrStorage = New("storage error")

	// ErrField covers unknown fields, unsatisfied dependencies and conflicts
	ErrField = New("field error")

	// ErrPreset is raised when a preset name is not found
	ErrPreset = New("preset error")

	// ErrSerialization is raised for malformed persisted state
	ErrSerialization = New("serialization error")

	// ErrLocked is raised when another run holds the job lock
	ErrLocked = New("job locked")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrConfig, "config"},
	{ErrInvalidCharset, "charset"},
	{ErrGenerator, "generator"},
	{ErrTransform, "transform"},
	{ErrFilter, "filter"},
	{ErrStorage, "storage"},
	{ErrField, "field"},
	{ErrPreset, "preset"},
	{ErrSerialization, "serialization"},
	{ErrLocked, "locked"},
}

// Kind returns the short name of the kind err is marked with, or "internal".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

func markf(kind error, format string, args ...interface{}) error {
	return Mark(crdb.NewWithDepth(2, fmt.Sprintf(format, args...)), kind)
}

// Configf creates a configuration error
func Configf(format string, args ...interface{}) error {
	return markf(ErrConfig, format, args...)
}

// Charsetf creates an invalid-charset error
func Charsetf(format string, args ...interface{}) error {
	return markf(ErrInvalidCharset, format, args...)
}

// Generatorf creates a generator error
func Generatorf(format string, args ...interface{}) error {
	return markf(ErrGenerator, format, args...)
}

// Transformf creates a transform error
func Transformf(format string, args ...interface{}) error {
	return markf(ErrTransform, format, args...)
}

// Filterf creates a filter error
func Filterf(format string, args ...interface{}) error {
	return markf(ErrFilter, format, args...)
}

// Storagef creates a storage error
func Storagef(format string, args ...interface{}) error {
	return markf(ErrStorage, format, args...)
}

// Fieldf creates a field error
func Fieldf(format string, args ...interface{}) error {
	return markf(ErrField, format, args...)
}

// Presetf creates a preset error
func Presetf(format string, args ...interface{}) error {
	return markf(ErrPreset, format, args...)
}

// WrapKind wraps err with a message and marks it with kind.
// Returns nil when err is nil.
func WrapKind(err error, kind error, msg string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, msg), kind)
}

// WrapKindf is WrapKind with a formatted message.
func WrapKindf(err error, kind error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, format, args...), kind)
}
