// Package errors provides error handling for coredata.
//
// This package re-exports github.com/cockroachdb/errors (stack traces,
// wrapping, hints) and defines the canonical error taxonomy used by
// the registry and the storage layer.
//
// Every taxonomy error belongs to exactly one category, checked with
// IsConfigurationError and IsMisuseError:
//
//   - configuration errors: the declared schema, the raw data or the file
//     layout is wrong (unknown group, duplicate name, unsupported extension,
//     invalid path, malformed raw file, invalid record).
//   - misuse errors: the API was called on something that cannot serve the
//     call (instantiating the template base, loading through a type with no
//     concrete shape, registering an adapter without extensions).
//
// Usage:
//
//	if err := core.Register(ns, group, name, rt, true); err != nil {
//	    if errors.Is(err, errors.ErrDuplicatedTypeName) {
//	        // pick another name
//	    }
//	    if errors.IsMisuseError(err) {
//	        // caller bug
//	    }
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithMessage   = crdb.WithMessage
	WithMessagef  = crdb.WithMessagef
	CombineErrors = crdb.CombineErrors
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Configuration errors
var (
	// ErrInvalidPath: neither a file nor a directory exists at the path
	ErrInvalidPath = New("invalid path")

	// ErrUnsupportedFormat: no registered storage adapter handles the extension
	ErrUnsupportedFormat = New("unsupported raw format")

	// ErrMalformedRaw: the raw file does not map table names to lists of records
	ErrMalformedRaw = New("malformed raw file")

	// ErrGroupNotFound: the group does not exist and auto-creation was disabled
	ErrGroupNotFound = New("type group not found")

	// ErrTypeNotFound: no type with that name in the namespace
	ErrTypeNotFound = New("type not found")

	// ErrDuplicatedTypeName: the name is already registered in the group
	ErrDuplicatedTypeName = New("duplicated type name")

	// ErrInvalidRecord: a raw mapping does not fit the declared fields
	ErrInvalidRecord = New("invalid record")
)

// Misuse errors
var (
	// ErrCannotInstanceTemplate: the template base must be declared, not instantiated
	ErrCannotInstanceTemplate = New("template base cannot be instantiated directly, declare a template first")

	// ErrTypeError: the operation is not permitted on this type
	ErrTypeError = New("operation not permitted on this type")

	// ErrInvalidAdapter: a storage adapter declared no extensions
	ErrInvalidAdapter = New("invalid storage adapter")
)

// IsConfigurationError reports whether err is or wraps a configuration error.
func IsConfigurationError(err error) bool {
	return err != nil && IsAny(err,
		ErrInvalidPath,
		ErrUnsupportedFormat,
		ErrMalformedRaw,
		ErrGroupNotFound,
		ErrTypeNotFound,
		ErrDuplicatedTypeName,
		ErrInvalidRecord,
	)
}

// IsMisuseError reports whether err is or wraps a misuse error.
func IsMisuseError(err error) bool {
	return err != nil && IsAny(err,
		ErrCannotInstanceTemplate,
		ErrTypeError,
		ErrInvalidAdapter,
	)
}
