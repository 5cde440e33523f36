package errors

import (
	"github.com/cockroachdb/errors"
)

// Hierarchy errors.
var (
	ErrMalformedHierarchy = errors.New("malformed hierarchy description")
	ErrDuplicateSource    = errors.New("source is defined more than once in the hierarchy")
	ErrAmbiguousSource    = errors.New("source lookup matched more than one node")
	ErrTargetNotFound     = errors.New("target source not found in the hierarchy")
	ErrSourceNotFound     = errors.New("source not found in the hierarchy")
	ErrReadHierarchy      = errors.New("failed to read hierarchy file")
)

// Change errors.
var (
	ErrAmbiguousChange        = errors.New("more than one change targets the same source")
	ErrUnresolvedChangeTarget = errors.New("change target does not resolve to any source in the hierarchy")
	ErrInvalidChange          = errors.New("invalid change document")
	ErrReadChanges            = errors.New("failed to read changes")
	ErrNoChangeFiles          = errors.New("no change files matched")
)

// Merge errors.
var (
	ErrMergeTypeMismatch = errors.New("merge key value cannot be merged")
)

// Document errors.
var (
	ErrUnmanagedRegionConflict = errors.New("write would alter data outside the managed region")
	ErrParseDocument           = errors.New("failed to parse source document")
	ErrEncodeDocument          = errors.New("failed to encode managed region")
	ErrInvalidIsolationMode    = errors.New("invalid isolation mode")
	ErrReadSource              = errors.New("failed to read source document")
	ErrWriteSource             = errors.New("failed to write source document")
)

// Configuration and CLI errors.
var (
	ErrLoadConfig      = errors.New("failed to load configuration")
	ErrMissingOption   = errors.New("required option is not set")
	ErrLockOutputDir   = errors.New("output directory is locked by another run")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Exit codes.
const (
	ExitCodeGeneric  = 1
	ExitCodeUsage    = 2
	ExitCodeConflict = 3
)
