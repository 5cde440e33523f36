package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder provides a fluent API for constructing enriched errors.
type ErrorBuilder struct {
	err       error
	hints     []string
	context   map[string]interface{}
	exitCode  *int
	sentinels []error
}

// Build creates a new ErrorBuilder from a base error.
// A leaf error (no wrapped cause) is marked as its own sentinel so errors.Is() keeps working
// after the builder wraps it.
func Build(err error) *ErrorBuilder {
	builder := &ErrorBuilder{err: err}

	if err != nil && errors.UnwrapOnce(err) == nil {
		builder.sentinels = append(builder.sentinels, err)
	}

	return builder
}

// WithHint adds a user-facing hint to the error.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hints = append(b.hints, hint)
	return b
}

// WithHintf adds a formatted user-facing hint to the error.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.hints = append(b.hints, fmt.Sprintf(format, args...))
	return b
}

// WithCause replaces the message of the error while keeping the base error as a sentinel.
func (b *ErrorBuilder) WithCause(format string, args ...interface{}) *ErrorBuilder {
	if b.err == nil {
		return b
	}
	b.err = errors.Wrapf(b.err, format, args...)
	return b
}

// WithContext adds safe structured context to the error.
// Context is displayed as a table in verbose mode.
func (b *ErrorBuilder) WithContext(key string, value interface{}) *ErrorBuilder {
	if b.context == nil {
		b.context = make(map[string]interface{})
	}
	b.context[key] = value
	return b
}

// WithSource is shorthand for WithContext("source", path).
func (b *ErrorBuilder) WithSource(path string) *ErrorBuilder {
	return b.WithContext("source", path)
}

// WithKeys records the offending keys, joined with commas.
func (b *ErrorBuilder) WithKeys(keys ...string) *ErrorBuilder {
	return b.WithContext("keys", strings.Join(keys, ","))
}

// WithExitCode attaches an exit code to the error.
func (b *ErrorBuilder) WithExitCode(code int) *ErrorBuilder {
	b.exitCode = &code
	return b
}

// WithSentinel marks the error with a sentinel error for errors.Is() checks.
func (b *ErrorBuilder) WithSentinel(sentinel error) *ErrorBuilder {
	b.sentinels = append(b.sentinels, sentinel)
	return b
}

// Err finalizes and returns the enriched error.
func (b *ErrorBuilder) Err() error {
	if b.err == nil {
		return nil
	}

	err := b.err

	for _, hint := range b.hints {
		err = errors.WithHint(err, hint)
	}

	if len(b.context) > 0 {
		keys := make([]string, 0, len(b.context))
		for k := range b.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		// Format string: "source=%s keys=%s".
		var formatParts []string
		var safeValues []interface{}

		for _, key := range keys {
			formatParts = append(formatParts, key+"=%s")
			safeValues = append(safeValues, errors.Safe(b.context[key]))
		}

		err = errors.WithSafeDetails(err, strings.Join(formatParts, " "), safeValues...)
	}

	// Sentinels go on last so they sit at the top of the chain.
	for _, sentinel := range b.sentinels {
		err = errors.Mark(err, sentinel)
	}

	if b.exitCode != nil {
		err = WithExitCode(err, *b.exitCode)
	}

	return err
}
