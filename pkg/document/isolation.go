package document

import (
	"strings"

	errUtils "github.com/cloudposse/monarch/errors"
)

// IsolationMode controls how writes treat hand-edited content outside the managed block.
type IsolationMode int

const (
	// Isolate keeps hand-edited content and refuses writes that would change it.
	Isolate IsolationMode = iota
	// Never replaces the whole document with the managed block.
	Never
)

const (
	isolateName = "isolate"
	neverName   = "never"
)

func (m IsolationMode) String() string {
	switch m {
	case Isolate:
		return isolateName
	case Never:
		return neverName
	default:
		return "unknown"
	}
}

// ParseIsolationMode parses a configured isolation mode. An empty value means Isolate.
func ParseIsolationMode(s string) (IsolationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", isolateName:
		return Isolate, nil
	case neverName:
		return Never, nil
	default:
		return Isolate, errUtils.Build(errUtils.ErrInvalidIsolationMode).
			WithCause("isolation mode %q", s).
			WithHintf("Valid modes are %q and %q", isolateName, neverName).
			Err()
	}
}
