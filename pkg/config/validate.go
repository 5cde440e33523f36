package config

import (
	"strings"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/schema"
)

// Requirement names a configuration option a command needs.
type Requirement string

const (
	RequireHierarchy Requirement = KeyHierarchy
	RequireDataDir   Requirement = KeyDataDir
	RequireTarget    Requirement = KeyTarget
)

// Validate checks that every required option is set.
func Validate(cfg *schema.Configuration, required ...Requirement) error {
	var missing []string
	for _, r := range required {
		var value string
		switch r {
		case RequireHierarchy:
			value = cfg.Hierarchy
		case RequireDataDir:
			value = cfg.DataDir
		case RequireTarget:
			value = cfg.Target
		}
		if strings.TrimSpace(value) == "" {
			missing = append(missing, string(r))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	b := errUtils.Build(errUtils.ErrMissingOption).
		WithCause("missing %s", strings.Join(missing, ", ")).
		WithKeys(missing...)
	for _, key := range missing {
		b = b.WithHintf("Set '%s' in monarch.yaml, MONARCH_%s, or --%s", key, strings.ToUpper(key), flagName(key))
	}
	return b.Err()
}

// flagName returns the flag that sets key.
func flagName(key string) string {
	for name, k := range flagKeys {
		if k == key {
			return name
		}
	}
	return strings.NewReplacer("_", "-", ".", "-").Replace(key)
}
