package changeset

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/merge"
)

// Change is a desired end-state edit anchored to one source.
type Change struct {
	Source SourceSpec
	Set    map[string]any
	Remove []string
}

// rawChange is the decoded shape of a change document.
type rawChange struct {
	Source any            `mapstructure:"source"`
	Set    map[string]any `mapstructure:"set"`
	Remove []string       `mapstructure:"remove"`
}

// FromMap decodes the map form {source, set, remove}. Unknown keys are rejected.
func FromMap(m map[string]any) (Change, error) {
	var raw rawChange
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &raw,
	})
	if err != nil {
		return Change{}, err
	}
	if err := decoder.Decode(m); err != nil {
		return Change{}, errUtils.Build(errUtils.ErrInvalidChange).WithCause("%s", err).Err()
	}

	source, err := decodeSource(raw.Source)
	if err != nil {
		return Change{}, err
	}

	change := Change{Source: source, Remove: raw.Remove}
	if len(raw.Set) > 0 {
		change.Set = merge.CopyData(raw.Set)
	}
	return change, nil
}

func decodeSource(v any) (SourceSpec, error) {
	switch s := v.(type) {
	case string:
		if s == "" {
			break
		}
		return PathSource(s), nil
	case map[string]any:
		vars := make(map[string]string, len(s))
		for k, val := range s {
			vars[k] = fmt.Sprint(val)
		}
		return SourceSpec{Kind: SourceKindVariables, Variables: vars}, nil
	case nil:
	default:
		return SourceSpec{}, errUtils.Build(errUtils.ErrInvalidChange).
			WithCause("'source' must be a path or a mapping of variables, got %T", v).
			Err()
	}
	return SourceSpec{}, errUtils.Build(errUtils.ErrInvalidChange).
		WithCause("'source' is required").
		WithHint("Every change needs 'source: <path>' naming a source in the hierarchy").
		Err()
}

// ToMap returns the map form. Empty set and remove are omitted.
func (c Change) ToMap() map[string]any {
	m := map[string]any{"source": c.Source.value()}
	if len(c.Set) > 0 {
		m["set"] = merge.CopyData(c.Set)
	}
	if len(c.Remove) > 0 {
		m["remove"] = append([]string(nil), c.Remove...)
	}
	return m
}

// SetKeys returns the keys of Set in sorted order.
func (c Change) SetKeys() []string {
	keys := make([]string, 0, len(c.Set))
	for k := range c.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether the change neither sets nor removes anything.
func (c Change) IsEmpty() bool {
	return len(c.Set) == 0 && len(c.Remove) == 0
}
