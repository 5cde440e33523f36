package merge

import (
	"sort"

	"dario.cat/mergo"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/schema"
)

// definition is one ancestor's explicit value for a key.
type definition struct {
	source string
	value  any
}

// definitions returns the sources in ancestry (nearest first) that define key, in the same order.
func definitions(key string, ancestry []string, snapshot schema.Snapshot) []definition {
	var defs []definition
	for _, source := range ancestry {
		if v, ok := snapshot.Lookup(source, key); ok {
			defs = append(defs, definition{source: source, value: v})
		}
	}
	return defs
}

// EffectiveValue returns the value of key that a source with the given ancestry (nearest
// first, usually the source itself first) sees after inheritance.
//
// For a plain key the nearest ancestor that defines it wins. For a merge key every defining
// ancestor contributes: lists are unioned, farthest ancestor's items first, and maps are
// combined with the nearest ancestor winning conflicting entries. The second result is false
// when no ancestor defines key.
func EffectiveValue(keys Keys, key string, ancestry []string, snapshot schema.Snapshot) (any, bool, error) {
	defs := definitions(key, ancestry, snapshot)
	if len(defs) == 0 {
		return nil, false, nil
	}
	if !keys.Has(key) {
		return defs[0].value, true, nil
	}
	combined, err := combine(key, defs)
	if err != nil {
		return nil, false, err
	}
	return combined, true, nil
}

// IsValueInherited reports whether writing key=value explicitly at ancestry[0] would be
// redundant, that is whether its ancestors alone already yield value.
func IsValueInherited(keys Keys, key string, value any, ancestry []string, snapshot schema.Snapshot) (bool, error) {
	if len(ancestry) < 2 {
		return false, nil
	}
	inherited, ok, err := EffectiveValue(keys, key, ancestry[1:], snapshot)
	if err != nil || !ok {
		return false, err
	}
	return Equal(inherited, value), nil
}

// Flatten returns the full effective data of ancestry[0].
func Flatten(keys Keys, ancestry []string, snapshot schema.Snapshot) (map[string]any, error) {
	seen := make(map[string]struct{})
	for _, source := range ancestry {
		for k := range snapshot.Get(source) {
			seen[k] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(map[string]any, len(names))
	for _, k := range names {
		v, _, err := EffectiveValue(keys, k, ancestry, snapshot)
		if err != nil {
			return nil, err
		}
		out[k] = DeepCopy(v)
	}
	return out, nil
}

// combine merges the definitions of a merge key, walking from the farthest ancestor to the nearest.
func combine(key string, defs []definition) (any, error) {
	kind, err := containerKind(key, defs)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindList:
		var out []any
		for i := len(defs) - 1; i >= 0; i-- {
			for _, item := range Normalize(defs[i].value).([]any) {
				if !containsValue(out, item) {
					out = append(out, DeepCopy(item))
				}
			}
		}
		if out == nil {
			out = []any{}
		}
		return out, nil
	default:
		out := map[string]any{}
		for i := len(defs) - 1; i >= 0; i-- {
			src := DeepCopy(defs[i].value).(map[string]any)
			if err := mergo.Merge(&out, src, mergo.WithOverride); err != nil {
				return nil, errUtils.Build(errUtils.ErrMergeTypeMismatch).
					WithCause("key %q from %s: %s", key, defs[i].source, err).
					WithKeys(key).
					WithSource(defs[i].source).
					Err()
			}
		}
		return out, nil
	}
}

type containerType int

const (
	kindList containerType = iota
	kindMap
)

// containerKind checks that every definition is a collection of one kind.
func containerKind(key string, defs []definition) (containerType, error) {
	var kind containerType
	var first string
	for i, d := range defs {
		var k containerType
		switch Normalize(d.value).(type) {
		case []any:
			k = kindList
		case map[string]any:
			k = kindMap
		default:
			return 0, errUtils.Build(errUtils.ErrMergeTypeMismatch).
				WithCause("merge key %q at %s holds %T, expected a list or a mapping", key, d.source, d.value).
				WithKeys(key).
				WithSource(d.source).
				Err()
		}
		if i == 0 {
			kind, first = k, d.source
			continue
		}
		if k != kind {
			return 0, errUtils.Build(errUtils.ErrMergeTypeMismatch).
				WithCause("merge key %q is a %s at %s but a %s at %s", key, kind, first, k, d.source).
				WithKeys(key).
				WithSource(d.source).
				Err()
		}
	}
	return kind, nil
}

func (c containerType) String() string {
	if c == kindList {
		return "list"
	}
	return "mapping"
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if Equal(item, v) {
			return true
		}
	}
	return false
}
