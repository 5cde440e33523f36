package merge

import (
	"sort"

	"github.com/samber/lo"
)

// Keys is the set of keys whose values are combined across every ancestor instead of
// taken from the nearest one.
type Keys map[string]struct{}

// NewKeys builds a Keys set. Blank names are ignored.
func NewKeys(keys ...string) Keys {
	set := make(Keys, len(keys))
	for _, k := range lo.Compact(keys) {
		set[k] = struct{}{}
	}
	return set
}

// Has reports whether key is a merge key.
func (k Keys) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// Slice returns the merge keys in sorted order.
func (k Keys) Slice() []string {
	out := lo.Keys(k)
	sort.Strings(out)
	return out
}
