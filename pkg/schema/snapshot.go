package schema

import (
	"sort"
)

// Data is the key/value payload of one source.
type Data = map[string]any

// Snapshot maps a source path to its data.
type Snapshot map[string]Data

// Get returns the data of path, or nil when the snapshot has none.
func (s Snapshot) Get(path string) Data {
	if s == nil {
		return nil
	}
	return s[path]
}

// Lookup returns the value of key at path.
func (s Snapshot) Lookup(path, key string) (any, bool) {
	data := s.Get(path)
	if data == nil {
		return nil, false
	}
	v, ok := data[key]
	return v, ok
}

// Paths returns the sorted source paths present in the snapshot.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
