package hierarchy

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	errUtils "github.com/cloudposse/monarch/errors"
)

// Build creates a Tree from a hierarchy description. A description is a string (one leaf
// source), a list of descriptions (siblings), or a mapping from source name to the
// description of its children. Lists and ordered mappings keep their order as child order;
// a plain Go map has none, so its keys are taken in sorted order.
//
// Several top-level sources are attached under a synthetic anonymous root.
func Build(spec any) (*Tree, error) {
	if spec == nil {
		return nil, malformed(spec, "<root>", "the hierarchy is empty")
	}

	t := newTree()
	t.add("", noParent)
	t.synthetic = true

	if err := t.build(spec, t.root, "<root>"); err != nil {
		return nil, err
	}

	// A single top-level source becomes the real root.
	if top := t.nodes[t.root].children; len(top) == 1 {
		return t.reroot(top[0]), nil
	}
	if len(t.nodes[t.root].children) == 0 {
		return nil, malformed(spec, "<root>", "the hierarchy has no sources")
	}
	return t, nil
}

// Load parses a YAML hierarchy description, keeping mapping order, and builds the Tree.
func Load(data []byte) (*Tree, error) {
	var spec any
	if err := yaml.UnmarshalWithOptions(data, &spec, yaml.UseOrderedMap()); err != nil {
		return nil, errUtils.Build(errUtils.ErrMalformedHierarchy).
			WithCause("invalid YAML: %s", err).
			Err()
	}
	return Build(spec)
}

// LoadFile reads and parses the hierarchy description at path.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrReadHierarchy).
			WithCause("%s: %s", path, err).
			WithHint("Check the 'hierarchy' option in monarch.yaml or pass --hierarchy").
			Err()
	}
	t, err := Load(data)
	if err != nil {
		return nil, errUtils.Build(err).WithContext("file", path).Err()
	}
	return t, nil
}

func (t *Tree) build(spec any, parent int, where string) error {
	switch v := spec.(type) {
	case string:
		_, err := t.addSource(v, parent, where)
		return err
	case []any:
		for i, item := range v {
			if err := t.build(item, parent, fmt.Sprintf("%s[%d]", where, i)); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for i, item := range v {
			if _, err := t.addSource(item, parent, fmt.Sprintf("%s[%d]", where, i)); err != nil {
				return err
			}
		}
		return nil
	case yaml.MapSlice:
		for _, item := range v {
			name, ok := item.Key.(string)
			if !ok {
				return malformed(item.Key, where, "mapping keys must be source names")
			}
			if err := t.buildEntry(name, item.Value, parent, where); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := t.buildEntry(k, v[k], parent, where); err != nil {
				return err
			}
		}
		return nil
	default:
		return malformed(spec, where, "expected a source name, a list, or a mapping")
	}
}

func (t *Tree) buildEntry(name string, children any, parent int, where string) error {
	idx, err := t.addSource(name, parent, where)
	if err != nil {
		return err
	}
	if children == nil {
		return nil
	}
	return t.build(children, idx, where+"."+name)
}

func (t *Tree) addSource(path string, parent int, where string) (int, error) {
	if path == "" {
		return 0, malformed(path, where, "source names cannot be empty")
	}
	if _, exists := t.index[path]; exists {
		return 0, errUtils.Build(errUtils.ErrDuplicateSource).
			WithCause("source %q at %s", path, where).
			WithSource(path).
			Err()
	}
	return t.add(path, parent), nil
}

// reroot drops the synthetic root and makes idx the root.
func (t *Tree) reroot(idx int) *Tree {
	out := newTree()
	var copyNode func(src, parent int)
	copyNode = func(src, parent int) {
		dst := out.add(t.nodes[src].path, parent)
		for _, child := range t.nodes[src].children {
			copyNode(child, dst)
		}
	}
	copyNode(idx, noParent)
	return out
}

func malformed(value any, where, reason string) error {
	return errUtils.Build(errUtils.ErrMalformedHierarchy).
		WithCause("%s: got %T at %s", reason, value, where).
		WithHint("A hierarchy is a source name, a list of hierarchies, or a mapping of source name to children").
		Err()
}
