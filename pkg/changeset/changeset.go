// Package changeset reads and queries the desired-state edits applied by a resolution run.
package changeset

import (
	"bytes"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/hierarchy"
)

// ChangeSet is an ordered collection of changes.
type ChangeSet []Change

// FindChangeFor returns the change whose source resolves to path, or nil when there is none.
// Two changes resolving to the same source is a data error and is never settled by picking one.
func (cs ChangeSet) FindChangeFor(tree *hierarchy.Tree, path string) (*Change, error) {
	var found []int
	for i := range cs {
		if cs[i].Source.Matches(tree, path) {
			found = append(found, i)
		}
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &cs[found[0]], nil
	default:
		return nil, errUtils.Build(errUtils.ErrAmbiguousChange).
			WithCause("%d changes target source %q", len(found), path).
			WithSource(path).
			WithHint("Merge the changes for this source into a single document").
			Err()
	}
}

// Unresolved returns the changes whose source does not resolve in tree.
func (cs ChangeSet) Unresolved(tree *hierarchy.Tree) []Change {
	return lo.Filter(cs, func(c Change, _ int) bool {
		_, ok := c.Source.Resolve(tree)
		return !ok
	})
}

// Validate checks that no two changes resolve to the same source.
func (cs ChangeSet) Validate(tree *hierarchy.Tree) error {
	seen := make(map[string]int)
	for _, c := range cs {
		if path, ok := c.Source.Resolve(tree); ok {
			seen[path]++
		}
	}
	paths := lo.Keys(seen)
	sort.Strings(paths)
	for _, path := range paths {
		if seen[path] > 1 {
			_, err := cs.FindChangeFor(tree, path)
			return err
		}
	}
	return nil
}

// Parse reads a stream of YAML change documents. Empty documents are skipped.
func Parse(r io.Reader) (ChangeSet, error) {
	var cs ChangeSet
	decoder := yaml.NewDecoder(r)
	for index := 0; ; index++ {
		var node yaml.Node
		err := decoder.Decode(&node)
		if errors.Is(err, io.EOF) {
			return cs, nil
		}
		if err != nil {
			return nil, errUtils.Build(errUtils.ErrInvalidChange).
				WithCause("document %d: %s", index, err).
				Err()
		}
		if len(node.Content) == 0 || isNull(node.Content[0]) {
			continue
		}

		var doc map[string]any
		if err := node.Decode(&doc); err != nil {
			return nil, errUtils.Build(errUtils.ErrInvalidChange).
				WithCause("document %d must be a mapping: %s", index, err).
				Err()
		}
		change, err := FromMap(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", index)
		}
		cs = append(cs, change)
	}
}

// ParseFile reads the change documents in path.
func ParseFile(path string) (ChangeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrReadChanges).WithCause("%s: %s", path, err).Err()
	}
	cs, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cs, nil
}

// ParseFiles expands each pattern with doublestar globbing and concatenates the change sets
// in pattern order, files of one pattern in lexical order. Every pattern, a plain file name
// included, must match at least one file.
func ParseFiles(patterns ...string) (ChangeSet, error) {
	files, err := ExpandPatterns(patterns...)
	if err != nil {
		return nil, err
	}
	var all ChangeSet
	for _, file := range files {
		cs, err := ParseFile(file)
		if err != nil {
			return nil, err
		}
		all = append(all, cs...)
	}
	return all, nil
}

// ExpandPatterns resolves change file patterns into a de-duplicated file list.
func ExpandPatterns(patterns ...string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errUtils.Build(errUtils.ErrReadChanges).WithCause("pattern %q: %s", pattern, err).Err()
		}
		if len(matches) == 0 {
			return nil, errUtils.Build(errUtils.ErrNoChangeFiles).WithCause("pattern %q", pattern).Err()
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return lo.Uniq(files), nil
}

// Marshal writes the change set as a YAML stream in map form.
func (cs ChangeSet) Marshal(indent int) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	for _, c := range cs {
		if err := encoder.Encode(documentOf(c)); err != nil {
			return "", err
		}
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// changeDocument fixes the key order of an encoded change.
type changeDocument struct {
	Source any            `yaml:"source"`
	Set    map[string]any `yaml:"set,omitempty"`
	Remove []string       `yaml:"remove,omitempty"`
}

func documentOf(c Change) changeDocument {
	m := c.ToMap()
	doc := changeDocument{Source: m["source"]}
	if set, ok := m["set"].(map[string]any); ok {
		doc.Set = set
	}
	if remove, ok := m["remove"].([]string); ok {
		doc.Remove = remove
	}
	return doc
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
