package changeset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cloudposse/monarch/pkg/hierarchy"
)

// SourceKind tags the variant held by a SourceSpec.
type SourceKind int

const (
	// SourceKindPath locates a source by its exact path.
	SourceKindPath SourceKind = iota
	// SourceKindVariables locates a source by variable assignment. Dynamic hierarchies are
	// not supported, so this variant never resolves.
	SourceKindVariables
)

func (k SourceKind) String() string {
	switch k {
	case SourceKindPath:
		return "path"
	case SourceKindVariables:
		return "variables"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// SourceSpec locates the source a Change applies to.
type SourceSpec struct {
	Kind      SourceKind
	Path      string
	Variables map[string]string
}

// PathSource returns a SourceSpec for an exact source path.
func PathSource(path string) SourceSpec {
	return SourceSpec{Kind: SourceKindPath, Path: path}
}

// Resolve returns the path of the source s designates in tree. The second value is false
// when s does not resolve.
func (s SourceSpec) Resolve(tree *hierarchy.Tree) (string, bool) {
	switch s.Kind {
	case SourceKindPath:
		if tree.Contains(s.Path) {
			return s.Path, true
		}
		return "", false
	case SourceKindVariables:
		return "", false
	default:
		return "", false
	}
}

// Matches reports whether s resolves to path in tree.
func (s SourceSpec) Matches(tree *hierarchy.Tree, path string) bool {
	resolved, ok := s.Resolve(tree)
	return ok && resolved == path
}

// value is the form used in change documents: a string for a path, a mapping for variables.
func (s SourceSpec) value() any {
	if s.Kind == SourceKindVariables {
		out := make(map[string]any, len(s.Variables))
		for k, v := range s.Variables {
			out[k] = v
		}
		return out
	}
	return s.Path
}

func (s SourceSpec) String() string {
	if s.Kind != SourceKindVariables {
		return s.Path
	}
	names := make([]string, 0, len(s.Variables))
	for k := range s.Variables {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, k+"="+s.Variables[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
