package hierarchy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/monarch/errors"
)

const sampleHierarchy = `
global:
  - team:
      - team/dev
      - team/prod:
          - team/prod/us-east-1
          - team/prod/eu-west-1
  - shared
`

func loadSample(t *testing.T) *Tree {
	t.Helper()
	tree, err := Load([]byte(sampleHierarchy))
	require.NoError(t, err)
	return tree
}

func TestLoad_PreservesOrder(t *testing.T) {
	tree := loadSample(t)

	assert.Equal(t, "global", tree.Root())
	assert.False(t, tree.Synthetic())
	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, []string{"team", "shared"}, tree.Children("global"))
	assert.Equal(t, []string{"team/dev", "team/prod"}, tree.Children("team"))
	assert.Equal(t, []string{"team/prod/us-east-1", "team/prod/eu-west-1"}, tree.Children("team/prod"))
}

func TestDescendantsOf_LevelOrder(t *testing.T) {
	tree := loadSample(t)

	got, err := tree.DescendantsOf("global")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"global",
		"team", "shared",
		"team/dev", "team/prod",
		"team/prod/us-east-1", "team/prod/eu-west-1",
	}, got)

	got, err = tree.DescendantsOf("team/prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"team/prod", "team/prod/us-east-1", "team/prod/eu-west-1"}, got)
}

func TestDescendantsOf_AncestorsComeFirst(t *testing.T) {
	tree := loadSample(t)

	order, err := tree.DescendantsOf(tree.Root())
	require.NoError(t, err)

	position := make(map[string]int, len(order))
	for i, p := range order {
		position[p] = i
	}
	for _, p := range order {
		ancestors, err := tree.AncestorsOf(p)
		require.NoError(t, err)
		for _, a := range ancestors[1:] {
			assert.Less(t, position[a], position[p], "%s must come before %s", a, p)
		}
	}
}

func TestAncestorsOf(t *testing.T) {
	tree := loadSample(t)

	got, err := tree.AncestorsOf("team/prod/us-east-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"team/prod/us-east-1", "team/prod", "team", "global"}, got)

	got, err = tree.AncestorsOf("global")
	require.NoError(t, err)
	assert.Equal(t, []string{"global"}, got)
}

func TestLookups_AbsentPath(t *testing.T) {
	tree := loadSample(t)

	desc, err := tree.DescendantsOf("nope")
	assert.NoError(t, err)
	assert.Empty(t, desc)

	anc, err := tree.AncestorsOf("nope")
	assert.NoError(t, err)
	assert.Empty(t, anc)

	sub, ok, err := tree.SubtreeRootedAt("nope")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, sub)

	assert.False(t, tree.Contains("nope"))
	assert.Equal(t, -1, tree.Depth("nope"))
	assert.Nil(t, tree.Children("nope"))
}

func TestSubtreeRootedAt(t *testing.T) {
	tree := loadSample(t)

	sub, ok, err := tree.SubtreeRootedAt("team")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "team", sub.Root())
	assert.False(t, sub.Contains("global"))
	assert.False(t, sub.Contains("shared"))

	ancestors, err := sub.AncestorsOf("team/prod/eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"team/prod/eu-west-1", "team/prod", "team"}, ancestors)

	// The original tree is untouched.
	assert.Equal(t, 7, tree.Len())
}

func TestParentAndDepth(t *testing.T) {
	tree := loadSample(t)

	parent, ok := tree.Parent("team/dev")
	assert.True(t, ok)
	assert.Equal(t, "team", parent)

	_, ok = tree.Parent("global")
	assert.False(t, ok)

	assert.Equal(t, 0, tree.Depth("global"))
	assert.Equal(t, 3, tree.Depth("team/prod/eu-west-1"))
}

func TestBuild_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		spec      any
		root      string
		order     []string
		synthetic bool
	}{
		{
			name:  "single string",
			spec:  "global",
			root:  "global",
			order: []string{"global"},
		},
		{
			name:      "list of siblings",
			spec:      []any{"a", "b"},
			root:      "",
			order:     []string{"a", "b"},
			synthetic: true,
		},
		{
			name:      "string slice",
			spec:      []string{"a", "b", "c"},
			order:     []string{"a", "b", "c"},
			synthetic: true,
		},
		{
			name: "ordered mapping",
			spec: yaml.MapSlice{
				{Key: "global", Value: yaml.MapSlice{
					{Key: "z", Value: nil},
					{Key: "a", Value: "a/leaf"},
				}},
			},
			root:  "global",
			order: []string{"global", "z", "a", "a/leaf"},
		},
		{
			name:  "plain map sorted",
			spec:  map[string]any{"global": map[string]any{"z": nil, "a": nil}},
			root:  "global",
			order: []string{"global", "a", "z"},
		},
		{
			name:      "several top-level mapping keys",
			spec:      map[string]any{"one": nil, "two": []any{"two/child"}},
			order:     []string{"one", "two", "two/child"},
			synthetic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Build(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.synthetic, tree.Synthetic())
			if !tt.synthetic {
				assert.Equal(t, tt.root, tree.Root())
			}
			assert.Equal(t, tt.order, tree.Paths())
		})
	}
}

func TestBuild_SyntheticRootIsHidden(t *testing.T) {
	tree, err := Build([]any{"a", map[string]any{"b": "b/c"}})
	require.NoError(t, err)

	assert.Equal(t, "", tree.Root())
	assert.False(t, tree.Contains(""))

	ancestors, err := tree.AncestorsOf("b/c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b/c", "b"}, ancestors)

	_, ok := tree.Parent("a")
	assert.False(t, ok)
	assert.Equal(t, 3, tree.Len())
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name string
		spec any
	}{
		{"nil", nil},
		{"number", 42},
		{"nested number", []any{"a", 3.5}},
		{"bool child", map[string]any{"a": true}},
		{"empty name", []any{""}},
		{"empty list", []any{}},
		{"non-string key", yaml.MapSlice{{Key: 1, Value: nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, errUtils.ErrMalformedHierarchy)
		})
	}
}

func TestBuild_DuplicateSource(t *testing.T) {
	_, err := Build(map[string]any{"global": []any{"team", map[string]any{"other": "team"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errUtils.ErrDuplicateSource)
	assert.Contains(t, err.Error(), `"team"`)
}

func TestLookup_Ambiguous(t *testing.T) {
	// Build refuses duplicates, so corrupt the index directly to exercise the check.
	tree := loadSample(t)
	tree.index["team"] = append(tree.index["team"], tree.index["shared"]...)

	_, err := tree.DescendantsOf("team")
	assert.ErrorIs(t, err, errUtils.ErrAmbiguousSource)

	_, err = tree.AncestorsOf("team")
	assert.ErrorIs(t, err, errUtils.ErrAmbiguousSource)

	_, _, err = tree.SubtreeRootedAt("team")
	assert.ErrorIs(t, err, errUtils.ErrAmbiguousSource)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("global: [unterminated"))
	assert.ErrorIs(t, err, errUtils.ErrMalformedHierarchy)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hierarchy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleHierarchy), 0o644))

	tree, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "global", tree.Root())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errUtils.ErrReadHierarchy)
}

func TestString(t *testing.T) {
	tree, err := Build(map[string]any{"global": []any{"team", "shared"}})
	require.NoError(t, err)

	assert.Equal(t, "global\n  team\n  shared\n", tree.String())
}

func TestString_SyntheticRoot(t *testing.T) {
	tree, err := Build(map[string]any{"one": nil, "two": []any{map[string]any{"two/child": []any{"two/child/leaf"}}}})
	require.NoError(t, err)
	require.True(t, tree.Synthetic())

	assert.Equal(t, "one\ntwo\n  two/child\n    two/child/leaf\n", tree.String())
}
