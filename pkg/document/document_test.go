package document

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/schema"
)

const mixed = `# hand edited
owner: alice
# --- Begin managed by monarch
region: us-east-1
tier: t1
# --- End managed by monarch
extra: true
`

func TestParse(t *testing.T) {
	doc, err := Codec{}.Parse(mixed)
	require.NoError(t, err)

	assert.Equal(t, "# hand edited\nowner: alice\n", doc.Pre)
	assert.Equal(t, "extra: true\n", doc.Post)
	assert.Equal(t, schema.Data{"region": "us-east-1", "tier": "t1"}, doc.Managed)
	assert.Equal(t, schema.Data{"owner": "alice", "extra": true}, doc.Unmanaged)
	assert.Equal(t, schema.Data{
		"owner":  "alice",
		"extra":  true,
		"region": "us-east-1",
		"tier":   "t1",
	}, doc.Data())
}

func TestParse_NoManagedBlock(t *testing.T) {
	doc, err := Codec{}.Parse("a: 1\nb: two\n")
	require.NoError(t, err)

	assert.Equal(t, "a: 1\nb: two\n", doc.Pre)
	assert.Empty(t, doc.Post)
	assert.Empty(t, doc.Managed)
	assert.Equal(t, schema.Data{"a": 1, "b": "two"}, doc.Unmanaged)
}

func TestParse_MissingEndRunsToEnd(t *testing.T) {
	doc, err := Codec{}.Parse("x: 1\n" + BeginMarker + "\ny: 2\n")
	require.NoError(t, err)

	assert.Equal(t, "x: 1\n", doc.Pre)
	assert.Empty(t, doc.Post)
	assert.Equal(t, schema.Data{"y": 2}, doc.Managed)
}

func TestParse_FirstBeginLastEnd(t *testing.T) {
	text := BeginMarker + "\na: 1\n" + EndMarker + "\nb: 2\n" + EndMarker + "\nc: 3\n"
	doc, err := Codec{}.Parse(text)
	require.NoError(t, err)

	assert.Empty(t, doc.Pre)
	assert.Equal(t, "c: 3\n", doc.Post)
	assert.Equal(t, schema.Data{"a": 1, "b": 2}, doc.Managed)
	assert.Equal(t, schema.Data{"c": 3}, doc.Unmanaged)
}

func TestParse_UnmanagedShadowsManaged(t *testing.T) {
	text := "owner: alice\nzone: a\n" + BeginMarker + "\nowner: bob\ntier: t1\n" + EndMarker + "\nzone: b\n"
	doc, err := Codec{}.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, schema.Data{"tier": "t1"}, doc.Managed)
	// Text after the block wins over text before it.
	assert.Equal(t, schema.Data{"owner": "alice", "zone": "b"}, doc.Unmanaged)
	assert.Equal(t, "alice", doc.Data()["owner"])
}

func TestParse_IndentedMarkerIsContent(t *testing.T) {
	text := "script: |\n  echo hi\n  " + BeginMarker + "\n  echo bye\nname: x\n"
	doc, err := Codec{}.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, text, doc.Pre)
	assert.Empty(t, doc.Post)
	assert.Empty(t, doc.Managed)
	assert.Equal(t, schema.Data{
		"script": "echo hi\n" + BeginMarker + "\necho bye\n",
		"name":   "x",
	}, doc.Unmanaged)
}

func TestParse_CRLFMarkers(t *testing.T) {
	text := "a: 1\r\n" + BeginMarker + "\r\nb: 2\r\n" + EndMarker + "\r\n"
	doc, err := Codec{}.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "a: 1\r\n", doc.Pre)
	assert.Equal(t, schema.Data{"b": 2}, doc.Managed)
	assert.Equal(t, schema.Data{"a": 1}, doc.Unmanaged)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "broken yaml", text: "a: [\n"},
		{name: "list document", text: "- a\n- b\n"},
		{name: "broken managed block", text: BeginMarker + "\na: [\n" + EndMarker + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Codec{}.Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errUtils.ErrParseDocument))
		})
	}
}

func TestParse_Blank(t *testing.T) {
	doc, err := Codec{}.Parse("")
	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())

	doc, err = Codec{}.Parse("# nothing here yet\n")
	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())
}

func TestWrite_RoundTrip(t *testing.T) {
	codec := Codec{}
	doc, err := codec.Parse(mixed)
	require.NoError(t, err)

	out, err := codec.Write(doc, doc.Data())
	require.NoError(t, err)
	assert.Equal(t, mixed, out)
}

func TestWrite_UpdatesManagedBlock(t *testing.T) {
	codec := Codec{}
	doc, err := codec.Parse(mixed)
	require.NoError(t, err)

	out, err := codec.Write(doc, schema.Data{
		"owner":  "alice",
		"extra":  true,
		"tier":   "t2",
		"labels": map[string]any{"team": "sre"},
	})
	require.NoError(t, err)

	assert.Equal(t, `# hand edited
owner: alice
# --- Begin managed by monarch
labels:
  team: sre
tier: t2
# --- End managed by monarch
extra: true
`, out)
}

func TestWrite_AddsBlockToPlainDocument(t *testing.T) {
	codec := Codec{Indent: 4}
	doc, err := codec.Parse("a: 1")
	require.NoError(t, err)

	out, err := codec.Write(doc, schema.Data{"a": 1, "b": []any{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n"+BeginMarker+"\nb:\n    - x\n"+EndMarker+"\n", out)
}

func TestWrite_DropsBlockWhenEverythingIsUnmanaged(t *testing.T) {
	codec := Codec{}
	doc, err := codec.Parse(mixed)
	require.NoError(t, err)

	out, err := codec.Write(doc, schema.Data{"owner": "alice", "extra": true})
	require.NoError(t, err)
	assert.Equal(t, "# hand edited\nowner: alice\nextra: true\n", out)
}

func TestWrite_Conflict(t *testing.T) {
	codec := Codec{}
	doc, err := codec.Parse("k: manual\nz: keep\n")
	require.NoError(t, err)

	tests := []struct {
		name    string
		desired schema.Data
		keys    []string
	}{
		{name: "omitted", desired: schema.Data{"z": "keep"}, keys: []string{"k"}},
		{name: "changed", desired: schema.Data{"k": "other", "z": "keep"}, keys: []string{"k"}},
		{name: "both", desired: schema.Data{"k": "other"}, keys: []string{"k", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := codec.Write(doc, tt.desired)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, errors.Is(err, errUtils.ErrUnmanagedRegionConflict))
			assert.Equal(t, errUtils.ExitCodeConflict, errUtils.GetExitCode(err))

			var conflict *UnmanagedConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tt.keys, conflict.Keys)
			assert.Equal(t, tt.keys, Conflicts(doc, tt.desired))
		})
	}
}

func TestWrite_NeverMode(t *testing.T) {
	codec := Codec{Mode: Never}
	doc, err := codec.Parse(mixed)
	require.NoError(t, err)

	out, err := codec.Write(doc, schema.Data{"tier": "t1", "owner": "bob"})
	require.NoError(t, err)
	assert.Equal(t, BeginMarker+"\nowner: bob\ntier: t1\n"+EndMarker+"\n", out)

	out, err = codec.Write(doc, schema.Data{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestWrite_Blank(t *testing.T) {
	out, err := Codec{}.Write(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	doc, err := Codec{}.Parse("\n\n")
	require.NoError(t, err)
	out, err = Codec{}.Write(doc, schema.Data{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestWrite_Idempotent(t *testing.T) {
	codec := Codec{}
	desired := schema.Data{"owner": "alice", "extra": true, "tags": []any{"a", "b"}, "n": 3}

	doc, err := codec.Parse(mixed)
	require.NoError(t, err)
	first, err := codec.Write(doc, desired)
	require.NoError(t, err)

	reparsed, err := codec.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, desired, reparsed.Data())

	second, err := codec.Write(reparsed, reparsed.Data())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseIsolationMode(t *testing.T) {
	tests := []struct {
		in   string
		want IsolationMode
	}{
		{in: "", want: Isolate},
		{in: "isolate", want: Isolate},
		{in: " Never ", want: Never},
	}
	for _, tt := range tests {
		got, err := ParseIsolationMode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.NotEqual(t, "unknown", got.String())
	}

	_, err := ParseIsolationMode("sometimes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrInvalidIsolationMode))
}
