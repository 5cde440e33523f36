// Package document reads and writes source documents that mix hand-edited YAML with a block
// owned by monarch.
package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/merge"
	"github.com/cloudposse/monarch/pkg/schema"
	"github.com/cloudposse/monarch/pkg/utils"
)

const (
	// BeginMarker opens the managed block.
	BeginMarker = "# --- Begin managed by monarch"
	// EndMarker closes the managed block.
	EndMarker = "# --- End managed by monarch"
)

// Document is a parsed source document.
type Document struct {
	// Pre is the text before the managed block, or the whole text when there is none.
	Pre string
	// Post is the text after the managed block.
	Post string
	// Managed holds the managed keys that are not shadowed by Unmanaged.
	Managed schema.Data
	// Unmanaged is the union of the mappings in Pre and Post. Post wins on collision.
	Unmanaged schema.Data
}

// Data returns the current effective data of the document.
func (d *Document) Data() schema.Data {
	out := merge.CopyData(d.Managed)
	for k, v := range d.Unmanaged {
		out[k] = merge.DeepCopy(v)
	}
	return out
}

// IsEmpty reports whether the document carries no data.
func (d *Document) IsEmpty() bool {
	return len(d.Managed) == 0 && len(d.Unmanaged) == 0
}

// UnmanagedConflictError reports unmanaged keys that a write would change or drop.
type UnmanagedConflictError struct {
	Keys []string
}

func (e *UnmanagedConflictError) Error() string {
	return fmt.Sprintf("%s: %s", errUtils.ErrUnmanagedRegionConflict, strings.Join(e.Keys, ", "))
}

// Is matches ErrUnmanagedRegionConflict.
func (e *UnmanagedConflictError) Is(target error) bool {
	return target == errUtils.ErrUnmanagedRegionConflict
}

// Codec parses and renders documents. The zero value uses Isolate mode and the default
// YAML indent.
type Codec struct {
	Indent int
	Mode   IsolationMode
}

// Parse splits text into its unmanaged and managed regions.
//
// The managed block starts at the first BeginMarker line and ends at the last EndMarker
// line after it. Without an EndMarker the block runs to the end of the text.
func (c Codec) Parse(text string) (*Document, error) {
	doc := &Document{}

	begin, afterBegin, found := findLine(text, BeginMarker, false)
	if !found {
		doc.Pre = text
		unmanaged, err := parseMapping(text, "document")
		if err != nil {
			return nil, err
		}
		doc.Unmanaged = unmanaged
		doc.Managed = schema.Data{}
		return doc, nil
	}

	doc.Pre = text[:begin]
	rest := text[afterBegin:]
	managedText := rest
	if end, afterEnd, ok := findLine(rest, EndMarker, true); ok {
		managedText = rest[:end]
		doc.Post = rest[afterEnd:]
	}

	pre, err := parseMapping(doc.Pre, "text before the managed block")
	if err != nil {
		return nil, err
	}
	post, err := parseMapping(doc.Post, "text after the managed block")
	if err != nil {
		return nil, err
	}
	managed, err := parseMapping(managedText, "managed block")
	if err != nil {
		return nil, err
	}

	doc.Unmanaged = lo.Assign(pre, post)
	doc.Managed = lo.OmitByKeys(managed, lo.Keys(doc.Unmanaged))
	return doc, nil
}

// Write renders doc updated so that its data becomes desired.
//
// In Isolate mode the unmanaged regions are kept verbatim and the managed block holds only
// what they do not already supply. An unmanaged key that desired drops or changes fails the
// write with an *UnmanagedConflictError. In Never mode the result is the managed block alone.
// A result with no content is returned as "".
func (c Codec) Write(doc *Document, desired schema.Data) (string, error) {
	if doc == nil {
		doc = &Document{}
	}

	if c.Mode == Never {
		return c.render("", desired, "")
	}

	if conflicts := Conflicts(doc, desired); len(conflicts) > 0 {
		return "", errUtils.Build(&UnmanagedConflictError{Keys: conflicts}).
			WithKeys(conflicts...).
			WithHint("Edit these keys by hand, or move them into the managed block").
			Err()
	}

	managed := lo.OmitBy(desired, func(k string, v any) bool {
		current, ok := doc.Unmanaged[k]
		return ok && merge.Equal(current, v)
	})
	return c.render(doc.Pre, managed, doc.Post)
}

// Conflicts returns the sorted unmanaged keys of doc that desired omits or changes.
func Conflicts(doc *Document, desired schema.Data) []string {
	var keys []string
	for k, v := range doc.Unmanaged {
		want, ok := desired[k]
		if !ok || !merge.Equal(v, want) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (c Codec) render(pre string, managed schema.Data, post string) (string, error) {
	var b strings.Builder
	b.WriteString(pre)

	if len(managed) > 0 {
		block, err := utils.ConvertToYAML(merge.CopyData(managed), utils.YAMLOptions{Indent: c.Indent})
		if err != nil {
			return "", errUtils.Build(errUtils.ErrEncodeDocument).WithCause("%s", err).Err()
		}
		if pre != "" && !strings.HasSuffix(pre, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(BeginMarker + "\n")
		b.WriteString(block)
		b.WriteString(EndMarker + "\n")
	}

	b.WriteString(post)

	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", nil
	}
	return out, nil
}

// findLine locates a line equal to marker byte for byte, ignoring only a trailing carriage
// return. It returns the offset of the line start and the offset just past its newline.
// With last set the final match wins.
func findLine(text, marker string, last bool) (start, next int, found bool) {
	offset := 0
	for offset < len(text) {
		end := strings.IndexByte(text[offset:], '\n')
		lineEnd, lineNext := len(text), len(text)
		if end >= 0 {
			lineEnd, lineNext = offset+end, offset+end+1
		}
		if strings.TrimSuffix(text[offset:lineEnd], "\r") == marker {
			start, next, found = offset, lineNext, true
			if !last {
				return start, next, found
			}
		}
		offset = lineNext
	}
	return start, next, found
}

func parseMapping(text, region string) (schema.Data, error) {
	if utils.IsBlankYAML(text) {
		return schema.Data{}, nil
	}
	parsed, err := utils.UnmarshalYAML[map[string]any](text)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrParseDocument).
			WithCause("%s: %s", region, err).
			Err()
	}
	return merge.CopyData(parsed), nil
}
