// Package resolve computes the minimal per-source data that reproduces a desired end state
// after inheritance.
package resolve

import (
	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/changeset"
	"github.com/cloudposse/monarch/pkg/hierarchy"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/merge"
	"github.com/cloudposse/monarch/pkg/schema"
)

// Engine resolves a change set against a snapshot of per-source data.
type Engine struct {
	Tree      *hierarchy.Tree
	Changes   changeset.ChangeSet
	MergeKeys merge.Keys
	// Logger receives warnings about inert changes. Nil uses the default logger.
	Logger *log.Logger

	warnings []Warning
}

// Warning describes a change that cannot apply.
type Warning struct {
	Change changeset.Change
	Err    error
}

// New creates an Engine.
func New(tree *hierarchy.Tree, changes changeset.ChangeSet, mergeKeys merge.Keys) *Engine {
	return &Engine{Tree: tree, Changes: changes, MergeKeys: mergeKeys}
}

// Warnings returns the unresolved changes reported by the last Resolve call.
func (e *Engine) Warnings() []Warning {
	return e.warnings
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// Resolve returns new data for target and every source below it. The input snapshot is
// never modified.
//
// Sources are visited in level order so that each source sees its ancestors' recomputed
// data. For each source the changes of its ancestors are applied from the root down, then
// its own change. A set is dropped at this source whenever its ancestors already yield the
// value, so inherited values are never written twice.
func (e *Engine) Resolve(snapshot schema.Snapshot, target string) (schema.Snapshot, error) {
	order, err := e.Tree.DescendantsOf(target)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, errUtils.Build(errUtils.ErrTargetNotFound).
			WithCause("target %q", target).
			WithSource(target).
			WithHint("Pass a source that is listed in the hierarchy file").
			Err()
	}

	if err := e.Changes.Validate(e.Tree); err != nil {
		return nil, err
	}
	e.reportUnresolved()

	result := Clone(snapshot)
	for _, path := range order {
		data, err := e.resolveSource(result, path)
		if err != nil {
			return nil, err
		}
		result[path] = data
	}

	out := make(schema.Snapshot, len(order))
	for _, path := range order {
		out[path] = result[path]
	}
	return out, nil
}

// resolveSource computes the new data of path against the result accumulated so far.
func (e *Engine) resolveSource(result schema.Snapshot, path string) (schema.Data, error) {
	ancestry, err := e.Tree.AncestorsOf(path)
	if err != nil {
		return nil, err
	}

	data := merge.CopyData(result[path])

	// Root first, path itself last.
	for i := len(ancestry) - 1; i >= 0; i-- {
		ancestor := ancestry[i]
		change, err := e.Changes.FindChangeFor(e.Tree, ancestor)
		if err != nil {
			return nil, err
		}
		if change == nil {
			continue
		}

		for _, key := range change.SetKeys() {
			value := change.Set[key]
			inherited, err := merge.IsValueInherited(e.MergeKeys, key, value, ancestry, result)
			if err != nil {
				return nil, errUtils.Build(err).WithSource(path).Err()
			}
			if inherited {
				if _, ok := data[key]; ok {
					e.logger().Trace("Dropping inherited value", "source", path, "key", key, "change", ancestor)
				}
				delete(data, key)
				continue
			}
			data[key] = merge.DeepCopy(value)
		}

		for _, key := range change.Remove {
			delete(data, key)
		}
	}

	return data, nil
}

func (e *Engine) reportUnresolved() {
	e.warnings = nil
	for _, c := range e.Changes.Unresolved(e.Tree) {
		err := errUtils.Build(errUtils.ErrUnresolvedChangeTarget).
			WithCause("source %s (%s)", c.Source, c.Source.Kind).
			WithSource(c.Source.String()).
			Err()
		e.warnings = append(e.warnings, Warning{Change: c, Err: err})
		e.logger().Warn("Ignoring change", "source", c.Source.String(), "error", errUtils.ErrUnresolvedChangeTarget)
	}
}

// Changed returns the sorted paths of after whose data differs from before.
func Changed(before, after schema.Snapshot) []string {
	var paths []string
	for _, path := range after.Paths() {
		if !merge.Equal(before.Get(path), after.Get(path)) {
			paths = append(paths, path)
		}
	}
	return paths
}

// Clone deep-copies a snapshot.
func Clone(snapshot schema.Snapshot) schema.Snapshot {
	out := make(schema.Snapshot, len(snapshot))
	for path, data := range snapshot {
		out[path] = merge.CopyData(data)
	}
	return out
}
