package exec

import (
	"context"
	"fmt"
	"io"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/config"
	"github.com/cloudposse/monarch/pkg/filesystem"
	"github.com/cloudposse/monarch/pkg/merge"
	"github.com/cloudposse/monarch/pkg/schema"
	u "github.com/cloudposse/monarch/pkg/utils"
)

// InheritedOptions is a "would key=value be redundant at source" query.
type InheritedOptions struct {
	Source string
	Key    string
	// Value is parsed as YAML, so "3" is a number and "[a, b]" a list.
	Value string
}

type inheritedExec struct {
	cfg    *schema.Configuration
	fs     filesystem.FileSystem
	stdout io.Writer
}

// NewInherited creates the executor of `monarch inherited`.
func NewInherited(cfg *schema.Configuration, stdout io.Writer) *inheritedExec {
	return &inheritedExec{cfg: cfg, fs: filesystem.NewOSFileSystem(), stdout: stdout}
}

// Execute prints and returns whether the ancestors of the source already yield the value.
func (e *inheritedExec) Execute(ctx context.Context, opts InheritedOptions) (bool, error) {
	ws, err := openWorkspace(e.cfg, e.fs, config.RequireHierarchy, config.RequireDataDir)
	if err != nil {
		return false, err
	}

	ancestry, err := ws.tree.AncestorsOf(opts.Source)
	if err != nil {
		return false, err
	}
	if len(ancestry) == 0 {
		return false, errUtils.Build(errUtils.ErrSourceNotFound).
			WithCause("source %q", opts.Source).
			WithSource(opts.Source).
			Err()
	}

	value, err := u.UnmarshalYAML[any](opts.Value)
	if err != nil {
		return false, errUtils.Build(errUtils.ErrInvalidArgument).
			WithCause("value %q is not valid YAML: %s", opts.Value, err).
			Err()
	}

	snapshot, err := ws.loadSnapshot(ctx)
	if err != nil {
		return false, err
	}

	inherited, err := merge.IsValueInherited(ws.keys, opts.Key, value, ancestry, snapshot)
	if err != nil {
		return false, err
	}

	_, err = fmt.Fprintln(e.stdout, inherited)
	return inherited, err
}
