package exec

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/cockroachdb/errors"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/changeset"
	"github.com/cloudposse/monarch/pkg/config"
	"github.com/cloudposse/monarch/pkg/datastore"
	"github.com/cloudposse/monarch/pkg/diff"
	"github.com/cloudposse/monarch/pkg/filesystem"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/resolve"
	"github.com/cloudposse/monarch/pkg/schema"
)

// StdinChangeFile reads the change stream from standard input.
const StdinChangeFile = "-"

// ApplyResult summarizes an apply run.
type ApplyResult struct {
	Target string
	// Written lists the sources whose document changed, in level order. In dry-run mode
	// nothing is written and these are the sources that would change.
	Written   []string
	Unchanged []string
	Conflicts []string
	Warnings  []resolve.Warning
}

type applyExec struct {
	cfg     *schema.Configuration
	fs      filesystem.FileSystem
	stdin   io.Reader
	stdout  io.Writer
	isTTY   func() bool
	newLock func(dir string) *filesystem.DirLock
}

// NewApply creates the executor of `monarch apply`.
func NewApply(cfg *schema.Configuration, stdin io.Reader, stdout io.Writer) *applyExec {
	return &applyExec{
		cfg:     cfg,
		fs:      filesystem.NewOSFileSystem(),
		stdin:   stdin,
		stdout:  stdout,
		isTTY:   func() bool { return isTerminal(stdout) },
		newLock: filesystem.NewDirLock,
	}
}

// Execute resolves the change files against the data directory and writes the target's
// subtree to the output directory.
//
// Structural problems abort before anything is written. A source whose write fails, most
// often because it would alter hand-edited content, is skipped and reported, and the other
// sources are still written. The returned error joins every per-source failure.
func (a *applyExec) Execute(ctx context.Context, opts schema.ApplyOptions) (*ApplyResult, error) {
	ws, err := openWorkspace(a.cfg, a.fs, config.RequireHierarchy, config.RequireDataDir, config.RequireTarget)
	if err != nil {
		return nil, err
	}

	changes, err := a.loadChanges(opts.ChangeFiles)
	if err != nil {
		return nil, err
	}
	log.Debug("Loaded changes", "count", len(changes))

	snapshot, err := ws.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	engine := resolve.New(ws.tree, changes, ws.keys)
	resolved, err := engine.Resolve(snapshot, a.cfg.Target)
	if err != nil {
		return nil, err
	}

	order, err := ws.tree.DescendantsOf(a.cfg.Target)
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{Target: a.cfg.Target, Warnings: engine.Warnings()}
	outputDir := a.cfg.OutputDir
	if outputDir == "" {
		outputDir = a.cfg.DataDir
	}
	out := datastore.New(outputDir, a.fs)

	run := func() error {
		return a.writeAll(ctx, ws, out, order, resolved, opts.DryRun, result)
	}

	if opts.DryRun {
		return result, run()
	}

	if err := a.fs.MkdirAll(out.Dir(), 0o755); err != nil {
		return nil, errUtils.Build(errUtils.ErrWriteSource).
			WithCause("%s: %s", out.Dir(), err).
			Err()
	}
	return result, a.newLock(out.Dir()).WithLock(run)
}

func (a *applyExec) loadChanges(files []string) (changeset.ChangeSet, error) {
	if len(files) == 0 {
		return nil, errUtils.Build(errUtils.ErrNoChangeFiles).
			WithHint("Pass one or more change files, glob patterns, or '-' for standard input").
			Err()
	}

	if !slices.Contains(files, StdinChangeFile) {
		return changeset.ParseFiles(files...)
	}

	var all changeset.ChangeSet
	for _, f := range files {
		var cs changeset.ChangeSet
		var err error
		if f == StdinChangeFile {
			cs, err = changeset.Parse(a.stdin)
			if err != nil {
				err = errors.Wrap(err, "standard input")
			}
		} else {
			cs, err = changeset.ParseFiles(f)
		}
		if err != nil {
			return nil, err
		}
		all = append(all, cs...)
	}
	return all, nil
}

func (a *applyExec) writeAll(
	ctx context.Context,
	ws *workspace,
	out *datastore.Store,
	order []string,
	resolved schema.Snapshot,
	dryRun bool,
	result *ApplyResult,
) error {
	var errs []error

	for _, source := range order {
		if err := ctx.Err(); err != nil {
			return err
		}

		before, after, err := a.render(ws, out, source, resolved[source])
		if err != nil {
			if errors.Is(err, errUtils.ErrUnmanagedRegionConflict) {
				result.Conflicts = append(result.Conflicts, source)
			}
			log.Error("Skipping source", "source", source, "error", err)
			errs = append(errs, err)
			continue
		}

		if before == after {
			result.Unchanged = append(result.Unchanged, source)
			continue
		}

		if dryRun {
			name, _ := out.PathFor(source)
			fmt.Fprint(a.stdout, diff.Colorize(diff.Unified(name, before, after), a.isTTY()))
			result.Written = append(result.Written, source)
			continue
		}

		if err := out.Write(source, after); err != nil {
			log.Error("Skipping source", "source", source, "error", err)
			errs = append(errs, err)
			continue
		}
		log.Info("Updated source", "source", source)
		result.Written = append(result.Written, source)
	}

	return errors.Join(errs...)
}

// render returns the current and the new text of source in the output directory.
func (a *applyExec) render(ws *workspace, out *datastore.Store, source string, data schema.Data) (string, string, error) {
	before, err := out.Read(source)
	if err != nil {
		return "", "", err
	}
	doc, err := ws.codec.Parse(before)
	if err != nil {
		return "", "", errUtils.Build(err).WithSource(source).Err()
	}
	after, err := ws.codec.Write(doc, data)
	if err != nil {
		return "", "", errUtils.Build(err).WithSource(source).Err()
	}
	return before, after, nil
}

// ExecuteApply runs `monarch apply` with standard streams.
func ExecuteApply(ctx context.Context, cfg *schema.Configuration, opts schema.ApplyOptions, stdin io.Reader, stdout io.Writer) (*ApplyResult, error) {
	return NewApply(cfg, stdin, stdout).Execute(ctx, opts)
}
