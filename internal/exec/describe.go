package exec

import (
	"context"
	"fmt"
	"io"
	"strings"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/config"
	"github.com/cloudposse/monarch/pkg/filesystem"
	"github.com/cloudposse/monarch/pkg/merge"
	"github.com/cloudposse/monarch/pkg/schema"
	u "github.com/cloudposse/monarch/pkg/utils"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// DescribeSourceOptions selects what `describe source` prints.
type DescribeSourceOptions struct {
	Source string
	Format string
	// Own prints only the data stored at the source, without inherited values.
	Own bool
}

type describeExec struct {
	cfg    *schema.Configuration
	fs     filesystem.FileSystem
	stdout io.Writer
}

// NewDescribe creates the executor of the `describe` commands.
func NewDescribe(cfg *schema.Configuration, stdout io.Writer) *describeExec {
	return &describeExec{cfg: cfg, fs: filesystem.NewOSFileSystem(), stdout: stdout}
}

// ExecuteDescribeSource prints the effective data of a source.
func (d *describeExec) ExecuteDescribeSource(ctx context.Context, opts DescribeSourceOptions) error {
	ws, err := openWorkspace(d.cfg, d.fs, config.RequireHierarchy, config.RequireDataDir)
	if err != nil {
		return err
	}

	ancestry, err := ws.tree.AncestorsOf(opts.Source)
	if err != nil {
		return err
	}
	if len(ancestry) == 0 {
		return errUtils.Build(errUtils.ErrSourceNotFound).
			WithCause("source %q", opts.Source).
			WithSource(opts.Source).
			WithHint("Run 'monarch describe hierarchy' to list the sources").
			Err()
	}

	snapshot, err := ws.loadSnapshot(ctx)
	if err != nil {
		return err
	}

	data := snapshot.Get(opts.Source)
	if !opts.Own {
		data, err = merge.Flatten(ws.keys, ancestry, snapshot)
		if err != nil {
			return err
		}
	}

	return d.print(data, opts.Format)
}

// ExecuteDescribeHierarchy prints the hierarchy as an outline, or one source per line in
// level order when flat is set.
func (d *describeExec) ExecuteDescribeHierarchy(flat bool) error {
	ws, err := openWorkspace(d.cfg, d.fs, config.RequireHierarchy)
	if err != nil {
		return err
	}

	if flat {
		paths := ws.tree.Paths()
		if len(paths) == 0 {
			return nil
		}
		_, err = fmt.Fprintln(d.stdout, strings.Join(paths, "\n"))
		return err
	}
	_, err = fmt.Fprint(d.stdout, ws.tree.String())
	return err
}

func (d *describeExec) print(data any, format string) error {
	var out string
	var err error

	switch format {
	case "", FormatYAML:
		out, err = u.ConvertToYAML(data, u.YAMLOptions{Indent: d.cfg.Settings.YAML.Indent})
	case FormatJSON:
		out, err = u.ConvertToJSON(data)
	default:
		return errUtils.Build(errUtils.ErrInvalidArgument).
			WithCause("format %q", format).
			WithHintf("Use %q or %q", FormatYAML, FormatJSON).
			Err()
	}
	if err != nil {
		return errUtils.Build(errUtils.ErrEncodeDocument).WithCause("%s", err).Err()
	}

	_, err = fmt.Fprint(d.stdout, out)
	return err
}
