package exec

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/cloudposse/monarch/pkg/config"
	"github.com/cloudposse/monarch/pkg/datastore"
	"github.com/cloudposse/monarch/pkg/document"
	"github.com/cloudposse/monarch/pkg/filesystem"
	"github.com/cloudposse/monarch/pkg/hierarchy"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/merge"
	"github.com/cloudposse/monarch/pkg/schema"
)

// workspace is what every command needs from the configuration: the hierarchy, the codec
// and the data directory.
type workspace struct {
	cfg   *schema.Configuration
	tree  *hierarchy.Tree
	codec document.Codec
	data  *datastore.Store
	keys  merge.Keys
}

func openWorkspace(cfg *schema.Configuration, fsys filesystem.FileSystem, required ...config.Requirement) (*workspace, error) {
	if err := config.Validate(cfg, required...); err != nil {
		return nil, err
	}

	tree, err := hierarchy.LoadFile(cfg.Hierarchy)
	if err != nil {
		return nil, err
	}

	mode, err := document.ParseIsolationMode(cfg.Settings.Isolation)
	if err != nil {
		return nil, err
	}

	log.Debug("Loaded hierarchy", "file", cfg.Hierarchy, "sources", tree.Len())

	return &workspace{
		cfg:   cfg,
		tree:  tree,
		codec: document.Codec{Indent: cfg.Settings.YAML.Indent, Mode: mode},
		data:  datastore.New(cfg.DataDir, fsys),
		keys:  merge.NewKeys(cfg.MergeKeys...),
	}, nil
}

// loadSnapshot reads the data directory document of every source in the hierarchy.
func (w *workspace) loadSnapshot(ctx context.Context) (schema.Snapshot, error) {
	docs, err := w.data.Load(ctx, w.codec, w.tree.Paths(), w.cfg.Settings.Workers)
	if err != nil {
		return nil, err
	}
	return datastore.Snapshot(docs), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
