// Package datastore maps source paths to YAML documents on disk.
package datastore

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/document"
	"github.com/cloudposse/monarch/pkg/filesystem"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/schema"
	u "github.com/cloudposse/monarch/pkg/utils"
)

const (
	// FileExtension is appended to a source path that is not a YAML file name to get its document name.
	FileExtension = ".yaml"

	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Store reads and writes the documents under one directory.
type Store struct {
	dir string
	fs  filesystem.FileSystem
}

// New creates a Store rooted at dir. A nil fs uses the local disk.
func New(dir string, fsys filesystem.FileSystem) *Store {
	if fsys == nil {
		fsys = filesystem.NewOSFileSystem()
	}
	return &Store{dir: dir, fs: fsys}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the document file of source. The source path is the file path relative
// to the store; FileExtension is appended only when the path is not already a YAML file.
func (s *Store) PathFor(source string) (string, error) {
	rel := filepath.FromSlash(source)
	if !u.IsYaml(rel) {
		rel += FileExtension
	}
	if source == "" || !filepath.IsLocal(rel) {
		return "", errUtils.Build(errUtils.ErrInvalidArgument).
			WithCause("source %q does not name a file inside %s", source, s.dir).
			WithSource(source).
			Err()
	}
	return filepath.Join(s.dir, rel), nil
}

// Read returns the document text of source, or "" when it has no document.
func (s *Store) Read(source string) (string, error) {
	name, err := s.PathFor(source)
	if err != nil {
		return "", err
	}
	data, err := s.fs.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errUtils.Build(errUtils.ErrReadSource).
			WithCause("%s: %s", name, err).
			WithSource(source).
			Err()
	}
	return string(data), nil
}

// Write replaces the document of source with text, creating intermediate directories.
// Empty text for a source without a document writes nothing.
func (s *Store) Write(source, text string) error {
	name, err := s.PathFor(source)
	if err != nil {
		return err
	}

	if text == "" {
		if _, err := s.fs.Stat(name); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}

	if err := s.fs.MkdirAll(filepath.Dir(name), dirPerm); err != nil {
		return errUtils.Build(errUtils.ErrWriteSource).
			WithCause("%s: %s", filepath.Dir(name), err).
			WithSource(source).
			Err()
	}
	if err := s.fs.WriteFileAtomic(name, []byte(text), filePerm); err != nil {
		return errUtils.Build(errUtils.ErrWriteSource).
			WithCause("%s: %s", name, err).
			WithSource(source).
			Err()
	}
	log.Debug("Wrote source document", "source", source, "path", name)
	return nil
}

// Load reads and parses the documents of sources using up to workers goroutines.
// Sources without a document yield an empty document. Workers below one means one per CPU.
func (s *Store) Load(ctx context.Context, codec document.Codec, sources []string, workers int) (map[string]*document.Document, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	docs := make([]*document.Document, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, source := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := s.Read(source)
			if err != nil {
				return err
			}
			doc, err := codec.Parse(text)
			if err != nil {
				return errUtils.Build(err).WithSource(source).Err()
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*document.Document, len(sources))
	for i, source := range sources {
		out[source] = docs[i]
	}
	return out, nil
}

// Snapshot returns the effective data of every document.
func Snapshot(docs map[string]*document.Document) schema.Snapshot {
	out := make(schema.Snapshot, len(docs))
	for source, doc := range docs {
		out[source] = doc.Data()
	}
	return out
}
