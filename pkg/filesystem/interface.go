package filesystem

import (
	"os"
)

// FileSystem defines the filesystem operations the data store needs.
// This interface allows mocking of file I/O operations in tests.
//
//go:generate go run go.uber.org/mock/mockgen@latest -source=$GOFILE -destination=mock_$GOFILE -package=$GOPACKAGE
type FileSystem interface {
	// ReadFile reads a file.
	ReadFile(name string) ([]byte, error)

	// WriteFileAtomic writes data to a file so that readers never see a partial file.
	WriteFileAtomic(name string, data []byte, perm os.FileMode) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info.
	Stat(name string) (os.FileInfo, error)
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

// NewOSFileSystem creates an OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	return writeFileAtomicImpl(name, data, perm)
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}
