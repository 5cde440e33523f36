//go:build !windows

package filesystem

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomicImpl uses renameio for atomic file writing on Unix systems.
// Readers never see truncated files (temp file + rename). Durability depends on fsync behavior.
func writeFileAtomicImpl(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
