// =============================================================================
// Ticket Sorter - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used by the sorter:
//   - Atomic output writes (temp file in the destination directory + rename)
//   - Directory creation
//   - Existence checks
//
// WRITE STRATEGY:
//   Output is written to "<name>.<uuid>.tmp" beside the destination and then
//   renamed over it. A failed write removes the temp file and leaves any
//   previous output untouched; the failure is returned to the caller as-is.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and any parents if they do not exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT WRITES
// =============================================================================

// TempName returns the temp file name used while writing path.
func TempName(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
}

// WriteFileAtomic creates or replaces path with the bytes produced by fill.
//
// PARAMETERS:
//   - path: The destination file.
//   - fill: Writes the content. Its error aborts the write.
//
// RETURNS:
//   - An error if the directory cannot be created, fill fails, or the file
//     cannot be flushed, synced or renamed into place.
func WriteFileAtomic(path string, fill func(w io.Writer) error) (err error) {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	tmp := TempName(path)
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	writer := bufio.NewWriter(file)
	if err = fill(writer); err != nil {
		return err
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
