// FILE: lixenwraith/preferences/io.go
package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// readDocumentFile reads a document as text. A missing file is reported through found;
// any other failure, including content that is not UTF-8, is an ErrReadDocument.
func readDocumentFile(fs afero.Fs, path string) (text string, found bool, err error) {
	if _, err := fs.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w '%s': %w", ErrReadDocument, path, err)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", false, fmt.Errorf("%w '%s': %w", ErrReadDocument, path, err)
	}

	if !utf8.Valid(data) {
		return "", false, fmt.Errorf("%w '%s': stream did not contain valid UTF-8", ErrReadDocument, path)
	}

	return string(data), true, nil
}

// atomicWriteFile replaces the whole content of path through a temporary file and rename
func atomicWriteFile(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := afero.TempFile(fs, dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	removed := false
	defer func() {
		if !removed {
			fs.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file '%s': %w", tempPath, err)
	}

	if err := fs.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tempPath, err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file '%s' to '%s': %w", tempPath, path, err)
	}
	removed = true

	return nil
}
