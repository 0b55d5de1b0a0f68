// Package fileops reads source documents and writes generated ones.
// Writes go through a temp file in the target directory followed by a
// rename, so an interrupted run never leaves a half-written partial.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bladesplit/internal/logging"
)

// ErrMissingInput is returned when no candidate source file exists.
var ErrMissingInput = errors.New("input file not found")

// BackupSuffix is appended to a file's path to form its one-time backup.
const BackupSuffix = ".original"

// Replaceable for testing error paths.
var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// ReadDocument reads a UTF-8 text document.
func ReadDocument(path string) (string, error) {
	logging.FilesDebug("read: path=%s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	logging.Files("read %s (%d bytes)", path, len(data))
	return string(data), nil
}

// Reader loads one document. ReadDocument is the disk reader; callers
// can put an overlay of unwritten content in front of it.
type Reader func(path string) (string, error)

// First reads the first candidate that exists and reports which one.
// Candidates are tried strictly in order.
func (read Reader) First(paths ...string) (content, used string, err error) {
	for _, p := range paths {
		content, err = read(p)
		if err == nil {
			return content, p, nil
		}
		if !errors.Is(err, ErrMissingInput) {
			return "", p, err
		}
		logging.FilesDebug("candidate %s missing, trying next", p)
	}
	return "", "", fmt.Errorf("%w: tried %v", ErrMissingInput, paths)
}

// WriteDocument atomically writes content to path, creating parent
// directories as needed. Existing files are overwritten.
func WriteDocument(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	tmp, err := osCreateTemp(dir, ".bladesplit-tmp-*")
	if err != nil {
		return fmt.Errorf("atomic write: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	_, writeErr := tmp.WriteString(content)
	closeErr := tmp.Close()
	if writeErr != nil {
		return fmt.Errorf("atomic write: write: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("atomic write: close: %w", closeErr)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("atomic write: chmod: %w", err)
	}
	if err := osRename(tmpName, path); err != nil {
		return fmt.Errorf("atomic write: rename: %w", err)
	}

	success = true
	logging.Files("wrote %s (%d bytes)", path, len(content))
	return nil
}

// BackupPath is where the one-time backup of path lives.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve joins a workspace-relative path to root. Absolute paths are
// returned unchanged.
func Resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// SamePath reports whether two paths name the same file location after
// cleaning and resolving to absolute form.
func SamePath(a, b string) bool {
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
