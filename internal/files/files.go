// Package files prepares the on-disk locations repotrack stores data in.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repotrack/repotrack/internal/perms"
)

// EnsureParentDir creates the parent directory of the file at path, using secure permissions
// for any directory it has to create. Existing directories are left untouched.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(strings.TrimSpace(path))
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, perms.SecureDir); err != nil {
		return fmt.Errorf("could not ensure parent directory exists for '%s': %w", path, err)
	}

	return nil
}

// RestrictFile removes any permission bit of the regular file at path that perm does not grant.
// Files that are already at least as restrictive are left untouched. Symlinks are rejected.
func RestrictFile(path string, perm os.FileMode) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("could not stat file '%s': %w", path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("path '%s' is a symlink, not a regular file", path)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path '%s' is not a regular file", path)
	}

	actual := info.Mode().Perm()
	if isPermissionAcceptable(actual, perm) {
		return nil
	}

	if err := os.Chmod(path, actual&perm); err != nil {
		return fmt.Errorf("could not restrict permissions of '%s' to %#o: %w", path, perm, err)
	}

	return nil
}

// isPermissionAcceptable reports whether actual grants no permission bit that required doesn't.
func isPermissionAcceptable(actual, required os.FileMode) bool {
	return (actual & ^required) == 0
}
