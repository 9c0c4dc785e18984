// Package filesystem routes every file access of clipreel through a swappable afero backend,
// so clip files, config and logs can live in memory under test.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// Use installs fs as the backend.
func Use(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}

// SetOsFs restores the operating system backend.
func SetOsFs() {
	Use(afero.NewOsFs())
}

// SetMemMapFs installs an empty in-memory backend.
func SetMemMapFs() {
	Use(afero.NewMemMapFs())
}

// Exists reports whether path names an existing file or directory.
// Errors other than "not found" count as existing; the caller's next open reports them.
func Exists(path string) bool {
	ok, err := backend.Exists(path)
	return ok || err != nil
}

// IsFile reports whether path exists and is not a directory.
func IsFile(path string) bool {
	info, err := backend.Stat(path)
	return err == nil && !info.IsDir()
}
