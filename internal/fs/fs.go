// Package fs provides filesystem utilities for releasewarrior.
// The FS interface lets the store and config loaders be tested against stubs.
package fs

import (
	"os"
)

// FS is the subset of filesystem operations used by releasewarrior.
type FS interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]os.DirEntry, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(path string) error
	CreateTemp(dir, pattern string) (*os.File, error)
}

// RealFS implements FS on the host filesystem.
type RealFS struct{}

// NewRealFS returns an FS backed by the os package.
func NewRealFS() *RealFS {
	return &RealFS{}
}

func (RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (RealFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (RealFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (RealFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (RealFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (RealFS) Remove(path string) error {
	return os.Remove(path)
}

func (RealFS) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

// Exists reports whether path exists. Errors other than not-exist are returned.
func Exists(fsys FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
