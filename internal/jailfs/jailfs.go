// Package jailfs exposes the configured file root as an afero.Fs whose
// every operation passes through the path sandbox. Callers hand it
// browser-style paths ("/docs/readme.txt"); escapes fail before any
// filesystem call is made.
package jailfs

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/skbidisigma1/backpackpi/internal/fsutil"
)

type FS struct {
	root string
	osfs afero.Fs
}

func New(root string) *FS {
	return &FS{root: root, osfs: afero.NewOsFs()}
}

// Root returns the sandbox root directory.
func (f *FS) Root() string { return f.root }

// LocalPath resolves a sandbox path to the backing filesystem path.
// Handlers use it when they must hand a real path to net/http.
func (f *FS) LocalPath(name string) (string, error) {
	return fsutil.Resolve(f.root, name)
}

func (f *FS) Create(name string) (afero.File, error) {
	p, err := f.LocalPath(name)
	if err != nil {
		return nil, err
	}
	return f.osfs.Create(p)
}

func (f *FS) Mkdir(name string, perm os.FileMode) error {
	p, err := f.LocalPath(name)
	if err != nil {
		return err
	}
	return f.osfs.Mkdir(p, perm)
}

func (f *FS) MkdirAll(path string, perm os.FileMode) error {
	p, err := f.LocalPath(path)
	if err != nil {
		return err
	}
	return f.osfs.MkdirAll(p, perm)
}

func (f *FS) Open(name string) (afero.File, error) {
	p, err := f.LocalPath(name)
	if err != nil {
		return nil, err
	}
	return f.osfs.Open(p)
}

func (f *FS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	p, err := f.LocalPath(name)
	if err != nil {
		return nil, err
	}
	return f.osfs.OpenFile(p, flag, perm)
}

func (f *FS) Remove(name string) error {
	p, err := f.LocalPath(name)
	if err != nil {
		return err
	}
	return f.osfs.Remove(p)
}

func (f *FS) RemoveAll(path string) error {
	p, err := f.LocalPath(path)
	if err != nil {
		return err
	}
	return f.osfs.RemoveAll(p)
}

func (f *FS) Rename(oldname, newname string) error {
	oldp, err := f.LocalPath(oldname)
	if err != nil {
		return err
	}
	newp, err := f.LocalPath(newname)
	if err != nil {
		return err
	}
	return f.osfs.Rename(oldp, newp)
}

func (f *FS) Stat(name string) (os.FileInfo, error) {
	p, err := f.LocalPath(name)
	if err != nil {
		return nil, err
	}
	return f.osfs.Stat(p)
}

// Lstat stats without following a final symlink, so listings can report
// symlinks instead of their targets.
func (f *FS) Lstat(name string) (os.FileInfo, error) {
	p, err := f.LocalPath(name)
	if err != nil {
		return nil, err
	}
	if lfs, ok := f.osfs.(afero.Lstater); ok {
		info, _, err := lfs.LstatIfPossible(p)
		return info, err
	}
	return f.osfs.Stat(p)
}

func (f *FS) Name() string { return "jailfs" }

func (f *FS) Chmod(name string, mode os.FileMode) error {
	p, err := f.LocalPath(name)
	if err != nil {
		return err
	}
	return f.osfs.Chmod(p, mode)
}

func (f *FS) Chown(name string, uid, gid int) error {
	_ = name
	_ = uid
	_ = gid
	return errors.New("chown not supported")
}

func (f *FS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	p, err := f.LocalPath(name)
	if err != nil {
		return err
	}
	return f.osfs.Chtimes(p, atime, mtime)
}
