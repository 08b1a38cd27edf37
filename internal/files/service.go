// Package files implements the sandboxed file-operations service: the
// directory listing, download resolution, and content editing behind
// the /api/files routes. Every operation takes a root-relative path and
// goes through the jail; nothing here touches the host filesystem
// directly.
package files

import (
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/skbidisigma1/backpackpi/internal/fsutil"
	"github.com/skbidisigma1/backpackpi/internal/jailfs"
)

// MaxEditSize bounds in-browser editing. Larger files can still be
// downloaded; they just cannot round-trip through the text editor.
const MaxEditSize = 512 << 10 // 512 KiB

// Entry is one row of a directory listing. Size and Mime are nil for
// directories.
type Entry struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Size   *int64  `json:"size"`
	MTime  int64   `json:"mtime"`
	IsLink bool    `json:"isLink"`
	Mime   *string `json:"mime"`
}

// Listing is the response of a List call. Entries are produced fresh on
// every call and never cached.
type Listing struct {
	Path    string  `json:"path"`
	Parent  string  `json:"parent"`
	Entries []Entry `json:"entries"`
}

// Content is the result of reading a file for the editor. For binary
// files only Binary and Size are meaningful.
type Content struct {
	Binary  bool   `json:"binary"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	MTime   int64  `json:"mtime,omitempty"`
	Content string `json:"content,omitempty"`
}

// WriteResult reports the state of a file after an overwrite.
type WriteResult struct {
	Size  int64 `json:"size"`
	MTime int64 `json:"mtime"`
}

type Service struct {
	fs *jailfs.FS
}

func New(fs *jailfs.FS) *Service {
	return &Service{fs: fs}
}

// Root returns the sandbox root directory on the host filesystem.
func (s *Service) Root() string { return s.fs.Root() }

// List enumerates a directory. Dotfiles are skipped unless showHidden
// is set, and entries whose stat fails are skipped rather than failing
// the listing.
func (s *Service) List(userPath string, showHidden bool) (*Listing, error) {
	norm := fsutil.NormalizeUserPath(userPath)

	info, err := s.fs.Stat(norm)
	if err != nil {
		return nil, mapFSError(err)
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	dir, err := s.fs.Open(norm)
	if err != nil {
		return nil, mapFSError(err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, mapFSError(err)
	}

	// Stat each entry individually: one unreadable entry must not fail
	// the whole listing, it is simply left out.
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		fi, err := s.fs.Lstat(path.Join(norm, name))
		if err != nil {
			continue
		}
		entries = append(entries, newEntry(name, fi))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return &Listing{
		Path:    norm,
		Parent:  parentOf(norm),
		Entries: entries,
	}, nil
}

func newEntry(name string, fi os.FileInfo) Entry {
	isDir := fi.IsDir()
	e := Entry{
		Name:   name,
		Type:   "file",
		MTime:  fi.ModTime().Unix(),
		IsLink: fi.Mode()&os.ModeSymlink != 0,
	}
	if isDir {
		e.Type = "dir"
		return e
	}
	size := fi.Size()
	e.Size = &size
	if mt := mimeByName(name); mt != "" {
		e.Mime = &mt
	}
	return e
}

// ResolveDownload validates a download target and returns the local
// path the HTTP layer streams from, along with the inferred MIME type.
func (s *Service) ResolveDownload(userPath string) (local string, info os.FileInfo, mimeType string, err error) {
	local, err = s.fs.LocalPath(userPath)
	if err != nil {
		return "", nil, "", err
	}
	info, err = s.fs.Stat(userPath)
	if err != nil {
		return "", nil, "", mapFSError(err)
	}
	if info.IsDir() {
		return "", nil, "", ErrIsDirectory
	}
	mimeType = mimeByName(info.Name())
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return local, info, mimeType, nil
}

// Mkdir creates a single directory under parent. The name must be one
// validated path component and the target must not already exist.
func (s *Service) Mkdir(parent, name string) error {
	if err := fsutil.ValidName(name); err != nil {
		return err
	}
	normParent := fsutil.NormalizeUserPath(parent)
	pi, err := s.fs.Stat(normParent)
	if err != nil {
		return mapFSError(err)
	}
	if !pi.IsDir() {
		return ErrNotADirectory
	}
	target := path.Join(normParent, name)
	if _, err := s.fs.Lstat(target); err == nil {
		return ErrExists
	}
	return mapFSError(s.fs.Mkdir(target, 0o755))
}

// Rename changes an entry's name within its parent directory. Moves
// across directories are not supported.
func (s *Service) Rename(userPath, newName string) error {
	if err := fsutil.ValidName(newName); err != nil {
		return err
	}
	norm := fsutil.NormalizeUserPath(userPath)
	if norm == "/" {
		return ErrInvalidName
	}
	if _, err := s.fs.Lstat(norm); err != nil {
		return mapFSError(err)
	}
	dest := path.Join(parentOf(norm), newName)
	if _, err := s.fs.Lstat(dest); err == nil {
		return ErrExists
	}
	return mapFSError(s.fs.Rename(norm, dest))
}

// Delete removes a file or recursively removes a directory tree. A
// missing target is an error, so a racing delete surfaces as 404.
func (s *Service) Delete(userPath string) error {
	norm := fsutil.NormalizeUserPath(userPath)
	if norm == "/" {
		return ErrInvalidName
	}
	info, err := s.fs.Lstat(norm)
	if err != nil {
		return mapFSError(err)
	}
	if info.IsDir() {
		return mapFSError(s.fs.RemoveAll(norm))
	}
	return mapFSError(s.fs.Remove(norm))
}

// ReadContent loads a file for the editor, classifying it as binary or
// UTF-8 text. Files above MaxEditSize are rejected before reading.
func (s *Service) ReadContent(userPath string) (*Content, error) {
	norm := fsutil.NormalizeUserPath(userPath)
	info, err := s.fs.Stat(norm)
	if err != nil {
		return nil, mapFSError(err)
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}
	if info.Size() > MaxEditSize {
		return nil, ErrTooLarge
	}

	buf, err := afero.ReadFile(s.fs, norm)
	if err != nil {
		return nil, mapFSError(err)
	}
	if fsutil.IsBinary(buf) {
		return &Content{Binary: true, Path: norm, Size: info.Size()}, nil
	}
	return &Content{
		Binary:  false,
		Path:    norm,
		Size:    info.Size(),
		MTime:   info.ModTime().Unix(),
		Content: string(buf),
	}, nil
}

// WriteContent replaces a file's content. The target must already
// exist (write is overwrite-only, never create) and the payload must
// fit under MaxEditSize. The replace goes through a temp file and a
// rename so a reader never observes a half-written file.
func (s *Service) WriteContent(userPath, content string) (*WriteResult, error) {
	if int64(len(content)) > MaxEditSize {
		return nil, ErrTooLarge
	}
	norm := fsutil.NormalizeUserPath(userPath)
	info, err := s.fs.Stat(norm)
	if err != nil {
		return nil, mapFSError(err)
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	tmp := path.Join(parentOf(norm), "."+path.Base(norm)+".swap")
	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return nil, mapFSError(err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(tmp)
		return nil, mapFSError(err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return nil, mapFSError(err)
	}
	if err := s.fs.Rename(tmp, norm); err != nil {
		_ = s.fs.Remove(tmp)
		return nil, mapFSError(err)
	}

	st, err := s.fs.Stat(norm)
	if err != nil {
		return nil, mapFSError(err)
	}
	return &WriteResult{Size: st.Size(), MTime: st.ModTime().Unix()}, nil
}

func parentOf(norm string) string {
	parent := path.Dir(norm)
	if parent == "" {
		return "/"
	}
	return parent
}

func mimeByName(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}

// mapFSError folds raw filesystem failures into the service taxonomy.
// Anything unrecognized passes through for the HTTP layer's generic 500.
func mapFSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrExists
	default:
		return err
	}
}
