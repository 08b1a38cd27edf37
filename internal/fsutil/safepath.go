// Package fsutil contains path sandboxing and content classification
// helpers shared by the file-operations service.
package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a user-supplied path resolves outside
// the configured root, lexically or through a symlink.
var ErrPathEscape = errors.New("path escapes root")

// NormalizeUserPath canonicalizes a browser-supplied path: backslashes
// become forward slashes, repeated separators collapse, and the result
// always starts with "/". Empty input means "/".
func NormalizeUserPath(p string) string {
	if p == "" {
		return "/"
	}
	out := strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	for strings.Contains(out, "//") {
		out = strings.ReplaceAll(out, "//", "/")
	}
	return out
}

// Resolve maps a user-provided path to a local filesystem path under
// root. The leading slash of the user path is treated as the root of
// the sandbox, never of the host filesystem. Any resolution that leaves
// root, including via existing symlinks, fails with ErrPathEscape.
func Resolve(root, userPath string) (string, error) {
	if root == "" {
		return "", errors.New("root is required")
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	rootAbs = filepath.Clean(rootAbs)

	rel := strings.TrimLeft(NormalizeUserPath(userPath), "/")
	joined := filepath.Clean(filepath.Join(rootAbs, filepath.FromSlash(rel)))

	if !isWithin(rootAbs, joined) {
		return "", ErrPathEscape
	}

	// Lexical containment is not enough: a symlink inside root may point
	// anywhere. Resolve the nearest existing prefix and re-validate.
	rootResolved, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", err
	}
	if existing := nearestExisting(joined); existing != "" {
		resolved, err := filepath.EvalSymlinks(existing)
		if err != nil {
			return "", err
		}
		if !isWithin(rootResolved, filepath.Clean(resolved)) {
			return "", ErrPathEscape
		}
	}

	return joined, nil
}

// isWithin reports whether candidate equals root or is a descendant.
func isWithin(root, candidate string) bool {
	root = filepath.Clean(root)
	candidate = filepath.Clean(candidate)
	if root == candidate {
		return true
	}
	sep := string(filepath.Separator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(candidate, root)
}

// nearestExisting walks up from p to the closest path that exists.
func nearestExisting(p string) string {
	cur := p
	for {
		_, err := os.Lstat(cur)
		if err == nil {
			return cur
		}
		if !os.IsNotExist(err) {
			return ""
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
}
