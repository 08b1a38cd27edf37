package fsutil

import (
	"strings"
	"testing"
)

// TestValidName accepts ordinary entry names.
func TestValidName(t *testing.T) {
	for _, name := range []string{"readme.txt", "My Folder", ".bashrc", "a-b_c.1"} {
		if err := ValidName(name); err != nil {
			t.Fatalf("name %q: unexpected error %v", name, err)
		}
	}
}

// TestValidNameRejectsHostile rejects separators, controls, and dot entries.
func TestValidNameRejectsHostile(t *testing.T) {
	bad := []string{
		"", ".", "..", "a/b", "a\\b", "x\x00y", "line\nbreak", "cr\rname",
		strings.Repeat("a", 256),
	}
	for _, name := range bad {
		if err := ValidName(name); err == nil {
			t.Fatalf("name %q: expected rejection", name)
		}
	}
}
