package linux_installer

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultAccessMode requires a file to exist and be executable.
const DefaultAccessMode = unix.F_OK | unix.X_OK

// Locator finds executables on a search path, much like the "which" command.
type Locator struct {
	// Path is a colon-separated list of directories. An empty Path finds nothing.
	Path string

	mode    uint32
	modeSet bool
}

// WithMode returns a copy of the locator that requires the given unix.Access mode
// instead of DefaultAccessMode. unix.F_OK only requires the file to exist.
func (l Locator) WithMode(mode uint32) Locator {
	l.mode = mode
	l.modeSet = true
	return l
}

// Mode is the access mode a candidate has to satisfy.
func (l Locator) Mode() uint32 {
	if !l.modeSet {
		return DefaultAccessMode
	}
	return l.mode
}

// Find returns the first file named cmd on the search path that exists, satisfies the
// access mode and is not a directory.
//
// If cmd contains a path separator it is checked directly and the search path is
// ignored, so "./tool" and "/usr/bin/tool" work as expected.
func (l Locator) Find(cmd string) (string, bool) {
	mode := l.Mode()
	if strings.ContainsRune(cmd, os.PathSeparator) {
		if accessible(cmd, mode) {
			return cmd, true
		}
		return "", false
	}
	if l.Path == "" {
		return "", false
	}
	seen := make(map[string]bool)
	for _, dir := range filepath.SplitList(l.Path) {
		normDir := normalizeDir(dir)
		if seen[normDir] {
			continue
		}
		seen[normDir] = true
		name := filepath.Join(dir, cmd)
		if accessible(name, mode) {
			return name, true
		}
	}
	return "", false
}

// normalizeDir is the key used to skip repeated search path entries. Linux file
// systems are case sensitive, so only the path syntax is normalized.
func normalizeDir(dir string) string {
	if dir == "" {
		return "."
	}
	return filepath.Clean(dir)
}

func accessible(name string, mode uint32) bool {
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		return false
	}
	return unix.Access(name, mode) == nil
}
