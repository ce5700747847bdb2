package linux_installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLocatorFind(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foo"), "#!/bin/sh\n", 0755)
	writeFile(t, filepath.Join(dir, "bar"), "data", 0644)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "baz"), 0755))

	locator := Locator{Path: dir}

	path, ok := locator.Find("foo")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "foo"), path)

	_, ok = locator.Find("bar")
	assert.False(t, ok, "non-executable files don't match")

	_, ok = locator.Find("baz")
	assert.False(t, ok, "directories don't match")

	_, ok = locator.Find("missing")
	assert.False(t, ok)
}

func TestLocatorFindFirstMatch(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "foo"), "#!/bin/sh\n", 0755)
	writeFile(t, filepath.Join(second, "foo"), "#!/bin/sh\n", 0755)

	searchPath := strings.Join([]string{second + "/", first, second, first + "/."}, ":")
	path, ok := Locator{Path: searchPath}.Find("foo")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(second, "foo"), path)

	searchPath = strings.Join([]string{filepath.Join(t.TempDir(), "missing"), first, first}, ":")
	path, ok = Locator{Path: searchPath}.Find("foo")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(first, "foo"), path)
}

func TestLocatorEmptySearchPath(t *testing.T) {
	path, ok := Locator{}.Find("sh")
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestLocatorFindWithDirectory(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "tool")
	writeFile(t, tool, "#!/bin/sh\n", 0755)

	// The search path is ignored for names with a directory part.
	path, ok := Locator{}.Find(tool)
	assert.True(t, ok)
	assert.Equal(t, tool, path)

	_, ok = Locator{Path: dir}.Find(filepath.Join(dir, "other"))
	assert.False(t, ok)
}

func TestLocatorMode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data"), "data", 0644)

	path, ok := Locator{Path: dir}.WithMode(unix.R_OK).Find("data")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "data"), path)
	_, ok = Locator{Path: dir}.Find("data")
	assert.False(t, ok)

	// F_OK is zero and only asks for existence
	locator := Locator{Path: dir}.WithMode(unix.F_OK)
	assert.Equal(t, uint32(unix.F_OK), locator.Mode())
	path, ok = locator.Find("data")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "data"), path)
	_, ok = locator.Find("missing")
	assert.False(t, ok)

	assert.Equal(t, uint32(DefaultAccessMode), Locator{}.Mode())
}
