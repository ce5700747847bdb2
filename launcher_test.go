package linux_installer

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacementsApply(t *testing.T) {
	replacements := Replacements{
		{From: "$target_dir", To: "/opt/thonny"},
		{From: "$menu_dir", To: "/usr/share/applications"},
	}
	assert.Equal(t,
		"rm -rf /opt/thonny /opt/thonny\nrm /usr/share/applications/Thonny.desktop",
		replacements.Apply("rm -rf $target_dir $target_dir\nrm $menu_dir/Thonny.desktop"),
	)
	assert.Equal(t, "no placeholders", replacements.Apply("no placeholders"))
}

func TestReplacementsApplyInOrder(t *testing.T) {
	// Later replacements see the output of earlier ones.
	replacements := Replacements{
		{From: "$a", To: "$b"},
		{From: "$b", To: "x"},
	}
	assert.Equal(t, "x x", replacements.Apply("$a $b"))

	reversed := Replacements{replacements[1], replacements[0]}
	assert.Equal(t, "$b x", reversed.Apply("$a $b"))
}

func TestCreateLauncher(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "uninstall.sh")
	writeFile(t, source, uninstallTemplate, 0644)
	target := filepath.Join(dir, "out", "nested", "uninstall")

	err := CreateLauncher(source, target, Replacements{
		{From: "$target_dir", To: "/opt/thonny"},
		{From: "$menu_dir", To: "/usr/share/applications"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"#!/bin/sh\nrm -rf /opt/thonny\nrm -f /usr/share/applications/Thonny.desktop\n",
		readFile(t, target),
	)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCreateLauncherOverwritesAndFixesMode(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Thonny.desktop")
	writeFile(t, source, desktopTemplate, 0644)
	target := filepath.Join(dir, "Thonny.desktop.out")
	writeFile(t, target, "old content that is longer than the new content, much longer indeed", 0600)

	require.NoError(t, CreateLauncher(source, target, Replacements{{From: "$target_dir", To: "/t"}}))

	assert.Equal(t,
		"[Desktop Entry]\nName=Thonny\nExec=/t/bin/thonny\nIcon=/t/lib/thonny/res/thonny.png\n",
		readFile(t, target),
	)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestCreateLauncherErrors(t *testing.T) {
	dir := t.TempDir()

	err := CreateLauncher(filepath.Join(dir, "missing"), filepath.Join(dir, "out"), nil)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrFileSystem))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	source := filepath.Join(dir, "template")
	writeFile(t, source, "content", 0644)
	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "", 0644)
	err = CreateLauncher(source, filepath.Join(blocker, "out"), nil)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrFileSystem))
}
