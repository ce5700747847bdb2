package linux_installer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	config, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "Thonny", config.Variables["product"])
	assert.Equal(t, "thonny", config.InstallDirName)
	assert.Equal(t, "~/apps", config.DefaultParent)
	assert.Equal(t, "Thonny.desktop", config.DesktopTemplate)
	assert.Equal(t, "Thonny.desktop", config.DesktopFilename)
	assert.Equal(t, "uninstall.sh", config.UninstallTemplate)
	assert.Equal(t, "bin/uninstall", config.Uninstaller)
	assert.Equal(t, []string{"templates"}, config.Exclude)
	assert.Equal(t, "install", config.EntryPoint)
	assert.Equal(t, "bin/python3.5", config.Precompile.Interpreter)
	assert.Equal(t, []string{"-m", "compileall"}, config.Precompile.Args)
	assert.Equal(t, "/usr/share/applications", config.Menu.SystemDir)
	assert.Equal(t, []string{"kbuildsycoca5", "kbuildsycoca4", "kbuildsycoca"}, config.Menu.CacheTools)
	assert.Equal(t, "update-desktop-database", config.Menu.DatabaseTool)
	assert.False(t, config.NoShortcut)
}

func TestConfigLoadFileOverlays(t *testing.T) {
	config := testConfig(t)
	path := filepath.Join(t.TempDir(), "installer.yml")
	writeFile(t, path, "install_dir_name: thonny-dev\nmenu:\n  system_dir: /opt/share/applications\nvariables:\n  product: Thonny Dev\n", 0644)

	require.NoError(t, config.LoadFile(path))

	assert.Equal(t, "thonny-dev", config.InstallDirName)
	assert.Equal(t, "/opt/share/applications", config.Menu.SystemDir)
	assert.Equal(t, "Thonny Dev", config.Variables["product"])
	// untouched settings keep their defaults
	assert.Equal(t, "~/apps", config.DefaultParent)
	assert.Equal(t, "update-desktop-database", config.Menu.DatabaseTool)
	assert.NotEmpty(t, config.Variables["pygame_url"])
}

func TestConfigLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := testConfig(t).LoadFile(filepath.Join(dir, "missing.yml"))
	assert.True(t, IsErrorCode(err, ErrConfig))

	invalid := filepath.Join(dir, "invalid.yml")
	writeFile(t, invalid, "exclude: [unclosed\n", 0644)
	err = testConfig(t).LoadFile(invalid)
	assert.True(t, IsErrorCode(err, ErrConfig))

	incomplete := filepath.Join(dir, "incomplete.yml")
	writeFile(t, incomplete, "launcher: \"\"\n", 0644)
	err = testConfig(t).LoadFile(incomplete)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrConfig))
	assert.Contains(t, err.Error(), "launcher")
}
