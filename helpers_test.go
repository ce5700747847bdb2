package linux_installer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	desktopTemplate   = "[Desktop Entry]\nName=Thonny\nExec=$target_dir/bin/thonny\nIcon=$target_dir/lib/thonny/res/thonny.png\n"
	uninstallTemplate = "#!/bin/sh\nrm -rf $target_dir\nrm -f $menu_dir/Thonny.desktop\n"
)

// fakeRunner records commands instead of running them. Exit codes and start errors
// can be set per program base name.
type fakeRunner struct {
	calls     [][]string
	exitCodes map[string]int
	errs      map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{exitCodes: map[string]int{}, errs: map[string]error{}}
}

func (r *fakeRunner) Run(path string, args ...string) ([]byte, int, error) {
	r.calls = append(r.calls, append([]string{path}, args...))
	name := filepath.Base(path)
	if err := r.errs[name]; err != nil {
		return nil, -1, err
	}
	return []byte(name + " output\n"), r.exitCodes[name], nil
}

// testSetup is an unpacked installer bundle plus a fake home directory, all inside a
// temporary directory.
type testSetup struct {
	root   string
	home   string
	source string
	tools  string
	env    *Environment
	runner *fakeRunner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	root := t.TempDir()
	s := &testSetup{
		root:   root,
		home:   filepath.Join(root, "home"),
		source: filepath.Join(root, "bundle"),
		tools:  filepath.Join(root, "tools"),
		runner: newFakeRunner(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	writeFile(t, filepath.Join(s.source, "templates", "Thonny.desktop"), desktopTemplate, 0644)
	writeFile(t, filepath.Join(s.source, "templates", "uninstall.sh"), uninstallTemplate, 0644)
	writeFile(t, filepath.Join(s.source, "bin", "thonny"), "#!/bin/sh\n", 0755)
	writeFile(t, filepath.Join(s.source, "bin", "python3.5"), "#!/bin/sh\n", 0755)
	writeFile(t, filepath.Join(s.source, "lib", "thonny", "__init__.py"), "", 0644)
	writeFile(t, filepath.Join(s.source, "install"), "installer", 0755)
	require.NoError(t, os.Symlink("python3.5", filepath.Join(s.source, "bin", "python3")))
	require.NoError(t, os.MkdirAll(s.tools, 0755))
	require.NoError(t, os.MkdirAll(s.home, 0755))

	s.env = &Environment{
		Home:       s.home,
		SearchPath: s.tools,
		DataHome:   filepath.Join(s.home, ".local", "share"),
		DesktopDir: filepath.Join(s.home, "Desktop"),
		WorkDir:    root,
		SourceDir:  s.source,
		Stdin:      strings.NewReader(""),
		Stdout:     s.stdout,
		Stderr:     s.stderr,
		Runner:     s.runner,
	}
	return s
}

// target is where a default installation ends up.
func (s *testSetup) target() string {
	return filepath.Join(s.home, "apps", "thonny")
}

func (s *testSetup) menuDir() string {
	return filepath.Join(s.home, ".local", "share", "applications")
}

func (s *testSetup) addTool(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(s.tools, name)
	writeFile(t, path, "#!/bin/sh\n", 0755)
	return path
}

func (s *testSetup) installer(t *testing.T) *Installer {
	t.Helper()
	config := testConfig(t)
	target, err := ResolveTarget(nil, config, s.env)
	require.NoError(t, err)
	return NewInstaller(target, config, s.env, testTranslator(t, config))
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	config, err := NewConfig()
	require.NoError(t, err)
	return config
}

func testTranslator(t *testing.T, config *Config) *Translator {
	t.Helper()
	translator, err := NewTranslatorVar(config.Variables)
	require.NoError(t, err)
	require.NoError(t, translator.SetLanguage("en"))
	return translator
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
