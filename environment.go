package linux_installer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// defaultSearchPath is used when PATH is not set at all.
const defaultSearchPath = "/bin:/usr/bin"

// Environment holds everything the installer would otherwise read from the process:
// directories, the executable search path, the standard streams and the way commands
// are run. Use NewProcessEnvironment for a real run.
type Environment struct {
	// Home is the user's home directory, used for "~" expansion.
	Home string
	// SearchPath is a colon-separated list of directories to look for tools in.
	SearchPath string
	// DataHome is the user's XDG data directory (usually ~/.local/share).
	DataHome string
	// StateHome is the user's XDG state directory, used for the log file. Logging to
	// a file is disabled when empty.
	StateHome string
	// DesktopDir is the user's desktop folder.
	DesktopDir string
	// WorkDir resolves relative destination arguments.
	WorkDir string
	// SourceDir is the unpacked distribution tree the installer ships in.
	SourceDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Runner CommandRunner
}

// NewProcessEnvironment returns an Environment built from the running process. The
// source directory is the directory of the (symlink-resolved) installer executable.
func NewProcessEnvironment() (*Environment, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, WrapError(err, ErrConfig, "cannot determine home directory")
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fsError(err, "cannot determine working directory")
	}
	exePath, err := os.Executable()
	if err != nil {
		return nil, fsError(err, "cannot determine installer location")
	}
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil {
		exePath = resolved
	}
	searchPath, ok := os.LookupEnv("PATH")
	if !ok {
		searchPath = defaultSearchPath
	}
	desktopDir := xdg.UserDirs.Desktop
	if desktopDir == "" {
		desktopDir = filepath.Join(home, "Desktop")
	}
	return &Environment{
		Home:       home,
		SearchPath: searchPath,
		DataHome:   xdg.DataHome,
		StateHome:  xdg.StateHome,
		DesktopDir: desktopDir,
		WorkDir:    workDir,
		SourceDir:  filepath.Dir(exePath),
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Runner:     ExecRunner{},
	}, nil
}

// Locator returns an executable locator over the environment's search path.
func (e *Environment) Locator() Locator {
	return Locator{Path: e.SearchPath}
}

// UserMenuDir is the per-user applications menu directory.
func (e *Environment) UserMenuDir() string {
	dataHome := e.DataHome
	if dataHome == "" {
		dataHome = filepath.Join(e.Home, ".local", "share")
	}
	return filepath.Join(dataHome, "applications")
}
