package linux_installer

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	// launcherMode is used for every generated launcher, including .desktop files:
	// desktop environments only trust desktop entries that are executable.
	launcherMode = 0755
	// Template placeholders
	targetDirPlaceholder = "$target_dir"
	menuDirPlaceholder   = "$menu_dir"
)

// CreateLauncher reads the template at source, applies replacements and writes the
// result to target with mode 0755. Missing parent directories of target are created.
func CreateLauncher(source, target string, replacements Replacements) error {
	logger := log.With().Str("component", "launcher").Logger()
	targetDir := filepath.Dir(target)
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return fsError(err, "cannot create launcher directory")
		}
	}
	content, err := os.ReadFile(source)
	if err != nil {
		return fsError(err, "cannot read launcher template")
	}
	if err := os.WriteFile(target, []byte(replacements.Apply(string(content))), launcherMode); err != nil {
		return fsError(err, "cannot write launcher")
	}
	// WriteFile only applies the mode to new files, and only through the umask.
	if err := os.Chmod(target, launcherMode); err != nil {
		return fsError(err, "cannot make launcher executable")
	}
	logger.Debug().
		Str("template", source).
		Str("target", target).
		Int("replacements", len(replacements)).
		Msg("Launcher created")
	return nil
}
