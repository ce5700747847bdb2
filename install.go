package linux_installer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Task descriptions are padded with dots up to this width before "Done!".
const taskLineWidth = 70

const (
	KB = 1 << (10 * (iota + 1))
	MB
	GB
	TB
)

type (
	// InstallFile is an augmented os.FileInfo struct with both source and
	// target path as well as a flag indicating whether the file has been
	// copied to the target or not.
	InstallFile struct {
		os.FileInfo
		Path      string
		Target    string
		installed bool
	}
	// InstallStatus is passed to the progress function whenever a file has been copied
	// or a step has finished. All fields are optional.
	InstallStatus struct {
		File *InstallFile
		Step string
		Done bool
	}
	// installStep is one task of the installation. describe is called right before
	// run, so it can mention values computed by earlier steps.
	installStep struct {
		name     string
		describe func() string
		run      func() error
	}
	// Installer copies the installer's source tree to Target and sets up menu entry,
	// desktop shortcut and uninstaller. It runs synchronously and doesn't roll back:
	// if a step fails, everything done so far stays in place.
	Installer struct {
		Target  string
		MenuDir string
		Done    bool
		// Results holds the outcome of every external command that was run.
		Results []CommandResult

		config           *Config
		env              *Environment
		translator       *Translator
		logger           zerolog.Logger
		stdin            *bufio.Reader
		totalSize        int64
		installedSize    int64
		files            []*InstallFile
		taskOpen         bool
		progressFunction func(InstallStatus)
	}
)

// ResolveTarget returns the installation directory for the commandline arguments. With
// no argument the configured default parent directory is used, with one argument that
// directory. Trailing slashes are stripped, "~" is expanded and the install directory
// name is appended. More than one argument is a usage error.
func ResolveTarget(args []string, config *Config, env *Environment) (string, error) {
	var parent string
	switch len(args) {
	case 0:
		parent = expandUser(config.DefaultParent, env.Home)
	case 1:
		parent = expandUser(strings.TrimRight(strings.TrimSpace(args[0]), "/"), env.Home)
	default:
		return "", Errorf(ErrUsage, "expected at most 1 argument, got %d", len(args))
	}
	target := parent + "/" + config.InstallDirName
	if !filepath.IsAbs(target) {
		target = filepath.Join(env.WorkDir, target)
	}
	return target, nil
}

// MenuDirFor returns the directory for the start menu entry: the user's applications
// directory for installations inside the home directory (or below the configured
// user path prefix, "/home"), otherwise the system-wide one.
func MenuDirFor(target string, config *Config, env *Environment) string {
	if isInside(target, env.Home) ||
		(config.Menu.UserPathPrefix != "" && strings.HasPrefix(target, config.Menu.UserPathPrefix)) {
		return env.UserMenuDir()
	}
	return config.Menu.SystemDir
}

// NewInstaller creates an Installer for target. The menu directory is derived from the
// target right away.
func NewInstaller(target string, config *Config, env *Environment, translator *Translator) *Installer {
	return &Installer{
		Target:           target,
		MenuDir:          MenuDirFor(target, config, env),
		config:           config,
		env:              env,
		translator:       translator,
		logger:           log.With().Str("component", "installer").Logger(),
		stdin:            bufio.NewReader(env.Stdin),
		progressFunction: func(InstallStatus) {},
	}
}

// SetProgressFunction sets a function that's called after every copied file and after
// every finished step.
func (i *Installer) SetProgressFunction(function func(InstallStatus)) {
	i.progressFunction = function
}

// Install runs all installation steps in order. Each step prints its description,
// and "Done!" once it succeeded. The first failing step ends the installation.
func (i *Installer) Install() error {
	i.Done = false
	i.logger.Info().
		Str("source", i.env.SourceDir).
		Str("target", i.Target).
		Str("menuDir", i.MenuDir).
		Msg("Starting installation")
	for _, step := range i.steps() {
		i.printTask(step.describe())
		if err := step.run(); err != nil {
			i.closeTask()
			event := i.logger.Error().Err(err).Str("step", step.name)
			var installErr *InstallError
			if errors.As(err, &installErr) && len(installErr.Details) > 0 {
				event = event.Interface("details", installErr.Details)
			}
			event.Msg("Installation step failed")
			return err
		}
		i.printDone()
		i.logger.Info().Str("step", step.name).Msg("Installation step done")
		i.progressFunction(InstallStatus{Step: step.name})
	}
	i.printSummary()
	i.Done = true
	i.progressFunction(InstallStatus{Done: true})
	i.logger.Info().Str("target", i.Target).Msg("Installation finished")
	return nil
}

func (i *Installer) steps() []installStep {
	t := i.translator
	return []installStep{
		{
			name:     "copy",
			describe: func() string { return t.Format("task_copy", StringMap{"target": i.Target}) },
			run:      i.clearAndCopy,
		},
		{
			name: "menu",
			describe: func() string {
				return t.Format("task_menu", StringMap{"path": i.menuEntryPath()})
			},
			run: func() error {
				return CreateLauncher(i.sourceTemplate(i.config.DesktopTemplate), i.menuEntryPath(), i.desktopReplacements())
			},
		},
		{
			name:     "shortcut",
			describe: func() string { return t.Get("task_shortcut") },
			run: func() error {
				if i.config.NoShortcut {
					i.logger.Info().Msg("Desktop shortcut disabled")
					return nil
				}
				return CreateLauncher(i.sourceTemplate(i.config.DesktopTemplate), i.shortcutPath(), i.desktopReplacements())
			},
		},
		{
			name: "uninstaller",
			describe: func() string {
				return t.Format("task_uninstaller", StringMap{"path": i.uninstallerPath()})
			},
			run: func() error {
				return CreateLauncher(i.sourceTemplate(i.config.UninstallTemplate), i.uninstallerPath(), Replacements{
					{From: targetDirPlaceholder, To: i.Target},
					{From: menuDirPlaceholder, To: i.MenuDir},
				})
			},
		},
		{
			name:     "precompile",
			describe: func() string { return t.Get("task_compile") },
			run:      i.precompile,
		},
		{
			name:     "refresh",
			describe: func() string { return t.Get("task_refresh") },
			run: func() error {
				results := RefreshMenus(i.MenuDir, i.env.Locator(), i.env.Runner, i.config.Menu)
				i.Results = append(i.Results, results...)
				return nil
			},
		},
	}
}

// clearAndCopy asks before clearing an existing target, then copies the source tree
// and removes the parts that don't belong into an installation.
func (i *Installer) clearAndCopy() error {
	if isInside(i.env.SourceDir, i.Target) {
		return Errorf(ErrFileSystem, "cannot install into %s: it contains the installer", i.Target)
	}
	exists, err := pathExists(i.Target)
	if err != nil {
		return fsError(err, "cannot check installation directory")
	}
	if exists {
		i.closeTask()
		if !i.confirmOverwrite() {
			i.logger.Info().Str("target", i.Target).Msg("Clearing existing installation declined")
			return NewError(ErrCancelled, i.translator.Get("cancelled"))
		}
	}
	if err := i.listFiles(); err != nil {
		return err
	}
	if err := i.checkExcluded(); err != nil {
		return err
	}
	if err := i.CheckInstallDir(exists); err != nil {
		return err
	}
	if exists {
		i.logger.Info().Str("target", i.Target).Msg("Removing existing installation")
		if err := os.RemoveAll(i.Target); err != nil {
			return fsError(err, "cannot clear installation directory")
		}
	}
	if err := i.copyFiles(); err != nil {
		return err
	}
	return i.removeExcluded()
}

// confirmOverwrite asks whether the existing target may be cleared. An empty answer
// means yes, as does anything starting with "y". A closed stdin means no.
func (i *Installer) confirmOverwrite() bool {
	if i.config.AssumeYes {
		return true
	}
	fmt.Fprint(i.env.Stdout, i.translator.Format("prompt_overwrite", StringMap{"target": i.Target}))
	answer, err := i.stdin.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(i.env.Stdout)
		return false
	}
	answer = strings.TrimSpace(answer)
	return answer == "" || answer[0] == 'y' || answer[0] == 'Y'
}

// CheckInstallDir checks that the target can be created: the closest existing parent
// must be writable and its file system must have room for the source tree. Space
// taken by an existing installation counts as free if it's going to be replaced.
func (i *Installer) CheckInstallDir(replacing bool) error {
	parent := nearestExistingDir(filepath.Dir(i.Target))
	if replacing {
		parent = filepath.Dir(i.Target)
	}
	if !osFileWriteAccess(parent) {
		return Errorf(ErrFileSystem, "%s: '%s'", i.translator.Get("err_not_writable"), parent).
			WithDetail("target", i.Target)
	}
	available := osDiskSpace(parent)
	if available < 0 {
		i.logger.Debug().Str("path", parent).Msg("Unable to determine free disk space")
		return nil
	}
	if replacing {
		available += treeSize(i.Target)
	}
	if available < i.totalSize {
		return Errorf(ErrFileSystem, "%s: %s needed, %s available in '%s'",
			i.translator.Get("err_disk_space"), sizeString(i.totalSize), sizeString(available), parent)
	}
	return nil
}

// listFiles collects everything below the source directory, without following
// symlinks. A target inside the source directory is left out.
func (i *Installer) listFiles() error {
	i.files = nil
	i.totalSize = 0
	i.installedSize = 0
	err := filepath.WalkDir(i.env.SourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() && path == i.Target {
			return filepath.SkipDir
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(i.env.SourceDir, path)
		if err != nil {
			return err
		}
		i.files = append(i.files, &InstallFile{info, path, filepath.Join(i.Target, relPath), false})
		if info.Mode().IsRegular() {
			i.totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		return fsError(err, "cannot read installer directory")
	}
	return nil
}

// copyFiles copies the listed files. Directories are created writable first and get
// their original mode once everything inside them has been copied.
func (i *Installer) copyFiles() error {
	if err := os.MkdirAll(filepath.Dir(i.Target), 0755); err != nil {
		return fsError(err, "cannot create installation parent directory")
	}
	for _, file := range i.files {
		var err error
		switch mode := file.Mode(); {
		case mode.IsDir():
			err = os.Mkdir(file.Target, 0755)
		case mode&os.ModeSymlink != 0:
			err = i.copySymlink(file)
		case mode.IsRegular():
			err = copyFile(file.Path, file.Target, mode.Perm())
			if err == nil {
				i.installedSize += file.Size()
			}
		default:
			i.logger.Warn().Str("path", file.Path).Str("mode", mode.String()).Msg("Skipping special file")
			continue
		}
		if err != nil {
			return fsError(err, "cannot copy files")
		}
		file.installed = true
		i.progressFunction(InstallStatus{File: file})
	}
	for p := len(i.files) - 1; p >= 0; p-- {
		if file := i.files[p]; file.IsDir() && file.installed {
			if err := os.Chmod(file.Target, file.Mode().Perm()); err != nil {
				return fsError(err, "cannot set directory permissions")
			}
		}
	}
	i.logger.Info().Int("files", len(i.files)).Str("size", i.SizeString()).Msg("Files copied")
	return nil
}

// excluded lists the paths, relative to source and target, that are copied but don't
// stay in the installation.
func (i *Installer) excluded() []string {
	return append(append([]string{}, i.config.Exclude...), i.config.EntryPoint)
}

// checkExcluded makes sure every excluded path exists in the source tree, so the
// installation doesn't fail halfway through with the target already replaced.
func (i *Installer) checkExcluded() error {
	for _, name := range i.excluded() {
		path := filepath.Join(i.env.SourceDir, name)
		if _, err := os.Lstat(path); err != nil {
			missing := Errorf(ErrFileSystem, "installer file '%s' is missing", name)
			missing.Wrapped = err
			return missing.WithDetail("source", i.env.SourceDir)
		}
	}
	return nil
}

// removeExcluded deletes the templates directory and the installer itself from the
// installation. They have just been copied, so a missing one is an error.
func (i *Installer) removeExcluded() error {
	for _, name := range i.excluded() {
		path := filepath.Join(i.Target, name)
		info, err := os.Lstat(path)
		if err != nil {
			return fsError(err, "cannot remove installer files")
		}
		if info.IsDir() {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return fsError(err, "cannot remove installer files")
		}
		i.logger.Debug().Str("path", path).Msg("Removed from installation")
	}
	return nil
}

// precompile byte-compiles the installed library. The compiler's exit status is
// logged but ignored: compileall has been seen to exit with 1 after compiling
// everything fine. Only an interpreter that can't be started at all is an error.
func (i *Installer) precompile() error {
	interpreter := filepath.Join(i.Target, i.config.Precompile.Interpreter)
	args := append(append([]string{}, i.config.Precompile.Args...), filepath.Join(i.Target, i.config.Precompile.Dir))
	result := runCommand(i.env.Runner, "precompile", interpreter, args...)
	i.Results = append(i.Results, result)
	if result.Err != nil {
		return fsError(result.Err, "cannot run interpreter")
	}
	return nil
}

func (i *Installer) printSummary() {
	vars := StringMap{
		"launcher":    filepath.Join(i.Target, i.config.Launcher),
		"uninstaller": i.uninstallerPath(),
	}
	out := i.env.Stdout
	fmt.Fprintln(out)
	fmt.Fprintln(out, i.translator.Format("summary_success", vars))
	fmt.Fprintln(out, i.translator.Format("summary_pygame", vars))
	fmt.Fprintln(out, i.translator.Format("summary_uninstall", vars))
}

// printTask prints the task description padded with dots, leaving the line open for
// "Done!".
func (i *Installer) printTask(desc string) {
	line := desc + " "
	if n := utf8.RuneCountInString(line); n < taskLineWidth {
		line += strings.Repeat(".", taskLineWidth-n)
	}
	fmt.Fprint(i.env.Stdout, line+" ")
	i.taskOpen = true
}

func (i *Installer) printDone() {
	fmt.Fprintln(i.env.Stdout, paint(i.env.Stdout, color.Green, i.translator.Get("done")))
	i.taskOpen = false
}

// closeTask ends a task line that's still waiting for "Done!".
func (i *Installer) closeTask() {
	if i.taskOpen {
		fmt.Fprintln(i.env.Stdout)
		i.taskOpen = false
	}
}

func (i *Installer) sourceTemplate(name string) string {
	return filepath.Join(i.env.SourceDir, i.config.TemplatesDir, name)
}

func (i *Installer) menuEntryPath() string {
	return filepath.Join(i.MenuDir, i.config.DesktopFilename)
}

func (i *Installer) shortcutPath() string {
	return filepath.Join(i.env.DesktopDir, i.config.DesktopFilename)
}

func (i *Installer) uninstallerPath() string {
	return filepath.Join(i.Target, i.config.Uninstaller)
}

func (i *Installer) desktopReplacements() Replacements {
	return Replacements{{From: targetDirPlaceholder, To: i.Target}}
}

// Progress returns the size ratio between already copied files and all files. The
// result is a float between 0.0 and 1.0, inclusive.
func (i *Installer) Progress() float64 {
	if i.totalSize == 0 {
		return 1
	}
	return float64(i.installedSize) / float64(i.totalSize)
}

// Size returns the bytes that have been copied so far or should be copied in total.
func (i *Installer) Size() int64 {
	if i.Done {
		return i.totalSize
	}
	return i.installedSize
}

// SizeString returns a human-readable version of Size().
func (i *Installer) SizeString() string { return sizeString(i.Size()) }

// sizeString formats a byte count, appending a size suffix as needed.
func sizeString(size int64) string {
	switch {
	case size < KB:
		return fmt.Sprintf("%dB", size)
	case size < MB:
		return fmt.Sprintf("%.2fKB", float64(size)/float64(KB))
	case size < GB:
		return fmt.Sprintf("%.2fMB", float64(size)/float64(MB))
	case size < TB:
		return fmt.Sprintf("%.2fGB", float64(size)/float64(GB))
	default:
		return fmt.Sprintf("%.2fTB", float64(size)/float64(TB))
	}
}

// expandUser replaces a leading "~" or "~user" with that user's home directory. Paths
// that can't be expanded are returned unchanged.
func expandUser(path, home string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	end := strings.IndexByte(path, '/')
	if end < 0 {
		end = len(path)
	}
	userHome := home
	if name := path[1:end]; name != "" {
		usr, err := user.Lookup(name)
		if err != nil {
			return path
		}
		userHome = usr.HomeDir
	}
	if userHome == "" {
		return path
	}
	expanded := strings.TrimRight(userHome, "/") + path[end:]
	if expanded == "" {
		return "/"
	}
	return expanded
}

// isInside reports whether path is dir or somewhere below it. The root directory
// doesn't count as a parent here.
func isInside(path, dir string) bool {
	if dir == "" || filepath.Clean(dir) == "/" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, "../"))
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, perm)
}

// copySymlink recreates a symlink as a link. Absolute links into the source tree are
// pointed at the same file inside the target, since the unpacked bundle is usually
// deleted after installing.
func (i *Installer) copySymlink(file *InstallFile) error {
	link, err := os.Readlink(file.Path)
	if err != nil {
		return err
	}
	if filepath.IsAbs(link) && isInside(link, i.env.SourceDir) {
		rel, err := filepath.Rel(filepath.Clean(i.env.SourceDir), filepath.Clean(link))
		if err != nil {
			return err
		}
		link = filepath.Join(i.Target, rel)
	}
	return os.Symlink(link, file.Target)
}

// treeSize returns the size of all regular files below root, ignoring errors.
func treeSize(root string) (size int64) {
	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.Type().IsRegular() {
			if info, err := entry.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}
