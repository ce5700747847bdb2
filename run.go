package linux_installer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cliOptions are the commandline flags.
type cliOptions struct {
	verbosity  int
	lang       string
	configFile string
	sourceDir  string
	noShortcut bool
	assumeYes  bool
}

// Run parses the commandline arguments (without the program name) and runs the
// installation. It returns the process exit code: 0 on success, 1 on wrong usage, when
// the user cancelled, or when the installation failed.
//
//	install [flags] [destination_directory]
//
// The installation goes to destination_directory/thonny, by default ~/apps/thonny.
func Run(args []string, env *Environment) int {
	config, err := NewConfig()
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	translator, err := NewTranslatorVar(config.Variables)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return 1
	}
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd, opts := NewRootCmd(env, config, translator)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if opts.lang != "" {
			translator.SetLanguage(opts.lang)
		}
		reportError(cmd, env, translator, err)
		return 1
	}
	return 0
}

// NewRootCmd builds the installer command. Flags end up in the returned options once
// the command has been executed.
func NewRootCmd(env *Environment, config *Config, translator *Translator) (*cobra.Command, *cliOptions) {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "install [destination_directory]",
		Short: translator.Get("cli_short"),
		Long:  translator.Get("cli_long"),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return Errorf(ErrUsage, "expected at most 1 argument, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(args, opts, env, config, translator)
		},
	}
	cmd.SetIn(env.Stdin)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	flags := cmd.Flags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", translator.Get("cli_help_verbose"))
	var languages []string
	for _, lang := range translator.GetLanguages() {
		languages = append(languages, fmt.Sprintf("%s (%s)", lang, translator.GetLanguageDisplay(lang)))
	}
	flags.StringVar(&opts.lang, "lang", "", translator.Get("cli_help_lang")+" "+strings.Join(languages, ", "))
	flags.StringVar(&opts.configFile, "config", "", translator.Get("cli_help_config"))
	flags.StringVar(&opts.sourceDir, "source", "", translator.Get("cli_help_source"))
	flags.BoolVar(&opts.noShortcut, "no-shortcut", false, translator.Get("cli_help_noshortcut"))
	flags.BoolVarP(&opts.assumeYes, "yes", "y", false, translator.Get("cli_help_yes"))
	return cmd, opts
}

func runInstall(args []string, opts *cliOptions, env *Environment, config *Config, translator *Translator) error {
	if opts.lang != "" {
		if err := translator.SetLanguage(opts.lang); err != nil {
			fmt.Fprintln(env.Stderr, translator.Format("err_language", StringMap{"lang": opts.lang}))
		}
	}
	logfile := startLogging(opts.verbosity, env.StateHome, env.Stderr)
	defer logfile.Close()

	if opts.configFile != "" {
		if err := config.LoadFile(opts.configFile); err != nil {
			return err
		}
	}
	config.NoShortcut = config.NoShortcut || opts.noShortcut
	config.AssumeYes = config.AssumeYes || opts.assumeYes
	if opts.sourceDir != "" {
		sourceDir, err := filepath.Abs(opts.sourceDir)
		if err != nil {
			return fsError(err, "cannot resolve source directory")
		}
		env.SourceDir = sourceDir
	}

	target, err := ResolveTarget(args, config, env)
	if err != nil {
		return err
	}
	log.Debug().Strs("args", args).Str("target", target).Msg("Installation target resolved")
	installer := NewInstaller(target, config, env, translator)
	installer.SetProgressFunction(func(status InstallStatus) {
		if status.File != nil {
			log.Trace().Str("file", status.File.Target).Float64("progress", installer.Progress()).Msg("Copied")
		}
	})
	return installer.Install()
}

// reportError prints err to stderr. Usage errors get the usage help as well.
func reportError(cmd *cobra.Command, env *Environment, translator *Translator, err error) {
	switch {
	case IsErrorCode(err, ErrUsage):
		fmt.Fprintln(env.Stderr, paint(env.Stderr, color.Red, translator.Get("err_usage")))
		fmt.Fprint(env.Stderr, cmd.UsageString())
	case IsErrorCode(err, ErrCancelled):
		fmt.Fprintln(env.Stderr, err)
	default:
		fmt.Fprintln(env.Stderr, paint(env.Stderr, color.Red, err.Error()))
	}
}
