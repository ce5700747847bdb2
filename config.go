package linux_installer

import (
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

const configFilename = "config.yml"

type (
	// PrecompileConfig is the command that byte-compiles the installed library:
	// <target>/<Interpreter> <Args...> <target>/<Dir>
	PrecompileConfig struct {
		Interpreter string   `yaml:"interpreter"`
		Args        []string `yaml:"args"`
		Dir         string   `yaml:"dir"`
	}
	// MenuConfig decides where menu entries go and how menus are refreshed.
	MenuConfig struct {
		SystemDir      string   `yaml:"system_dir"`
		UserPathPrefix string   `yaml:"user_path_prefix"`
		CacheTools     []string `yaml:"cache_tools"`
		DatabaseTool   string   `yaml:"database_tool"`
	}
	// Config is the installer configuration. Defaults come from config.yml in the
	// resources box, the commandline can set the remaining fields.
	Config struct {
		Variables         StringMap        `yaml:"variables"`
		InstallDirName    string           `yaml:"install_dir_name"`
		DefaultParent     string           `yaml:"default_parent"`
		TemplatesDir      string           `yaml:"templates_dir"`
		DesktopTemplate   string           `yaml:"desktop_template"`
		DesktopFilename   string           `yaml:"desktop_filename"`
		UninstallTemplate string           `yaml:"uninstall_template"`
		Launcher          string           `yaml:"launcher"`
		Uninstaller       string           `yaml:"uninstaller"`
		Exclude           []string         `yaml:"exclude"`
		EntryPoint        string           `yaml:"entry_point"`
		Precompile        PrecompileConfig `yaml:"precompile"`
		Menu              MenuConfig       `yaml:"menu"`

		NoShortcut bool `yaml:"-"`
		AssumeYes  bool `yaml:"-"`
	}
)

// NewConfig parses the bundled default configuration.
func NewConfig() (*Config, error) {
	configFile, err := GetResource(configFilename)
	if err != nil {
		return nil, WrapError(err, ErrConfig, "cannot load default configuration")
	}
	config := &Config{Variables: make(StringMap)}
	if err := config.parse([]byte(configFile), configFilename); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile overlays the settings in the YAML file at path onto the config. Settings
// missing from the file keep their current value.
func (c *Config) LoadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return WrapError(err, ErrConfig, "cannot read configuration file")
	}
	return c.parse(content, path)
}

func (c *Config) parse(content []byte, name string) error {
	if err := yaml.Unmarshal(content, c); err != nil {
		log.Error().Err(err).Str("file", name).Msg("Unable to parse config file")
		return WrapErrorf(err, ErrConfig, "unable to parse config file %s", name)
	}
	return c.validate()
}

func (c *Config) validate() error {
	required := map[string]string{
		"install_dir_name":       c.InstallDirName,
		"default_parent":         c.DefaultParent,
		"templates_dir":          c.TemplatesDir,
		"desktop_template":       c.DesktopTemplate,
		"desktop_filename":       c.DesktopFilename,
		"uninstall_template":     c.UninstallTemplate,
		"launcher":               c.Launcher,
		"uninstaller":            c.Uninstaller,
		"entry_point":            c.EntryPoint,
		"precompile.interpreter": c.Precompile.Interpreter,
		"menu.system_dir":        c.Menu.SystemDir,
	}
	for key, value := range required {
		if value == "" {
			return Errorf(ErrConfig, "missing configuration value '%s'", key)
		}
	}
	return nil
}
