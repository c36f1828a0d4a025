package config

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. SHOPORUSNI_REFRESH
const EnvPrefix = "SHOPORUSNI"

// Loader handles configuration loading from various sources.
// Precedence, lowest first: defaults, global config, local config,
// environment, flags.
type Loader struct {
	dir func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{dir: Dir}
}

// LoadForRun loads configuration for a command invocation
func (l *Loader) LoadForRun(cmd *cobra.Command) (*Config, error) {
	dir, err := l.dir()
	if err != nil {
		return nil, err
	}

	l.setupViperDefaults(dir)
	l.loadGlobalConfig(dir)
	l.loadLocalConfig()
	l.bindEnv()
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults(dir string) {
	viper.SetDefault("url", DefaultURL)
	viper.SetDefault("refresh", DefaultRefresh)
	viper.SetDefault("timeout", DefaultTimeout)
	viper.SetDefault("verbose", DefaultVerbosity)
	viper.SetDefault("no_color", false)
	viper.SetDefault("all", false)
	viper.SetDefault("no_journal", false)
	viper.SetDefault("dir", dir)
}

// loadGlobalConfig loads config.<ext> from the config directory
func (l *Loader) loadGlobalConfig(dir string) {
	if path := FindGlobalConfig(dir); path != "" {
		viper.SetConfigFile(path)
		_ = viper.ReadInConfig()
	}
}

// loadLocalConfig merges .shoporusni.<ext> found from the working directory up
func (l *Loader) loadLocalConfig() {
	cwd, err := os.Getwd()
	if err != nil {
		return // silently ignore, defaults still apply
	}

	if path := FindLocalConfig(cwd); path != "" {
		viper.SetConfigFile(path)
		_ = viper.MergeInConfig()
	}
}

// bindEnv enables SHOPORUSNI_* overrides
func (l *Loader) bindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	flags := map[string]string{
		"url":        "url",
		"refresh":    "refresh",
		"timeout":    "timeout",
		"verbose":    "verbose",
		"no_color":   "no-color",
		"all":        "all",
		"no_journal": "no-journal",
	}

	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}
