// SPDX-License-Identifier: MPL-2.0

// Package config loads the enhancer configuration.
//
// Configuration is layered: built-in defaults, then a CUE config file
// (validated against an embedded schema before being merged into viper),
// then ENHANCER_* environment variables, then command-line flags bound
// by the CLI layer. A .env file in the working directory is loaded into
// the environment first.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/koentsje/enhancer/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "enhancer"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the project-local config file looked up in
	// the working directory when no user-level file exists.
	LocalConfigFileName = "enhancer.cue"

	// maxConfigFileSize bounds config files to keep CUE compilation cheap.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// Dir returns the enhancer configuration directory using platform
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
func Dir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves the configuration from defaults, config file and
// environment. It returns the configuration together with the path of
// the file it was loaded from ("" when running on defaults alone).
func Load() (*Config, string, error) {
	// Populate the environment from a .env file when present; absence is
	// not an error.
	_ = godotenv.Load()

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("classes_dir", defaults.ClassesDir)
	v.SetDefault("enable_association_management", defaults.EnableAssociationManagement)
	v.SetDefault("enable_dirty_tracking", defaults.EnableDirtyTracking)
	v.SetDefault("enable_lazy_initialization", defaults.EnableLazyInitialization)
	v.SetDefault("enable_extended_enhancement", defaults.EnableExtendedEnhancement)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// An explicit --config path is used exclusively.
	if configFilePathOverride != "" {
		if !fileExists(configFilePathOverride) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'enhancer config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", configFilePathOverride)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, configFilePathOverride); err != nil {
			return nil, "", wrapConfigParseError(err, configFilePathOverride)
		}
		resolvedPath = configFilePathOverride
	} else {
		cfgDir, err := Dir()
		if err != nil {
			return nil, "", err
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", wrapConfigParseError(err, cuePath)
			}
			resolvedPath = cuePath
		case fileExists(LocalConfigFileName):
			if err := loadCUEIntoViper(v, LocalConfigFileName); err != nil {
				return nil, "", wrapConfigParseError(err, LocalConfigFileName)
			}
			resolvedPath = LocalConfigFileName
		}
		// No config file found: run on defaults, not an error.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, resolvedPath, nil
}

func wrapConfigParseError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'enhancer config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("invalid CUE in %s: %w", path, userValue.Err())
	}

	// Unify with the schema so unknown fields and wrong types are
	// rejected before they reach viper.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into the config
// directory if none exists yet, and returns its path.
func CreateDefaultConfig() (string, error) {
	cfgDir, err := Dir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil // already present
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Enhancer configuration file.\n\n")

	fmt.Fprintf(&sb, "classes_dir: %q\n\n", cfg.ClassesDir)

	fmt.Fprintf(&sb, "enable_association_management: %v\n", cfg.EnableAssociationManagement)
	fmt.Fprintf(&sb, "enable_dirty_tracking:         %v\n", cfg.EnableDirtyTracking)
	fmt.Fprintf(&sb, "enable_lazy_initialization:    %v\n", cfg.EnableLazyInitialization)
	fmt.Fprintf(&sb, "enable_extended_enhancement:   %v\n", cfg.EnableExtendedEnhancement)

	if len(cfg.FileSets) > 0 {
		sb.WriteString("\nfilesets: [\n")
		for _, fs := range cfg.FileSets {
			sb.WriteString("\t{")
			if fs.Dir != "" {
				fmt.Fprintf(&sb, "dir: %q, ", fs.Dir)
			}
			fmt.Fprintf(&sb, "includes: %s, excludes: %s", cueStringList(fs.Includes), cueStringList(fs.Excludes))
			sb.WriteString("},\n")
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func cueStringList(values []string) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", v)
	}
	sb.WriteString("]")
	return sb.String()
}
