// Package config loads the precheck configuration document.
//
// Scalar settings go through koanf so they layer cleanly: built-in defaults,
// then the config file, then PRECHECK_* environment variables. The actions
// block is decoded separately because its declaration order is part of the
// contract (formatters must run before the checks that read their output),
// and koanf's map-backed store cannot preserve it.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	ptoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/logging"
)

// Config file names probed by Discover, in order
var ConfigFileNames = []string{".precheck.yaml", "precheck.yaml", ".precheck.toml", "precheck.toml"}

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "PRECHECK_"

// Settings holds the scalar runner settings
type Settings struct {
	Shell    string `koanf:"shell"`
	Parallel bool   `koanf:"parallel"`
	Color    string `koanf:"color"`
}

// ActionSpec is the raw declaration of one action as it appears in the
// config document. Validation and template compilation happen in the
// registry package.
type ActionSpec struct {
	Name      string `yaml:"-" toml:"name"`
	Run       string `yaml:"run" toml:"run"`
	Include   string `yaml:"include" toml:"include"`
	Enabled   *bool  `yaml:"enabled" toml:"enabled"`
	Mutating  bool   `yaml:"mutating" toml:"mutating"`
	PassFiles *bool  `yaml:"pass_files" toml:"pass_files"`
}

// IsEnabled reports whether the action should be considered for selection.
// Actions are enabled unless the document says otherwise.
func (s ActionSpec) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// FilesPassed reports whether matched files are substituted into the command
func (s ActionSpec) FilesPassed() bool {
	return s.PassFiles == nil || *s.PassFiles
}

// Config is the fully loaded configuration document
type Config struct {
	Settings Settings
	Actions  []ActionSpec
	Path     string
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		Shell:    "/bin/sh",
		Parallel: false,
		Color:    "auto",
	}
}

// Discover returns the path of the first config file found in dir
func Discover(dir string) (string, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Newf(errors.ErrNotFound,
		"no config file found in %s (looked for %s)", dir, strings.Join(ConfigFileNames, ", "))
}

// Load reads and parses the config document at path
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	}

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = kyaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config format %q", ext)
	}

	k := koanf.New(".")

	// 1. Built-in defaults
	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"settings.shell":    defaults.Shell,
		"settings.parallel": defaults.Parallel,
		"settings.color":    defaults.Color,
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Config file
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path)
	}

	// 3. Environment overrides (PRECHECK_SETTINGS_SHELL -> settings.shell)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	cfg := &Config{Path: path}
	if err := k.Unmarshal("settings", &cfg.Settings); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid settings in %s", path)
	}

	switch ext {
	case ".toml":
		cfg.Actions, err = parseTOMLActions(data)
	default:
		cfg.Actions, err = parseYAMLActions(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid actions in %s", path)
	}

	logger.Debug().
		Str("path", path).
		Int("actions", len(cfg.Actions)).
		Str("shell", cfg.Settings.Shell).
		Msg("Loaded configuration")

	return cfg, nil
}

// parseYAMLActions decodes the actions block from a YAML document while
// preserving declaration order. The block is a mapping of action name to
// action fields; yaml.Node keeps the mapping entries in document order
// where a plain map would not.
func parseYAMLActions(data []byte) ([]ActionSpec, error) {
	var doc struct {
		Actions yaml.Node `yaml:"actions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Actions.IsZero() {
		return nil, nil
	}
	if doc.Actions.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrConfigParse, "actions must be a mapping of action name to fields")
	}

	specs := make([]ActionSpec, 0, len(doc.Actions.Content)/2)
	for i := 0; i+1 < len(doc.Actions.Content); i += 2 {
		key := doc.Actions.Content[i]
		value := doc.Actions.Content[i+1]

		if value.Kind != yaml.MappingNode {
			return nil, errors.Newf(errors.ErrConfigParse,
				"action %q must be a mapping with run and include fields", key.Value)
		}

		var spec ActionSpec
		if err := value.Decode(&spec); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "action %q", key.Value)
		}
		spec.Name = key.Value
		specs = append(specs, spec)
	}

	return specs, nil
}

// parseTOMLActions decodes the actions block from a TOML document. TOML
// configs declare actions as an array of tables with an explicit name key,
// which preserves order naturally.
func parseTOMLActions(data []byte) ([]ActionSpec, error) {
	var doc struct {
		Actions []ActionSpec `toml:"actions"`
	}
	if err := ptoml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Actions, nil
}
