// Package config handles loading and validation of the releasewarrior
// configuration file.
//
// Configuration is read with viper from a YAML file (default
// $HOME/.releasewarrior.yaml). Every key can be overridden from the
// environment with the RELEASEWARRIOR_ prefix, nested keys joined by '_'
// (RELEASEWARRIOR_RELEASE_PIPELINE_REPO, RELEASEWARRIOR_RELEASES_INFLIGHT_FIREFOX).
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/NielsdaWheelz/releasewarrior/internal/core"
	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "RELEASEWARRIOR"

// FileName is the base name of the default config file in $HOME.
const FileName = ".releasewarrior.yaml"

// Config is the parsed configuration.
type Config struct {
	ReleasePipelineRepo string    `mapstructure:"release_pipeline_repo" yaml:"release_pipeline_repo"`
	TemplatesDir        string    `mapstructure:"templates_dir" yaml:"templates_dir,omitempty"`
	StateDir            string    `mapstructure:"state_dir" yaml:"state_dir,omitempty"`
	Releases            Releases  `mapstructure:"releases" yaml:"releases"`
	Templates           Templates `mapstructure:"templates" yaml:"templates"`
}

// Releases maps each product to its upcoming and inflight directories,
// relative to the release pipeline checkout.
type Releases struct {
	Upcoming map[string]string `mapstructure:"upcoming" yaml:"upcoming"`
	Inflight map[string]string `mapstructure:"inflight" yaml:"inflight"`
}

// Templates maps product and branch to template file names.
type Templates struct {
	Data map[string]map[string]string `mapstructure:"data" yaml:"data"`
	Wiki map[string]map[string]string `mapstructure:"wiki" yaml:"wiki"`
}

// Default returns the built-in configuration. ReleasePipelineRepo is left
// empty; it has no sensible default.
func Default() Config {
	cfg := Config{
		Releases: Releases{
			Upcoming: map[string]string{},
			Inflight: map[string]string{},
		},
		Templates: Templates{
			Data: map[string]map[string]string{},
			Wiki: map[string]map[string]string{},
		},
	}
	for _, p := range core.Products {
		name := string(p)
		cfg.Releases.Upcoming[name] = "releases/upcoming"
		cfg.Releases.Inflight[name] = "releases/inflight"
		cfg.Templates.Data[name] = map[string]string{}
		cfg.Templates.Wiki[name] = map[string]string{}
		for _, b := range core.Branches {
			cfg.Templates.Data[name][b] = b + "_data.json"
			cfg.Templates.Wiki[name][b] = b + "_wiki.md.tmpl"
		}
	}
	return cfg
}

// DefaultPath returns $HOME/.releasewarrior.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.EInvalidConfig, "failed to determine home directory", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config file at path, applies environment overrides, and
// validates the result.
//
// A missing file is not an error when path is the default location and
// explicit is false; defaults and environment are used instead.
func Load(fsys fs.FS, path string, explicit bool) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	data, err := fsys.ReadFile(path)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "invalid config file: "+err.Error(), err,
				map[string]string{"config": path})
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "failed to read config file", err,
			map[string]string{"config": path})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapWithDetails(errors.EInvalidConfig, "invalid config: "+err.Error(), err,
			map[string]string{"config": path})
	}

	cfg, err = Resolve(cfg)
	if err != nil {
		return Config{}, errors.WithDetails(err, map[string]string{"config": path})
	}
	return cfg, nil
}

// setDefaults registers every key of cfg so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("release_pipeline_repo", cfg.ReleasePipelineRepo)
	v.SetDefault("templates_dir", cfg.TemplatesDir)
	v.SetDefault("state_dir", cfg.StateDir)
	for product, dir := range cfg.Releases.Upcoming {
		v.SetDefault("releases.upcoming."+product, dir)
	}
	for product, dir := range cfg.Releases.Inflight {
		v.SetDefault("releases.inflight."+product, dir)
	}
	for product, branches := range cfg.Templates.Data {
		for branch, name := range branches {
			v.SetDefault("templates.data."+product+"."+branch, name)
		}
	}
	for product, branches := range cfg.Templates.Wiki {
		for branch, name := range branches {
			v.SetDefault("templates.wiki."+product+"."+branch, name)
		}
	}
}

// Resolve expands paths and validates cfg. It returns E_INVALID_CONFIG on
// the first problem found.
func Resolve(cfg Config) (Config, error) {
	repo := expandHome(strings.TrimSpace(cfg.ReleasePipelineRepo))
	if repo == "" {
		return cfg, errors.NewWithDetails(errors.EInvalidConfig, "missing required field release_pipeline_repo",
			map[string]string{"hint": "run releasewarrior init or set RELEASEWARRIOR_RELEASE_PIPELINE_REPO"})
	}
	if !filepath.IsAbs(repo) {
		return cfg, errors.New(errors.EInvalidConfig, "release_pipeline_repo must be an absolute path")
	}
	cfg.ReleasePipelineRepo = filepath.Clean(repo)

	if cfg.TemplatesDir != "" {
		dir := expandHome(cfg.TemplatesDir)
		if !filepath.IsAbs(dir) {
			return cfg, errors.New(errors.EInvalidConfig, "templates_dir must be an absolute path")
		}
		cfg.TemplatesDir = filepath.Clean(dir)
	}

	if cfg.StateDir == "" {
		dir, err := defaultStateDir()
		if err != nil {
			return cfg, err
		}
		cfg.StateDir = dir
	}
	cfg.StateDir = filepath.Clean(expandHome(cfg.StateDir))

	for _, p := range core.Products {
		name := string(p)
		if err := checkReleaseDir(cfg, "releases.upcoming."+name, cfg.Releases.Upcoming[name]); err != nil {
			return cfg, err
		}
		if err := checkReleaseDir(cfg, "releases.inflight."+name, cfg.Releases.Inflight[name]); err != nil {
			return cfg, err
		}
		if filepath.Clean(cfg.Releases.Upcoming[name]) == filepath.Clean(cfg.Releases.Inflight[name]) {
			return cfg, errors.New(errors.EInvalidConfig,
				"releases.upcoming."+name+" and releases.inflight."+name+" must differ")
		}
		for _, b := range core.Branches {
			if strings.TrimSpace(cfg.Templates.Data[name][b]) == "" {
				return cfg, errors.New(errors.EInvalidConfig, "missing required field templates.data."+name+"."+b)
			}
			if strings.TrimSpace(cfg.Templates.Wiki[name][b]) == "" {
				return cfg, errors.New(errors.EInvalidConfig, "missing required field templates.wiki."+name+"."+b)
			}
		}
	}
	return cfg, nil
}

func checkReleaseDir(cfg Config, field, rel string) error {
	if strings.TrimSpace(rel) == "" {
		return errors.New(errors.EInvalidConfig, "missing required field "+field)
	}
	if filepath.IsAbs(rel) {
		return errors.New(errors.EInvalidConfig, field+" must be relative to release_pipeline_repo")
	}
	if !fs.IsSubpath(filepath.Join(cfg.ReleasePipelineRepo, rel), cfg.ReleasePipelineRepo) {
		return errors.New(errors.EInvalidConfig, field+" must stay inside release_pipeline_repo")
	}
	return nil
}

// UpcomingDir returns the absolute upcoming directory for product.
func (c Config) UpcomingDir(p core.Product) string {
	return filepath.Join(c.ReleasePipelineRepo, c.Releases.Upcoming[string(p)])
}

// InflightDir returns the absolute inflight directory for product.
func (c Config) InflightDir(p core.Product) string {
	return filepath.Join(c.ReleasePipelineRepo, c.Releases.Inflight[string(p)])
}

// DataTemplate returns the data template name for the release.
func (c Config) DataTemplate(id core.Identity) string {
	return c.Templates.Data[string(id.Product)][id.Branch]
}

// WikiTemplate returns the wiki template name for the release.
func (c Config) WikiTemplate(id core.Identity) string {
	return c.Templates.Wiki[string(id.Product)][id.Branch]
}

// LocksDir returns the directory holding per-release lock files.
func (c Config) LocksDir() string {
	return filepath.Join(c.StateDir, "locks")
}

// EventsPath returns the local transition history file.
func (c Config) EventsPath() string {
	return filepath.Join(c.StateDir, "events.jsonl")
}

// defaultStateDir returns $XDG_STATE_HOME/releasewarrior, falling back to
// ~/.local/state/releasewarrior.
func defaultStateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" && filepath.IsAbs(dir) {
		return filepath.Join(dir, "releasewarrior"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.EInvalidConfig, "failed to determine home directory for state_dir", err)
	}
	return filepath.Join(home, ".local", "state", "releasewarrior"), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
