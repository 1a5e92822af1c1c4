package config

import (
	"gopkg.in/yaml.v3"

	"github.com/NielsdaWheelz/releasewarrior/internal/errors"
	"github.com/NielsdaWheelz/releasewarrior/internal/fs"
)

// Marshal renders cfg as YAML. Empty templates_dir and state_dir are left
// out so the built-in defaults apply.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.EInternal, "failed to encode config", err)
	}
	return data, nil
}

// WriteDefault writes the default config with repo as the pipeline checkout.
// An existing file is kept unless force is set (E_CONFIG_EXISTS).
func WriteDefault(fsys fs.FS, path, repo string, force bool) (Config, error) {
	cfg := Default()
	cfg.ReleasePipelineRepo = repo
	if err := Write(fsys, path, cfg, force); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write validates cfg and writes it to path as YAML. The unresolved values
// are written, so "~" and empty state_dir survive.
func Write(fsys fs.FS, path string, cfg Config, force bool) error {
	exists, err := fs.Exists(fsys, path)
	if err != nil {
		return errors.WrapWithDetails(errors.EInternal, "failed to stat config file", err,
			map[string]string{"config": path})
	}
	if exists && !force {
		return errors.NewWithDetails(errors.EConfigExists, "config file already exists",
			map[string]string{"config": path, "hint": "rerun with --force to overwrite"})
	}

	if _, err := Resolve(cfg); err != nil {
		return err
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return errors.WrapWithDetails(errors.EPersistFailed, "failed to write config file", err,
			map[string]string{"config": path})
	}
	return nil
}
