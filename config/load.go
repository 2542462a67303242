package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/regginator/omniwordlist/errors"
)

// EnvPrefix is the prefix of environment overrides, e.g. OMNI_MAX_LENGTH.
const EnvPrefix = "OMNI"

// FileType maps a config path to a viper config type by extension.
func FileType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return "json", nil
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", errors.WithHint(
			errors.Configf("unsupported config format %q", filepath.Ext(path)),
			"use .json, .toml or .yaml",
		)
	}
}

// SetDefaults registers Default() values on v so env overrides and partial
// files resolve against them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("min_length", d.MinLength)
	v.SetDefault("max_length", d.MaxLength)
	v.SetDefault("dedupe", d.Dedupe)
	v.SetDefault("format", d.Format)
	v.SetDefault("checkpoint_every", d.CheckpointEvery)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("permutations_only", false)
	v.SetDefault("invert", false)
	v.SetDefault("charset", "")
	v.SetDefault("pattern", "")
	v.SetDefault("output_file", "")
	v.SetDefault("compression", "")
	v.SetDefault("max_lines", 0)
	v.SetDefault("checkpoint_dir", "")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads a config file. JSON files may carry comments and trailing
// commas. The result is not validated.
func Load(path string) (Config, error) {
	kind, err := FileType(path)
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapKindf(err, errors.ErrConfig, "failed to read config file %s", path)
	}
	return Parse(data, kind)
}

// Parse decodes config bytes of the given viper type (json, toml, yaml).
func Parse(data []byte, kind string) (Config, error) {
	if kind == "json" {
		data = jsonc.ToJSON(data)
	}

	v := newViper()
	v.SetConfigType(kind)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Config{}, errors.WrapKindf(err, errors.ErrConfig, "failed to parse %s config", kind)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapKind(err, errors.ErrConfig, "failed to unmarshal config")
	}
	return cfg, nil
}

// Encode serializes cfg in the format implied by path's extension.
func Encode(cfg Config, path string) ([]byte, error) {
	kind, err := FileType(path)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch kind {
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case "toml":
		data, err = toml.Marshal(cfg)
	case "yaml":
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrSerialization, "failed to encode %s config", kind)
	}
	return data, nil
}

// Save writes cfg to path in the format implied by its extension.
func Save(cfg Config, path string) error {
	data, err := Encode(cfg, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapKindf(err, errors.ErrConfig, "failed to write config %s", path)
	}
	return nil
}
