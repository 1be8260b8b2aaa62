package tokit

import (
	"fmt"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override file
// configuration, e.g. TOKIT_TOKEN_NAME overrides token-name.
const EnvPrefix = "TOKIT_"

// LoadConfig reads a YAML configuration file, applies TOKIT_* environment
// overrides on top, and validates the result. Any failure is wrapped in
// [ErrConfigLoad] and must be treated as fatal: once a config path was
// explicitly given there is no fallback to defaults.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %v", ErrConfigLoad, path, err)
	}

	// TOKIT_ACTIVE_TIMEOUT -> active-timeout
	transform := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", "-")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		return Config{}, fmt.Errorf("%w: environment overrides: %v", ErrConfigLoad, err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: unmarshal: %v", ErrConfigLoad, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	return cfg, nil
}
