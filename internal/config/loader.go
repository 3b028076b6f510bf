// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every configuration environment variable.
// QANDA_DATABASE_URL maps to database.url.
const EnvPrefix = "QANDA_"

// listKeys are split on commas when read from the environment.
var listKeys = map[string]bool{"cors.origins": true}

// Options selects the sources Load reads.
type Options struct {
	// File is an optional YAML file. A missing file is an error.
	File string
	// DotEnv is an optional .env file loaded into the process environment
	// before the environment is read. A missing file is ignored.
	DotEnv string
	// Flags overrides keys with flags the user set explicitly.
	Flags *pflag.FlagSet
	// FlagKeys maps flag names to configuration keys. Flags not listed are
	// ignored.
	FlagKeys map[string]string
}

// Load reads configuration with precedence flags > env > file > defaults.
// The result is not validated.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "file").
				With("path", opts.File).
				Wrap(err)
		}
	}

	if err := loadDotEnv(opts.DotEnv); err != nil {
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := opts.FlagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}
	return &cfg, nil
}

// envKeyValue maps QANDA_SECTION_KEY to section.key. Key names contain no
// underscores, so every underscore is a level separator.
func envKeyValue(name, value string) (string, any) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_", ".")
	if listKeys[key] {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").With("source", "dotenv").With("path", path).Wrap(err)
	}
	return nil
}

// mapProvider serves an in-memory map of dotted keys to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(m))
	for key, value := range m {
		setNested(out, strings.Split(key, "."), value)
	}
	return out, nil
}

func setNested(dst map[string]any, path []string, value any) {
	if len(path) == 1 {
		dst[path[0]] = value
		return
	}
	child, ok := dst[path[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		dst[path[0]] = child
	}
	setNested(child, path[1:], value)
}
