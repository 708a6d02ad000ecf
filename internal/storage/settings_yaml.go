package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"autonav/internal/core/model"
)

const configFileName = "settings.yaml"

// ErrConfigExists is returned when a stub would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// ResolvePath returns the default config path under the user config directory.
func ResolvePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

// LoadConfig reads a card configuration from YAML, or TOML when the file has a
// .toml extension. If the file does not exist, the default configuration is returned.
func LoadConfig(path string, logger *slog.Logger) (model.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	config := model.DefaultConfig()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("config file not found, using defaults", "path", path)
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	format := formatFor(path)
	fileData, err := format.decode(rawData)
	if err != nil {
		return config, fmt.Errorf("parse config %s: %w", format.name, err)
	}
	if fileData == nil {
		fileData = map[string]any{}
	}

	for _, key := range model.LegacyKeys(fileData) {
		logger.Warn("deprecated config key", "key", key, "path", path)
	}

	parsed, err := model.ParseConfig(fileData)
	if err != nil {
		return config, fmt.Errorf("apply config %s: %w", path, err)
	}
	return parsed, nil
}

// SaveConfig writes config to path in the format its extension selects,
// creating parent directories.
func SaveConfig(path string, config model.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	format := formatFor(path)
	serialized, err := format.encode(config.Map())
	if err != nil {
		return fmt.Errorf("marshal config %s: %w", format.name, err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// WriteStub writes the stub configuration. Without force an existing file is
// left alone and ErrConfigExists is returned.
func WriteStub(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}
	return SaveConfig(path, model.StubConfig())
}

type fileFormat struct {
	name   string
	decode func([]byte) (map[string]any, error)
	encode func(map[string]any) ([]byte, error)
}

var yamlFormat = fileFormat{
	name: "yaml",
	decode: func(data []byte) (map[string]any, error) {
		raw := map[string]any{}
		err := yaml.Unmarshal(data, &raw)
		return raw, err
	},
	encode: func(raw map[string]any) ([]byte, error) {
		return yaml.Marshal(raw)
	},
}

func formatFor(path string) fileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlFormat
	}
	return yamlFormat
}
