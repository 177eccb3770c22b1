package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeySector       = "sector"
	cfgKeyExportDir    = "export_dir"
	cfgKeyExportFormat = "export_format"
	cfgKeyLogLevel     = "log_level"

	envPrefix = "BOARD"
)

// loadConfig reads config.yaml from configDir. A missing file leaves the
// defaults in place; BOARD_* environment variables override either.
func loadConfig(configDir string) (types.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeySector, types.DefaultSector)
	v.SetDefault(cfgKeyExportFormat, types.DefaultExportFormat)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyExportDir, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		Sector:       v.GetString(cfgKeySector),
		ExportDir:    v.GetString(cfgKeyExportDir),
		ExportFormat: v.GetString(cfgKeyExportFormat),
		LogLevel:     v.GetString(cfgKeyLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", filepath.Join(configDir, configFileExt), err)
	}
	return cfg, nil
}

// writeConfigIfMissing creates config.yaml with cfg. An existing file is left
// alone. Reports whether a file was written.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
