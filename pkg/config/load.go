package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/monarch/errors"
	log "github.com/cloudposse/monarch/pkg/logger"
	"github.com/cloudposse/monarch/pkg/schema"
	u "github.com/cloudposse/monarch/pkg/utils"
)

// LoadConfig loads the monarch configuration from the following locations (from lower to higher priority):
// defaults
// system dir (/usr/local/etc/monarch)
// XDG config home ($XDG_CONFIG_HOME/monarch)
// current directory
// MONARCH_CLI_CONFIG_PATH
// the explicit configPath (usually --config)
// MONARCH_* environment variables
// command-line flags that were set
func LoadConfig(configPath string, flags *pflag.FlagSet) (schema.Configuration, error) {
	var cfg schema.Configuration

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaultConfiguration(v)

	searchDirs := []string{SystemDirConfigFilePath, filepath.Join(xdg.ConfigHome, MonarchCommand)}
	if wd, err := os.Getwd(); err == nil {
		searchDirs = append(searchDirs, wd)
	}
	for _, dir := range searchDirs {
		if err := mergeConfigFromDir(v, dir, &cfg); err != nil {
			return cfg, err
		}
	}

	if envPath := os.Getenv(CliConfigPathEnvVar); envPath != "" {
		if err := mergeConfigFromPath(v, envPath, &cfg); err != nil {
			return cfg, err
		}
		log.Debug("Found config ENV", CliConfigPathEnvVar, envPath)
	}

	if configPath != "" {
		found, err := mergeConfigFile(v, configPath)
		if err != nil {
			return cfg, err
		}
		if !found {
			return cfg, errUtils.Build(errUtils.ErrLoadConfig).
				WithCause("config file %s does not exist", configPath).
				WithHint("Pass an existing file to --config").
				Err()
		}
		cfg.CliConfigPath = configPath
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, flags); err != nil {
		return cfg, err
	}

	configFile := cfg.CliConfigPath
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		trimStringSliceHook(),
	))); err != nil {
		return cfg, errors.Wrap(errors.Mark(err, errUtils.ErrLoadConfig), "failed to decode configuration")
	}
	cfg.CliConfigPath = configFile

	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.DataDir
	}

	if cfg.CliConfigPath == "" {
		log.Debug("'monarch.yaml' config was not found", "paths", "system dir, XDG config home, current dir, ENV vars")
	}

	return cfg, nil
}

// setDefaultConfiguration sets default configuration for the viper instance.
func setDefaultConfiguration(v *viper.Viper) {
	v.SetDefault(KeyHierarchy, "")
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyTarget, "")
	v.SetDefault(KeyMergeKeys, []string{})
	v.SetDefault(KeyIsolation, DefaultIsolation)
	v.SetDefault(KeyYAMLIndent, DefaultYAMLIndent)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyLogsLevel, DefaultLogLevel)
	v.SetDefault(KeyLogsFile, DefaultLogFile)
}

// mergeConfigFromPath accepts either a config file or a directory that contains one.
func mergeConfigFromPath(v *viper.Viper, path string, cfg *schema.Configuration) error {
	isDir, err := u.IsDirectory(path)
	if err != nil {
		log.Debug("config not found", "path", path)
		return nil
	}
	if isDir {
		return mergeConfigFromDir(v, path, cfg)
	}
	found, err := mergeConfigFile(v, path)
	if found {
		cfg.CliConfigPath = path
	}
	return err
}

// mergeConfigFromDir merges monarch.yaml (or monarch.yml) from dir when present.
func mergeConfigFromDir(v *viper.Viper, dir string, cfg *schema.Configuration) error {
	for _, ext := range configFileExtensions {
		path := filepath.Join(dir, CliConfigFileName+ext)
		found, err := mergeConfigFile(v, path)
		if err != nil {
			return err
		}
		if found {
			cfg.CliConfigPath = path
			return nil
		}
	}
	return nil
}

// mergeConfigFile merges one YAML file into v. A missing file is not an error.
func mergeConfigFile(v *viper.Viper, path string) (bool, error) {
	if !u.FileExists(path) {
		return false, nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return false, errUtils.Build(errUtils.ErrLoadConfig).
			WithCause("failed to merge config file %s: %s", path, err).
			Err()
	}
	log.Debug("Merged config file", "file", path)
	return true, nil
}

// bindFlags binds the known flags that exist in flags to their config keys.
// Viper only lets a flag override the file and env values when the flag was changed.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(errors.Mark(err, errUtils.ErrLoadConfig), "failed to bind flag --%s", name)
		}
	}
	return nil
}

// trimStringSliceHook trims whitespace from every element of a decoded string slice,
// so "tags, owners" from the environment becomes ["tags", "owners"].
func trimStringSliceHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf([]string{}) {
			return data, nil
		}
		items, ok := data.([]string)
		if !ok {
			return data, nil
		}
		trimmed := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				trimmed = append(trimmed, item)
			}
		}
		return trimmed, nil
	}
}
