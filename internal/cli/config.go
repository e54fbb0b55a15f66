// Config loading for the hbnb CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyFileName   = "file_name"
	cfgKeyPrompt     = "prompt"
	cfgKeyHistory    = "history"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFile    = "log_file"
	cfgKeyLogJournal = "log_journal"
)

// configFile holds the structure written to config.yaml on first run.
type configFile struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir,omitempty"`
	FileName   string `yaml:"file_name"`
	Prompt     string `yaml:"prompt"`
	History    bool   `yaml:"history"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file,omitempty"`
	LogJournal bool   `yaml:"log_journal"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:  types.BackendJSON,
		FileName: types.DefaultFileName,
		Prompt:   console.DefaultPrompt,
		History:  true,
		LogLevel: "warn",
	}
}

// settings is the effective configuration after flags, config.yaml and
// environment have been merged.
type settings struct {
	ConfigDir  string
	Storage    types.Config
	FilePath   string // --file override of the document path; empty if unset
	Prompt     string
	History    bool
	LogLevel   string
	LogFile    string
	LogJournal bool
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	def := defaultConfigFile()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyFileName, def.FileName)
	v.SetDefault(cfgKeyPrompt, def.Prompt)
	v.SetDefault(cfgKeyHistory, def.History)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// resolveSettings merges flags over config.yaml over defaults.
func resolveSettings(f *rootFlags) (settings, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	s := settings{
		ConfigDir: configDir,
		Storage: types.Config{
			Backend:  v.GetString(cfgKeyBackend),
			DataDir:  dataDir,
			FileName: v.GetString(cfgKeyFileName),
		},
		Prompt:     v.GetString(cfgKeyPrompt),
		History:    v.GetBool(cfgKeyHistory),
		LogLevel:   v.GetString(cfgKeyLogLevel),
		LogFile:    v.GetString(cfgKeyLogFile),
		LogJournal: v.GetBool(cfgKeyLogJournal),
	}
	if f.backend != "" {
		s.Storage.Backend = f.backend
	}
	if f.logLevel != "" {
		s.LogLevel = f.logLevel
	}
	if f.file != "" {
		if s.FilePath, err = filepath.Abs(f.file); err != nil {
			return settings{}, fmt.Errorf("resolve file: %w", err)
		}
	}
	if err := s.Storage.Validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

// historyPath returns where the interactive history is kept, or "" when
// history is disabled or no data directory can be found.
func (s settings) historyPath() string {
	if !s.History {
		return ""
	}
	dir, err := paths.DefaultDataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
