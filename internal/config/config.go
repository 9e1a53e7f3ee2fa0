package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Paths     PathsConfig     `mapstructure:"paths"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	OutputDir  string `mapstructure:"output_dir"`
	ResultsDir string `mapstructure:"results_dir"`
	DataDir    string `mapstructure:"data_dir"`
	DBFile     string `mapstructure:"db_file"`
	LogFile    string `mapstructure:"log_file"`
}

// DiscoveryConfig controls how the installation is located
type DiscoveryConfig struct {
	Candidates    []string `mapstructure:"candidates"`     // Empty means the built-in list
	Registry      bool     `mapstructure:"registry"`       // Also query the Windows registry
	RegistryKey   string   `mapstructure:"registry_key"`   // Under HKEY_LOCAL_MACHINE
	LibraryExt    string   `mapstructure:"library_ext"`    // Native library signature
	ExecutableExt string   `mapstructure:"executable_ext"` // Executable signature
	ScanDepth     int      `mapstructure:"scan_depth"`     // Ancestor levels listed by diagnose
	DefaultPython string   `mapstructure:"default_python"` // Default answer for the diagnose prompt
}

// ExecutorConfig contains script execution settings
type ExecutorConfig struct {
	Python       string `mapstructure:"python"`
	Method       string `mapstructure:"method"`
	WaitSeconds  int    `mapstructure:"wait_seconds"`
	BridgeModule string `mapstructure:"bridge_module"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(homeDir, ".config", "pfscript"))
	}
	viper.AddConfigPath(".")

	setDefaults()

	// PFSCRIPT_EXECUTOR_PYTHON overrides executor.python, and so on
	viper.SetEnvPrefix("PFSCRIPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Paths.OutputDir = expandPath(cfg.Paths.OutputDir)
	cfg.Paths.ResultsDir = expandPath(cfg.Paths.ResultsDir)
	cfg.Paths.DataDir = expandPath(cfg.Paths.DataDir)
	cfg.Paths.DBFile = expandPath(cfg.Paths.DBFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		homeDir = "."
	}
	dataDir := filepath.Join(homeDir, ".local", "share", "pfscript")

	viper.SetDefault("paths.output_dir", "generated_scripts")
	viper.SetDefault("paths.results_dir", "results")
	viper.SetDefault("paths.data_dir", dataDir)
	viper.SetDefault("paths.db_file", filepath.Join(dataDir, "scripts.db"))
	viper.SetDefault("paths.log_file", filepath.Join(dataDir, "pfscript.log"))

	viper.SetDefault("discovery.candidates", []string{})
	viper.SetDefault("discovery.registry", true)
	viper.SetDefault("discovery.registry_key", `SOFTWARE\DIgSILENT GmbH`)
	viper.SetDefault("discovery.library_ext", ".dll")
	viper.SetDefault("discovery.executable_ext", ".exe")
	viper.SetDefault("discovery.scan_depth", 5)
	viper.SetDefault("discovery.default_python", `D:\Digsilent Powerfactory 2021\Digsilent\Python\3.8`)

	viper.SetDefault("executor.python", "")
	viper.SetDefault("executor.method", "bridge")
	viper.SetDefault("executor.wait_seconds", 2)
	viper.SetDefault("executor.bridge_module", "powerfactory")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}
