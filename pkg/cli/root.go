// Package cli implements the blockpad command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/blockpad/pkg/editor"
	"github.com/dshills/blockpad/pkg/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	// Version is the current version of blockpad
	Version = "1.0.0"

	configFileName = "config.yaml"
	logFileName    = "blockpad.log"
)

// FileConfig is the content of config.yaml
type FileConfig struct {
	Store      string `yaml:"store"`
	DebounceMS int    `yaml:"debounce_ms"`
	StorageKey string `yaml:"storage_key"`
}

// Config holds the global configuration for the blockpad CLI
type Config struct {
	ConfigDir string
	Debug     bool
	Store     string
	File      FileConfig
}

// GlobalConfig is the shared configuration instance
var GlobalConfig = &Config{}

// NewRootCommand creates the root cobra command for blockpad
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blockpad",
		Short: "blockpad - a block-based note editor for the terminal",
		Long: `blockpad edits a single titled document made of typed blocks
(text, headings, lists and code) in the terminal.

Type / at the start of a block to change its type, Enter to add a block and
Backspace on an empty block to remove it. Edits are saved automatically.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}

	// Persistent flags (available to all subcommands)
	cmd.PersistentFlags().BoolVar(&GlobalConfig.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&GlobalConfig.ConfigDir, "config-dir", "", "Configuration directory (default: ~/.blockpad)")
	cmd.PersistentFlags().StringVar(&GlobalConfig.Store, "store", "", "Storage backend: file, sqlite or memory (default: file)")

	cmd.AddCommand(NewEditCommand())
	cmd.AddCommand(NewShowCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewBlocksCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewResetCommand())

	return cmd
}

// initConfig resolves the configuration directory and loads config.yaml,
// writing a default one on first run
func initConfig() error {
	GlobalConfig.ConfigDir = GetConfigDir()

	if err := os.MkdirAll(GlobalConfig.ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(GlobalConfig.ConfigDir, configFileName)
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaults := FileConfig{
			Store:      storage.BackendFile,
			DebounceMS: int(editor.DefaultDebounce / time.Millisecond),
			StorageKey: storage.DocumentKey,
		}
		data, err := yaml.Marshal(defaults)
		if err != nil {
			return fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	GlobalConfig.File = fc

	return nil
}

// GetConfigDir returns the configuration directory path
// Priority order: 1) BLOCKPAD_CONFIG_DIR env var, 2) --config-dir, 3) ~/.blockpad
func GetConfigDir() string {
	if envDir := os.Getenv("BLOCKPAD_CONFIG_DIR"); envDir != "" {
		return envDir
	}
	if GlobalConfig.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home dir cannot be determined
			return ".blockpad"
		}
		return filepath.Join(homeDir, ".blockpad")
	}
	return GlobalConfig.ConfigDir
}

// Backend returns the storage backend, the --store flag winning over the file
func (c *Config) Backend() string {
	if c.Store != "" {
		return c.Store
	}
	if c.File.Store != "" {
		return c.File.Store
	}
	return storage.BackendFile
}

// Debounce returns the configured save delay, or the editor default
func (c *Config) Debounce() time.Duration {
	if c.File.DebounceMS > 0 {
		return time.Duration(c.File.DebounceMS) * time.Millisecond
	}
	return editor.DefaultDebounce
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
