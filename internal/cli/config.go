package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	pkgio "github.com/matzehuels/sppgrowth/pkg/io"
	"github.com/matzehuels/sppgrowth/pkg/pipeline"
)

// Config is the contents of the TOML config file. Command-line flags override
// every value set here.
//
//	min_support = 5
//	format = "json"
//
//	[bound]
//	kind = "lability"
//	params = { max_per = 3, max_la = 2 }
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	MinSupport int          `toml:"min_support"`
	TopK       int          `toml:"top_k"`
	MaxLength  int          `toml:"max_length"`
	Format     string       `toml:"format"`
	Bound      bound.Config `toml:"bound"`
	Cache      CacheConfig  `toml:"cache"`
	Server     ServerConfig `toml:"server"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		MinSupport: pipeline.DefaultMinSupport,
		MaxLength:  pipeline.DefaultMaxLength,
		Format:     pkgio.FormatSPMF,
		Bound:      bound.Config{Kind: bound.KindNone},
		Cache:      CacheConfig{Prefix: appName + ":"},
		Server:     ServerConfig{Addr: ":8080", MongoDB: appName},
	}
}

// loadConfig reads path on top of the defaults. A missing file is not an
// error unless it was named explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	if _, err := cfg.Bound.Build(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	})

	return cmd
}
