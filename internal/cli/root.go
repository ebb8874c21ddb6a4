package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sppgrowth/pkg/buildinfo"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	config  string // config file path (default location if empty)
	logFile string // rotated log file, in addition to stderr
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the config file is loaded into c.Config and,
// when --log-file is given, log output is teed into a rotated file.
func (c *CLI) RootCommand() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   appName,
		Short: "sppgrowth mines stable periodic patterns from transaction databases",
		Long: `sppgrowth mines frequent itemsets from a transaction database with a
pattern-growth algorithm over a prefix tree, optionally constrained by a
secondary bound such as lability (stable periodicity).

Input files hold one transaction per line, items separated by spaces:

  1 2 5
  2 4|7      # items 2 and 4 in transaction 7`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default $XDG_CONFIG_HOME/sppgrowth/config.toml)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "also write logs to this file (rotated)")

	// Register all subcommands
	root.AddCommand(c.mineCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and opens the log file.
func (c *CLI) setup(flags rootFlags) error {
	path, explicit := flags.config, flags.config != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return nil
		}
		path = p
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg

	if flags.logFile != "" {
		c.attachLogFile(flags.logFile)
	}
	return nil
}
