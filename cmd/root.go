package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VoxDroid/launchr/cmd/tui/ui"
)

var errNoTerminal = errors.New("launchr needs an interactive terminal; use `launchr query` for scripting")

var (
	configPath string
	pluginDir  string
	maxEntries int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "launchr",
	Short: "launchr is a plugin-driven application launcher",
	Long: `launchr loads launcher plugins, ranks their entries against what you type
and launches the one you pick. Without a subcommand it starts the terminal UI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			return errNoTerminal
		}
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		m := ui.NewModel(a.router, a.cfg.Settings.MaxEntries, a.pending, ui.WithLogger(a.log))
		if _, err := ui.NewProgram(m).Run(); err != nil {
			return err
		}
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Configuration file (default <config dir>/config.yaml)")
	pf.StringVar(&pluginDir, "plugin-dir", "", "Directory scanned for plugin .so files")
	pf.IntVar(&maxEntries, "max-entries", 0, "Maximum number of merged results")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}
