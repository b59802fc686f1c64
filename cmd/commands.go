package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/launchr/internal/db"
	"github.com/VoxDroid/launchr/internal/executor"
	"github.com/VoxDroid/launchr/internal/exporter"
	"github.com/VoxDroid/launchr/internal/importer"
	commandsplugin "github.com/VoxDroid/launchr/internal/plugins/commands"
	"github.com/VoxDroid/launchr/internal/recorder"
	"github.com/VoxDroid/launchr/internal/registry"
	"github.com/VoxDroid/launchr/internal/security"
	"github.com/VoxDroid/launchr/internal/utils"
)

var commandsCmd = &cobra.Command{
	Use:     "commands",
	Aliases: []string{"cmds"},
	Short:   "Manage the command sets offered by the commands plugin",
}

// openRepository opens the database the commands plugin reads, as
// configured in its `commands` section.
func openRepository() (*registry.Repository, commandsplugin.Settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, commandsplugin.Settings{}, err
	}
	s, err := commandsplugin.LoadSettings(cfg.Doc)
	if err != nil {
		return nil, s, err
	}
	conn, err := db.Open(s.DBPath)
	if err != nil {
		return nil, s, err
	}
	return registry.NewRepository(conn), s, nil
}

var commandsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a named command set",
	Long: `Save a named command set. Examples:
  launchr commands save deploy -d 'build and push' -c 'make build' -c 'make push'
  history | tail -n 3 | launchr commands save recent --stdin

With --stdin one command is read per line until EOF or a line with :end.
The commands run in order and stop at the first failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		desc, _ := cmd.Flags().GetString("description")
		cmds, _ := cmd.Flags().GetStringArray("command")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		fromStdin, _ := cmd.Flags().GetBool("stdin")
		// an unquoted command split by the shell arrives as extra positionals
		if len(args) > 1 {
			joined := strings.Join(args[1:], " ")
			cmd.PrintErrf("warning: detected unquoted command tokens; using joined command: %q\n", joined)
			cmds = append(cmds, joined)
		}
		if fromStdin {
			recorded, err := recorder.RecordCommands(cmd.InOrStdin())
			if err != nil {
				return err
			}
			cmds = append(cmds, recorded...)
		}

		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		if _, err := r.CreateCommandSet(name, desc, cmds); err != nil {
			return err
		}
		for _, t := range tags {
			if err := r.AddTag(name, t); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved '%s' with %d commands\n", name, len(cmds))
		return nil
	},
}

var commandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved command sets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		tag, _ := cmd.Flags().GetString("tag")
		var sets []registry.CommandSet
		if tag != "" {
			sets, err = r.ListCommandSetsByTag(tag)
		} else {
			sets, err = r.ListCommandSets(false)
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range sets {
			line := "- " + s.Name
			if s.Description.Valid {
				line += ": " + s.Description.String
			}
			if len(s.Tags) > 0 {
				line += " [" + strings.Join(s.Tags, ", ") + "]"
			}
			_, _ = fmt.Fprintln(out, line)
		}
		return nil
	},
}

var commandsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a command set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		out := cmd.OutOrStdout()
		if !yes && !utils.Confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete '%s' permanently?", name)) {
			_, _ = fmt.Fprintln(out, "aborted")
			return nil
		}
		if err := r.DeleteCommandSet(name); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "deleted '%s'\n", name)
		return nil
	},
}

var commandsTagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags for command sets",
}

var commandsTagAddCmd = &cobra.Command{
	Use:   "add <set-name> <tag>",
	Short: "Add a tag to a command set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		if err := r.AddTag(args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added tag '%s' to '%s'\n", args[1], args[0])
		return nil
	},
}

var commandsTagRemoveCmd = &cobra.Command{
	Use:   "remove <set-name> <tag>",
	Short: "Remove a tag from a command set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		if err := r.RemoveTag(args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed tag '%s' from '%s'\n", args[1], args[0])
		return nil
	},
}

var commandsExportCmd = &cobra.Command{
	Use:   "export <file> [name...]",
	Short: "Write command sets to a standalone database file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		n, err := exporter.Export(r, args[1:], args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d command sets to %s\n", n, args[0])
		return nil
	},
}

var commandsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import every command set of an exported database file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		names, err := importer.Import(r, args[0])
		out := cmd.OutOrStdout()
		for _, n := range names {
			_, _ = fmt.Fprintf(out, "imported '%s'\n", n)
		}
		return err
	},
}

var commandsRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a command set in the foreground",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dry, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")

		r, s, err := openRepository()
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		cs, err := r.GetCommandSetByName(name)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		e := &executor.Executor{DryRun: dry, Verbose: true, Shell: s.Shell, Out: out}
		for _, c := range cs.Commands {
			if err := security.CheckAllowed(c.Command); err != nil && !force {
				return fmt.Errorf("refusing to run potentially dangerous command '%s': %w (use --force to override)", c.Command, err)
			}
			if !dry {
				_, _ = fmt.Fprintf(out, "-> %s\n", c.Command)
			}
			if err := e.Execute(ctx, c.Command, "", out, errOut); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	commandsSaveCmd.Flags().StringP("description", "d", "", "Description for the command set")
	commandsSaveCmd.Flags().StringArrayP("command", "c", nil, "Command to add to the set (can be repeated)")
	commandsSaveCmd.Flags().StringSliceP("tag", "t", nil, "Tag for the command set (can be repeated)")
	commandsSaveCmd.Flags().Bool("stdin", false, "Read commands from standard input, one per line")
	commandsListCmd.Flags().String("tag", "", "Only list sets with this tag")
	commandsDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")
	commandsRunCmd.Flags().Bool("dry-run", false, "Print the commands instead of running them")
	commandsRunCmd.Flags().Bool("force", false, "Override safety checks and force execution")

	commandsTagCmd.AddCommand(commandsTagAddCmd)
	commandsTagCmd.AddCommand(commandsTagRemoveCmd)
	commandsCmd.AddCommand(commandsSaveCmd)
	commandsCmd.AddCommand(commandsListCmd)
	commandsCmd.AddCommand(commandsDeleteCmd)
	commandsCmd.AddCommand(commandsTagCmd)
	commandsCmd.AddCommand(commandsRunCmd)
	commandsCmd.AddCommand(commandsExportCmd)
	commandsCmd.AddCommand(commandsImportCmd)
	rootCmd.AddCommand(commandsCmd)
}
