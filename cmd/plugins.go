package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Show which plugins load and why others were rejected",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "plugin dir: %s\n", a.cfg.Settings.PluginDir)
		for _, in := range a.router.Registry().Instances() {
			where := in.Path
			if where == "" {
				where = "built-in"
			}
			_, _ = fmt.Fprintf(out, "%d\t%s\t%s\n", in.Index, in.Name, where)
			for _, f := range in.Faults() {
				_, _ = fmt.Fprintf(out, "\tfault: %s\n", f)
			}
		}
		for _, rej := range a.loaded.Rejected {
			_, _ = fmt.Fprintf(out, "rejected\t%s\n", rej.Error())
		}
		for _, ign := range a.loaded.Ignored {
			_, _ = fmt.Fprintf(out, "ignored\t%s\n", ign.Error())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
