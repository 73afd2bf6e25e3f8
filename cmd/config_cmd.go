package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonlens/internal/config"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as YAML",
		Long: `config prints the configuration in effect: the built-in defaults merged
with the user file from --config-file, $XDG_CONFIG_HOME/jsonlens/config.yaml
or ~/.config/jsonlens/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := o.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "themes",
			Short: "List available color themes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				current := o.cfg.ThemeName()
				for _, name := range o.cfg.ThemeNames() {
					marker := " "
					if name == current {
						marker = "*"
					}
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path := config.ResolvePath(o.configFile)
				if path == "" {
					path = "(built-in defaults)"
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(path))
				return err
			},
		},
	)
	return cmd
}
