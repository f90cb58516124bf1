package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hrintel/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the skills, roles and question templates in use",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active catalog as YAML",
	Long: `Print the catalog hrintel is using: the built-in one, or catalog.file from
the configuration. The output is a valid catalog file and can be used as a
starting point for a custom catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())

		c, _, err := catalog.Resolve(cfg.Catalog.File)
		if err != nil {
			return err
		}
		data, err := c.Marshal()
		if err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file",
	Long:  "Parse and validate a catalog file. Without an argument the configured catalog.file is checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())

		path := cfg.Catalog.File
		if len(args) == 1 {
			path = args[0]
		}

		c, source, err := catalog.Resolve(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog %s is valid: %d skills, %d role rules, %d rubric criteria\n",
			source, len(c.Skills), len(c.Roles.Rules), len(c.Rubric))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd, catalogValidateCmd)
}
