package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuhgnoej/rofle/internal/config"
	"github.com/nuhgnoej/rofle/internal/output"
)

var exampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write an example profile to start from",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	path := "example_profile.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	profile := config.NewInputParser().CreateExampleProfile()
	if err := output.SaveProfile(profile, path); err != nil {
		return fmt.Errorf("writing example profile: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Example profile written to %s\n", path)
	return nil
}
