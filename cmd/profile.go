package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuhgnoej/rofle/internal/config"
	"github.com/nuhgnoej/rofle/internal/output"
)

var flagImportID string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored profiles",
}

var profileImportCmd = &cobra.Command{
	Use:   "import <profile.yaml>",
	Short: "Store a profile file and print its ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileImport,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the last saved projection of a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile with its overrides and projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

func init() {
	profileImportCmd.Flags().StringVar(&flagImportID, "id", "", "ID to store the profile under (default: id in the file, else a new UUID)")
	profileCmd.AddCommand(profileImportCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	profile, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	if flagImportID != "" {
		profile.ID = flagImportID
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	id, err := s.SaveProfile(cmd.Context(), profile)
	if err != nil {
		return err
	}
	logger.Info("profile imported")
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	infos, err := s.ListProfiles(cmd.Context())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  No stored profiles. Add one with `projector profile import <file>`.")
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		projected := "no"
		if info.HasProjection {
			projected = "yes"
		}
		rows = append(rows, []string{info.ID, info.Name, info.UpdatedAt.Local().Format("2006-01-02 15:04"), projected})
	}
	fmt.Fprint(cmd.OutOrStdout(), output.RenderTable(output.Table{
		Title:   "Profiles",
		Headers: []string{"ID", "Name", "Updated", "Projected"},
		Rows:    rows,
	}))
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	result, err := s.LoadProjection(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("%w (run `projector project --id %s` first)", err, args[0])
	}
	return emit(cmd, result)
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteProfile(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Deleted %s\n", args[0])
	return nil
}
