package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuhgnoej/rofle/internal/calculation"
	"github.com/nuhgnoej/rofle/internal/config"
	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/internal/output"
	"github.com/nuhgnoej/rofle/internal/planner"
)

var (
	flagProfileID string
	flagSave      bool
)

var projectCmd = &cobra.Command{
	Use:   "project [profile.yaml]",
	Short: "Run a projection from a profile file or a stored profile",
	Example: `  projector project household.yaml
  projector project --id 3f1c... --format monthly-csv
  projector project household.yaml --save --format all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringVar(&flagProfileID, "id", "", "Project a stored profile and save the result")
	projectCmd.Flags().BoolVar(&flagSave, "save", false, "Write the report to a timestamped file instead of stdout")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	if (flagProfileID == "") == (len(args) == 0) {
		return errors.New("give either a profile file or --id")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	var result *domain.ProjectionResult
	if flagProfileID != "" {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		result, err = planner.NewService(s, engine, logger).Project(cmd.Context(), flagProfileID)
		if err != nil {
			return explain(err)
		}
	} else {
		profile, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		result, err = engine.RunProjection(profile)
		if err != nil {
			return explain(err)
		}
	}

	return emit(cmd, result)
}

// emit writes the result to stdout, or to report files with --save.
func emit(cmd *cobra.Command, result *domain.ProjectionResult) error {
	if flagSave {
		files, err := output.GenerateReport(result, settings.General.DefaultFormat, settings.General.OutputDir)
		for _, f := range files {
			fmt.Fprintf(cmd.ErrOrStderr(), "  wrote %s\n", f)
		}
		return err
	}
	return output.Render(cmd.OutOrStdout(), result, settings.General.DefaultFormat)
}

// explain adds a hint to engine errors the user can act on.
func explain(err error) error {
	var insufficient *calculation.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return fmt.Errorf("%w (raise monthly_repayment by at least %s)", err, insufficient.Shortfall().StringFixed(2))
	}
	return err
}
