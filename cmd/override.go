package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/internal/planner"
)

var overrideCmd = &cobra.Command{
	Use:   "override",
	Short: "Edit per-month overrides of a stored profile",
}

var overrideSetCmd = &cobra.Command{
	Use:     "set <id> <year> <month> <field> <amount>",
	Short:   "Override income or monthly_consumption for one month and re-project",
	Example: "  projector override set 3f1c... 2031 6 income 0",
	Args:    cobra.ExactArgs(5),
	RunE:    runOverrideSet,
}

var overrideClearCmd = &cobra.Command{
	Use:   "clear <id> <year> <month> [field]",
	Short: "Remove an override and re-project (both fields when none is given)",
	Args:  cobra.RangeArgs(3, 4),
	RunE:  runOverrideClear,
}

var overrideResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Remove every override of a profile and re-project",
	Args:  cobra.ExactArgs(1),
	RunE:  runOverrideReset,
}

func init() {
	overrideCmd.AddCommand(overrideSetCmd, overrideClearCmd, overrideResetCmd)
	rootCmd.AddCommand(overrideCmd)
}

func parseYearMonth(year, month string) (int, int, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", year)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", month)
	}
	return y, m, nil
}

func runOverrideSet(cmd *cobra.Command, args []string) error {
	year, month, err := parseYearMonth(args[1], args[2])
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(args[4])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[4], err)
	}
	if amount.IsNegative() {
		return fmt.Errorf("override amount cannot be negative")
	}
	return editOverrides(cmd, args[0], year, month, []string{args[3]}, &amount)
}

func runOverrideClear(cmd *cobra.Command, args []string) error {
	year, month, err := parseYearMonth(args[1], args[2])
	if err != nil {
		return err
	}
	fields := []string{domain.OverrideIncome, domain.OverrideConsumption}
	if len(args) == 4 {
		fields = args[3:]
	}
	return editOverrides(cmd, args[0], year, month, fields, nil)
}

func editOverrides(cmd *cobra.Command, id string, year, month int, fields []string, value *decimal.Decimal) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	svc := planner.NewService(s, engine, logger)
	// Every edit but the last is stored without re-projecting.
	for _, f := range fields[:len(fields)-1] {
		if err := s.SetOverride(cmd.Context(), id, year, month, f, value); err != nil {
			return err
		}
	}
	result, err := svc.EditOverride(cmd.Context(), id, year, month, fields[len(fields)-1], value)
	if err != nil {
		return explain(err)
	}
	return emit(cmd, result)
}

func runOverrideReset(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.ClearOverrides(cmd.Context(), args[0]); err != nil {
		return err
	}
	result, err := planner.NewService(s, engine, logger).Project(cmd.Context(), args[0])
	if err != nil {
		return explain(err)
	}
	return emit(cmd, result)
}
