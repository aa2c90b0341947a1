package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuhgnoej/rofle/internal/calculation"
	"github.com/nuhgnoej/rofle/internal/config"
	"github.com/nuhgnoej/rofle/internal/domain"
)

const shortRepaymentProfile = `
name: Short on repayment
birth_date: 1966-06-01
retirement_age: 60
monthly_incomes:
  - {month: 1, income: 300, bonus: 0}
loans:
  - id: car
    principal: 3000
    interest_rate: 5
    term_months: 120
    repayment_method: equal_payment
monthly_repayment: 5
monthly_savings: 10
monthly_consumption_value: 50
`

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	calculation.SetNowFunc(func() time.Time { return time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC) })
	t.Cleanup(func() { calculation.SetNowFunc(nil) })
	return &cli{t: t, dir: t.TempDir()}
}

func (c *cli) path(name string) string {
	return filepath.Join(c.dir, name)
}

// run executes the root command with fresh flag state.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	flagProfileID, flagSave, flagImportID = "", false, ""
	flagFormat, flagOutputDir, flagLogLevel, flagDebug = "", "", "", false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", c.path("settings.toml"), "--db", c.path("projector.db")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) projection(args ...string) *domain.ProjectionResult {
	c.t.Helper()
	out, err := c.run(append(args, "--format", "json")...)
	require.NoError(c.t, err)

	var result domain.ProjectionResult
	require.NoError(c.t, json.Unmarshal([]byte(out), &result))
	return &result
}

func TestExampleThenProjectFile(t *testing.T) {
	c := newCLI(t)
	profilePath := c.path("household.yaml")

	out, err := c.run("example", profilePath)
	require.NoError(t, err)
	assert.Contains(t, out, profilePath)

	_, err = config.NewInputParser().LoadFromFile(profilePath)
	require.NoError(t, err)

	result := c.projection("project", profilePath)
	assert.Len(t, result.Projection, 240)
	assert.Equal(t, 2045, result.Summary.RetirementYear)
	first := result.Projection[0]
	assert.Equal(t, 2026, first.Year)
	assert.Equal(t, 1, first.Month)
}

func TestProjectConsoleOutput(t *testing.T) {
	c := newCLI(t)
	profilePath := c.path("household.yaml")
	_, err := c.run("example", profilePath)
	require.NoError(t, err)

	out, err := c.run("project", profilePath)
	require.NoError(t, err)
	assert.Contains(t, out, "NET WORTH PROJECTION")
	assert.Contains(t, out, "2045")
}

func TestProjectSaveWritesFiles(t *testing.T) {
	c := newCLI(t)
	profilePath := c.path("household.yaml")
	_, err := c.run("example", profilePath)
	require.NoError(t, err)

	reports := c.path("reports")
	require.NoError(t, os.MkdirAll(reports, 0o755))
	_, err = c.run("project", profilePath, "--save", "--format", "csv", "--output-dir", reports)
	require.NoError(t, err)

	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".csv", filepath.Ext(entries[0].Name()))
}

func TestProjectArguments(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("project")
	assert.Error(t, err)

	_, err = c.run("project", c.path("missing.yaml"))
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("example", c.path("household.yaml"), "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, statErr := os.Stat(c.path("household.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProjectInsufficientFundsHint(t *testing.T) {
	c := newCLI(t)
	profilePath := c.path("short.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte(shortRepaymentProfile), 0o644))

	_, err := c.run("project", profilePath)
	require.Error(t, err)
	var insufficient *calculation.InsufficientFundsError
	assert.ErrorAs(t, err, &insufficient)
	assert.Contains(t, err.Error(), "raise monthly_repayment by at least 26.82")
}

func TestStoredProfileLifecycle(t *testing.T) {
	c := newCLI(t)
	profilePath := c.path("household.yaml")
	_, err := c.run("example", profilePath)
	require.NoError(t, err)

	out, err := c.run("profile", "import", profilePath, "--id", "household")
	require.NoError(t, err)
	assert.Equal(t, "household\n", out)

	out, err = c.run("profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "household")
	assert.Contains(t, out, "Example household")

	_, err = c.run("profile", "show", "household")
	assert.Error(t, err, "nothing projected yet")

	projected := c.projection("project", "--id", "household")
	assert.Len(t, projected.Projection, 240)

	shown := c.projection("profile", "show", "household")
	assert.Equal(t, projected.Summary.FinalTotalAssets.String(), shown.Summary.FinalTotalAssets.String())

	edited := c.projection("override", "set", "household", "2026", "3", "income", "0")
	march := edited.Projection[2]
	assert.True(t, march.IsOverridden)
	assert.True(t, march.Income.IsZero())
	assert.True(t, edited.Summary.FinalSavings.Equal(projected.Summary.FinalSavings))

	cleared := c.projection("override", "clear", "household", "2026", "3")
	assert.False(t, cleared.Projection[2].IsOverridden)
	assert.True(t, cleared.Projection[2].Income.Equal(projected.Projection[2].Income))

	c.projection("override", "set", "household", "2027", "5", "consumption", "0")
	reset := c.projection("override", "reset", "household")
	for _, r := range reset.Projection {
		assert.False(t, r.IsOverridden, "%d-%02d", r.Year, r.Month)
	}

	_, err = c.run("override", "set", "household", "2026", "3", "rent", "10")
	assert.Error(t, err)
	_, err = c.run("override", "set", "household", "2026", "3", "income", "-1")
	assert.Error(t, err)

	_, err = c.run("profile", "delete", "household")
	require.NoError(t, err)
	_, err = c.run("project", "--id", "household")
	assert.Error(t, err)
}
