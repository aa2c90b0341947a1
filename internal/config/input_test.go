package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = `name: "Test household"
birth_date: 1980-02-29
retirement_age: 62
salary_inflation_rate: 3
peak_wage_period: 4
peak_wage_reduction_rate: 15.5
monthly_incomes:
  - month: 1
    income: 3500
  - month: 12
    income: 3500
    bonus: 1200.50
loans:
  - id: house
    principal: 150000
    interest_rate: 3.25
    term_years: 25
    grace_period_years: 1
    repayment_method: Equal-Payment
  - principal: 5000
    interest_rate: 8
    term_months: 24
    repayment_method: bullet
real_estate_assets:
  - name: Flat
    current_value: 210000
monthly_repayment: 1200
monthly_insurance: 120
monthly_savings: 400
consumption_type: PERCENTAGE
monthly_consumption_value: 40
overrides:
  - year: 2027
    month: 6
    income: 0
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	parser := NewInputParser()
	profile, err := parser.LoadFromFile(writeTemp(t, testProfile))
	require.NoError(t, err)

	assert.Equal(t, "Test household", profile.Name)
	assert.Equal(t, time.Date(1980, time.February, 29, 0, 0, 0, 0, time.UTC), profile.BirthDate)
	assert.Equal(t, 62, profile.RetirementAge)
	assert.True(t, decimal.NewFromFloat(15.5).Equal(profile.PeakWageReductionRate))
	assert.Equal(t, domain.ConsumptionPercentage, profile.ConsumptionType)

	require.Len(t, profile.MonthlyIncomes, 2)
	assert.True(t, decimal.NewFromFloat(1200.5).Equal(profile.MonthlyIncomes[1].Bonus))

	require.Len(t, profile.Loans, 2)
	house := profile.Loans[0]
	assert.Equal(t, 300, house.TermMonths)
	assert.Equal(t, 12, house.GracePeriodMonths)
	assert.Equal(t, domain.EqualPayment, house.RepaymentMethod)
	assert.Empty(t, profile.Loans[1].ID)
	assert.Equal(t, domain.Bullet, profile.Loans[1].RepaymentMethod)

	require.Len(t, profile.Overrides, 1)
	require.NotNil(t, profile.Overrides[0].Income)
	assert.True(t, profile.Overrides[0].Income.IsZero())
	assert.Nil(t, profile.Overrides[0].MonthlyConsumption)
}

func TestLoadFromFile_DefaultsConsumptionType(t *testing.T) {
	content := "birth_date: 1990-01-01\nretirement_age: 65\n"
	profile, err := NewInputParser().LoadFromFile(writeTemp(t, content))
	require.NoError(t, err)
	assert.Equal(t, domain.ConsumptionAmount, profile.ConsumptionType)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()
	profile, err := parser.LoadFromFile("nonexistent_file.yaml")

	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	content := "birth_date: 1990-01-01\nloans:\n\t- principal: lots\n"

	profile, err := NewInputParser().LoadFromFile(writeTemp(t, content))
	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile_InvalidDecimal(t *testing.T) {
	content := "birth_date: 1990-01-01\nretirement_age: 65\nmonthly_savings: plenty\n"

	_, err := NewInputParser().LoadFromFile(writeTemp(t, content))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateProfile_Success(t *testing.T) {
	parser := NewInputParser()
	assert.NoError(t, parser.ValidateProfile(parser.CreateExampleProfile()))
}

func TestValidateProfile_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *domain.Profile)
		message string
	}{
		{"zero birth date", func(p *domain.Profile) { p.BirthDate = time.Time{} }, "birth date is required"},
		{"zero retirement age", func(p *domain.Profile) { p.RetirementAge = 0 }, "retirement age"},
		{"peak wage longer than career", func(p *domain.Profile) { p.PeakWagePeriod = 70 }, "peak wage period"},
		{"reduction above 100", func(p *domain.Profile) { p.PeakWageReductionRate = decimal.NewFromInt(120) }, "peak wage reduction rate"},
		{"negative savings", func(p *domain.Profile) { p.MonthlySavings = decimal.NewFromInt(-5) }, "monthly savings cannot be negative"},
		{"negative repayment", func(p *domain.Profile) { p.MonthlyRepayment = decimal.NewFromInt(-5) }, "monthly repayment cannot be negative"},
		{"several negative amounts", func(p *domain.Profile) {
			p.MonthlySavings = decimal.NewFromInt(-5)
			p.MonthlyInsurance = decimal.NewFromInt(-5)
			p.MonthlyRepayment = decimal.NewFromInt(-5)
		}, "monthly repayment cannot be negative"},
		{"unknown consumption type", func(p *domain.Profile) { p.ConsumptionType = "RATIO" }, "consumption type"},
		{"percentage above 100", func(p *domain.Profile) { p.MonthlyConsumptionValue = decimal.NewFromInt(101) }, "consumption percentage"},
		{"month out of range", func(p *domain.Profile) { p.MonthlyIncomes[0].Month = 13 }, "out of range"},
		{"duplicate month", func(p *domain.Profile) { p.MonthlyIncomes[1].Month = 1 }, "listed twice"},
		{"negative principal", func(p *domain.Profile) { p.Loans[0].Principal = decimal.NewFromInt(-1) }, "loan 0 validation failed"},
		{"zero term", func(p *domain.Profile) { p.Loans[1].TermMonths = 0 }, "term must be positive"},
		{"grace longer than term", func(p *domain.Profile) { p.Loans[1].GracePeriodMonths = 61 }, "grace period"},
		{"negative property", func(p *domain.Profile) { p.RealEstateAssets[0].CurrentValue = decimal.NewFromInt(-1) }, "real estate asset 0"},
		{"override month", func(p *domain.Profile) { p.Overrides = []domain.Override{{Year: 2030, Month: 0}} }, "invalid month"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewInputParser()
			p := parser.CreateExampleProfile()
			tt.mutate(p)

			err := parser.ValidateProfile(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCreateExampleProfile(t *testing.T) {
	p := NewInputParser().CreateExampleProfile()

	assert.Equal(t, 60, p.RetirementAge)
	assert.Len(t, p.MonthlyIncomes, 12)
	assert.Len(t, p.Loans, 2)
	for _, l := range p.Loans {
		assert.True(t, l.RepaymentMethod.Known(), "loan %s", l.ID)
	}
	assert.True(t, p.MonthlyIncomes[11].Bonus.IsPositive())
}
