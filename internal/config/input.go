package config

import (
	"fmt"
	"os"
	"time"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of profile files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a profile from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a profile document
func (ip *InputParser) Parse(data []byte) (*domain.Profile, error) {
	var profile domain.Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if profile.ConsumptionType == "" {
		profile.ConsumptionType = domain.ConsumptionAmount
	}

	if err := ip.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}

	return &profile, nil
}

// ValidateProfile checks a profile for values the engine cannot work with.
// It is stricter than the engine: the engine only insists on the fields it
// cannot default.
func (ip *InputParser) ValidateProfile(p *domain.Profile) error {
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birth date is required")
	}
	if p.RetirementAge <= 0 || p.RetirementAge > 100 {
		return fmt.Errorf("retirement age must be between 1 and 100")
	}
	if p.PeakWagePeriod < 0 || p.PeakWagePeriod >= p.RetirementAge {
		return fmt.Errorf("peak wage period must be between 0 and the retirement age")
	}
	if p.PeakWageReductionRate.LessThan(decimal.Zero) || p.PeakWageReductionRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("peak wage reduction rate must be between 0 and 100")
	}
	if p.SalaryInflationRate.LessThan(decimal.NewFromInt(-100)) {
		return fmt.Errorf("salary inflation rate cannot be less than -100%%")
	}

	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"monthly repayment", p.MonthlyRepayment},
		{"monthly insurance", p.MonthlyInsurance},
		{"monthly savings", p.MonthlySavings},
		{"consumption amount", p.MonthlyConsumptionValue},
	} {
		if f.value.IsNegative() {
			return fmt.Errorf("%s cannot be negative", f.name)
		}
	}

	switch p.ConsumptionType {
	case domain.ConsumptionAmount:
	case domain.ConsumptionPercentage:
		if p.MonthlyConsumptionValue.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("consumption percentage cannot exceed 100")
		}
	default:
		return fmt.Errorf("consumption type must be %q or %q", domain.ConsumptionAmount, domain.ConsumptionPercentage)
	}

	seenMonths := make(map[int]bool, 12)
	for _, inc := range p.MonthlyIncomes {
		if !dateutil.IsValidMonth(inc.Month) {
			return fmt.Errorf("monthly income month %d is out of range", inc.Month)
		}
		if seenMonths[inc.Month] {
			return fmt.Errorf("monthly income for month %d is listed twice", inc.Month)
		}
		seenMonths[inc.Month] = true
		if inc.Income.IsNegative() || inc.Bonus.IsNegative() {
			return fmt.Errorf("monthly income for month %d cannot be negative", inc.Month)
		}
	}

	for i := range p.Loans {
		if err := ip.validateLoan(&p.Loans[i]); err != nil {
			return fmt.Errorf("loan %d validation failed: %w", i, err)
		}
	}

	for i, a := range p.RealEstateAssets {
		if a.CurrentValue.IsNegative() {
			return fmt.Errorf("real estate asset %d value cannot be negative", i)
		}
	}

	for _, o := range p.Overrides {
		if !dateutil.IsValidMonth(o.Month) {
			return fmt.Errorf("override %04d-%02d has an invalid month", o.Year, o.Month)
		}
		if o.Income != nil && o.Income.IsNegative() {
			return fmt.Errorf("override %04d-%02d income cannot be negative", o.Year, o.Month)
		}
		if o.MonthlyConsumption != nil && o.MonthlyConsumption.IsNegative() {
			return fmt.Errorf("override %04d-%02d consumption cannot be negative", o.Year, o.Month)
		}
	}

	return nil
}

// validateLoan validates a single loan
func (ip *InputParser) validateLoan(l *domain.Loan) error {
	if l.Principal.IsNegative() {
		return fmt.Errorf("principal cannot be negative")
	}
	if l.InterestRate.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative")
	}
	if l.TermMonths <= 0 {
		return fmt.Errorf("term must be positive")
	}
	if l.GracePeriodMonths < 0 || l.GracePeriodMonths > l.TermMonths {
		return fmt.Errorf("grace period must be between 0 and the term")
	}
	return nil
}

// CreateExampleProfile creates an example profile
func (ip *InputParser) CreateExampleProfile() *domain.Profile {
	birthDate, _ := time.Parse("2006-01-02", "1985-04-12")

	monthly := domain.FlatIncomeTemplate(decimal.NewFromInt(4200), decimal.Zero)
	monthly[5].Bonus = decimal.NewFromInt(2000)  // June
	monthly[11].Bonus = decimal.NewFromInt(4200) // December

	return &domain.Profile{
		Name:                  "Example household",
		BirthDate:             birthDate,
		RetirementAge:         60,
		SalaryInflationRate:   decimal.NewFromFloat(2.5),
		PeakWagePeriod:        5,
		PeakWageReductionRate: decimal.NewFromInt(20),
		MonthlyIncomes:        monthly,
		Loans: []domain.Loan{
			{
				ID:              "mortgage",
				Name:            "Mortgage",
				Type:            "mortgage",
				Principal:       decimal.NewFromInt(240000),
				InterestRate:    decimal.NewFromFloat(3.8),
				TermMonths:      360,
				RepaymentMethod: domain.EqualPayment,
			},
			{
				ID:                "car",
				Name:              "Car loan",
				Type:              "auto",
				Principal:         decimal.NewFromInt(18000),
				InterestRate:      decimal.NewFromFloat(6.9),
				TermMonths:        60,
				GracePeriodMonths: 6,
				RepaymentMethod:   domain.EqualPrincipal,
			},
		},
		RealEstateAssets: []domain.RealEstateAsset{
			{Name: "Home", CurrentValue: decimal.NewFromInt(320000)},
		},
		MonthlyRepayment:        decimal.NewFromInt(1900),
		MonthlyInsurance:        decimal.NewFromInt(250),
		MonthlySavings:          decimal.NewFromInt(600),
		ConsumptionType:         domain.ConsumptionPercentage,
		MonthlyConsumptionValue: decimal.NewFromInt(60),
	}
}
