package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ConsumptionType selects how monthly consumption is derived
type ConsumptionType string

const (
	// ConsumptionAmount spends a fixed amount every month.
	ConsumptionAmount ConsumptionType = "AMOUNT"
	// ConsumptionPercentage spends a share of what is left after loans and insurance.
	ConsumptionPercentage ConsumptionType = "PERCENTAGE"
)

// RepaymentMethod is the amortization convention of a loan
type RepaymentMethod string

const (
	EqualPayment   RepaymentMethod = "equal_payment"
	EqualPrincipal RepaymentMethod = "equal_principal"
	Bullet         RepaymentMethod = "bullet"
	InterestOnly   RepaymentMethod = "interest_only"
)

var repaymentAliases = map[string]RepaymentMethod{
	"equal_payment":   EqualPayment,
	"annuity":         EqualPayment,
	"equal_principal": EqualPrincipal,
	"bullet":          Bullet,
	"balloon":         Bullet,
	"interest_only":   InterestOnly,
	"none":            InterestOnly,
}

// ParseRepaymentMethod resolves a user supplied method name (case and
// separator insensitive). ok is false for empty or unknown names.
func ParseRepaymentMethod(s string) (RepaymentMethod, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	m, ok := repaymentAliases[key]
	return m, ok
}

// Known reports whether the method is one the scheduler can amortize.
func (m RepaymentMethod) Known() bool {
	_, ok := ParseRepaymentMethod(string(m))
	return ok
}

// Profile is the planning snapshot a projection runs on. The engine only
// reads it; all working state is copied out at the start of a run.
type Profile struct {
	ID        string    `yaml:"id,omitempty" json:"id,omitempty"`
	Name      string    `yaml:"name,omitempty" json:"name,omitempty"`
	BirthDate time.Time `yaml:"birth_date" json:"birth_date"`

	RetirementAge         int             `yaml:"retirement_age" json:"retirement_age"`
	SalaryInflationRate   decimal.Decimal `yaml:"salary_inflation_rate" json:"salary_inflation_rate"`       // percent per year
	PeakWagePeriod        int             `yaml:"peak_wage_period" json:"peak_wage_period"`                 // years before retirement
	PeakWageReductionRate decimal.Decimal `yaml:"peak_wage_reduction_rate" json:"peak_wage_reduction_rate"` // percent

	MonthlyIncomes   []MonthlyIncome   `yaml:"monthly_incomes" json:"monthly_incomes"`
	Loans            []Loan            `yaml:"loans,omitempty" json:"loans,omitempty"`
	RealEstateAssets []RealEstateAsset `yaml:"real_estate_assets,omitempty" json:"real_estate_assets,omitempty"`

	MonthlyRepayment        decimal.Decimal `yaml:"monthly_repayment" json:"monthly_repayment"`
	MonthlyInsurance        decimal.Decimal `yaml:"monthly_insurance" json:"monthly_insurance"`
	MonthlySavings          decimal.Decimal `yaml:"monthly_savings" json:"monthly_savings"`
	ConsumptionType         ConsumptionType `yaml:"consumption_type" json:"consumption_type"`
	MonthlyConsumptionValue decimal.Decimal `yaml:"monthly_consumption_value" json:"monthly_consumption_value"`

	Overrides []Override `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// MonthlyIncome is one entry of the 12-month income template
type MonthlyIncome struct {
	Month  int             `yaml:"month" json:"month"`
	Income decimal.Decimal `yaml:"income" json:"income"`
	Bonus  decimal.Decimal `yaml:"bonus" json:"bonus"`
}

// Loan describes a liability as entered by the user
type Loan struct {
	ID                string          `yaml:"id,omitempty" json:"id,omitempty"`
	Name              string          `yaml:"name,omitempty" json:"name,omitempty"`
	Type              string          `yaml:"type,omitempty" json:"type,omitempty"`
	Principal         decimal.Decimal `yaml:"principal" json:"principal"`
	InterestRate      decimal.Decimal `yaml:"interest_rate" json:"interest_rate"` // annual percent
	TermMonths        int             `yaml:"term_months" json:"term_months"`
	GracePeriodMonths int             `yaml:"grace_period_months" json:"grace_period_months"`
	RepaymentMethod   RepaymentMethod `yaml:"repayment_method" json:"repayment_method"`
}

// UnmarshalYAML accepts term_years / grace_period_years as a convenience.
// Month fields win when both are present.
func (l *Loan) UnmarshalYAML(value *yaml.Node) error {
	type plain Loan
	aux := struct {
		plain            `yaml:",inline"`
		TermYears        int `yaml:"term_years"`
		GracePeriodYears int `yaml:"grace_period_years"`
	}{}
	if err := value.Decode(&aux); err != nil {
		return err
	}

	*l = Loan(aux.plain)
	if l.TermMonths == 0 && aux.TermYears > 0 {
		l.TermMonths = aux.TermYears * 12
	}
	if l.GracePeriodMonths == 0 && aux.GracePeriodYears > 0 {
		l.GracePeriodMonths = aux.GracePeriodYears * 12
	}
	if m, ok := ParseRepaymentMethod(string(l.RepaymentMethod)); ok {
		l.RepaymentMethod = m
	}
	return nil
}

// RealEstateAsset is a property counted toward net worth
type RealEstateAsset struct {
	Name         string          `yaml:"name" json:"name"`
	CurrentValue decimal.Decimal `yaml:"current_value" json:"current_value"`
}

// Override replaces computed values for a single month. Nil fields are left alone.
type Override struct {
	Year               int              `yaml:"year" json:"year"`
	Month              int              `yaml:"month" json:"month"`
	Income             *decimal.Decimal `yaml:"income,omitempty" json:"income,omitempty"`
	MonthlyConsumption *decimal.Decimal `yaml:"monthly_consumption,omitempty" json:"monthly_consumption,omitempty"`
}

// Override field names, as used by override edits.
const (
	OverrideIncome      = "income"
	OverrideConsumption = "monthly_consumption"
)

// ErrUnknownOverrideField is returned for a field that cannot be overridden.
var ErrUnknownOverrideField = errors.New("unknown override field")

// SetField sets (or with a nil value clears) one overridable field.
func (o *Override) SetField(field string, value *decimal.Decimal) error {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case OverrideIncome:
		o.Income = value
	case OverrideConsumption, "consumption":
		o.MonthlyConsumption = value
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownOverrideField, field, OverrideIncome, OverrideConsumption)
	}
	return nil
}

// MarshalYAML writes only the fields that are set. A zero amount is still an
// override and must survive a round trip.
func (o Override) MarshalYAML() (any, error) {
	out := struct {
		Year               int     `yaml:"year"`
		Month              int     `yaml:"month"`
		Income             *string `yaml:"income,omitempty"`
		MonthlyConsumption *string `yaml:"monthly_consumption,omitempty"`
	}{Year: o.Year, Month: o.Month}
	if o.Income != nil {
		v := o.Income.String()
		out.Income = &v
	}
	if o.MonthlyConsumption != nil {
		v := o.MonthlyConsumption.String()
		out.MonthlyConsumption = &v
	}
	return out, nil
}

// IsEmpty reports whether the override replaces nothing.
func (o Override) IsEmpty() bool {
	return o.Income == nil && o.MonthlyConsumption == nil
}

// RetirementYear is the calendar year in which the retirement age is reached.
func (p *Profile) RetirementYear() int {
	return p.BirthDate.Year() + p.RetirementAge
}

// IncomeForMonth returns the template entry for a calendar month. Months
// missing from the template earn nothing.
func (p *Profile) IncomeForMonth(month int) MonthlyIncome {
	for _, inc := range p.MonthlyIncomes {
		if inc.Month == month {
			return inc
		}
	}
	return MonthlyIncome{Month: month}
}

// FindOverride returns the override for (year, month), if any.
func (p *Profile) FindOverride(year, month int) (Override, bool) {
	for _, o := range p.Overrides {
		if o.Year == year && o.Month == month && !o.IsEmpty() {
			return o, true
		}
	}
	return Override{}, false
}

// SetOverride inserts or replaces the override for o's month. An empty
// override removes the entry.
func (p *Profile) SetOverride(o Override) {
	for i := range p.Overrides {
		if p.Overrides[i].Year == o.Year && p.Overrides[i].Month == o.Month {
			if o.IsEmpty() {
				p.Overrides = append(p.Overrides[:i], p.Overrides[i+1:]...)
			} else {
				p.Overrides[i] = o
			}
			return
		}
	}
	if !o.IsEmpty() {
		p.Overrides = append(p.Overrides, o)
	}
}

// FlatIncomeTemplate builds a 12-month template with the same income and bonus every month.
func FlatIncomeTemplate(income, bonus decimal.Decimal) []MonthlyIncome {
	out := make([]MonthlyIncome, 12)
	for i := range out {
		out[i] = MonthlyIncome{Month: i + 1, Income: income, Bonus: bonus}
	}
	return out
}
