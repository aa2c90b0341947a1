package calculation

import (
	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/pkg/dateutil"
	"github.com/nuhgnoej/rofle/pkg/money"
	"github.com/shopspring/decimal"
)

// IncomeProjector derives each simulated month's income and bonus from the
// profile's 12-month template.
//
// Before the peak-wage period the template compounds by the salary inflation
// rate once per elapsed year. From the peak-wage start age onward income is a
// frozen salary and the bonus is dropped. The frozen salary is computed exactly
// once, in the year before the period starts, from that year's escalated
// December income.
type IncomeProjector struct {
	profile   *domain.Profile
	startYear int
	growth    decimal.Decimal

	peakActive   bool
	peakStartAge int
	reduction    decimal.Decimal

	frozen    decimal.Decimal
	hasFrozen bool

	logger Logger
}

// NewIncomeProjector creates a projector for a run starting in startYear.
func NewIncomeProjector(profile *domain.Profile, startYear int, logger Logger) *IncomeProjector {
	return &IncomeProjector{
		profile:      profile,
		startYear:    startYear,
		growth:       one.Add(money.Percent(profile.SalaryInflationRate)),
		peakActive:   profile.PeakWagePeriod > 0,
		peakStartAge: profile.RetirementAge - profile.PeakWagePeriod,
		reduction:    one.Sub(money.Percent(profile.PeakWageReductionRate)),
		logger:       orNop(logger),
	}
}

// PeakWageStartAge is the age at which the step-down begins.
func (ip *IncomeProjector) PeakWageStartAge() int {
	return ip.peakStartAge
}

// InPeakWage reports whether the given calendar year falls in the peak-wage period.
func (ip *IncomeProjector) InPeakWage(year int) bool {
	return ip.peakActive && dateutil.CalendarAge(ip.profile.BirthDate, year) >= ip.peakStartAge
}

// FrozenSalary returns the peak-wage salary once it has been fixed.
func (ip *IncomeProjector) FrozenSalary() (decimal.Decimal, bool) {
	return ip.frozen, ip.hasFrozen
}

// BeginYear must be called once at the start of each simulated year, before
// any ForMonth call for that year. It detects the transition year.
func (ip *IncomeProjector) BeginYear(year int) {
	if !ip.peakActive || ip.hasFrozen {
		return
	}
	if dateutil.CalendarAge(ip.profile.BirthDate, year) == ip.peakStartAge-1 {
		ip.freeze(year)
	}
}

// ForMonth returns the nominal income and bonus for (year, month).
func (ip *IncomeProjector) ForMonth(year, month int) (income, bonus decimal.Decimal) {
	if ip.InPeakWage(year) {
		if !ip.hasFrozen {
			// The projection started inside the peak-wage period, so the
			// transition year was never simulated.
			ip.freeze(year - 1)
		}
		return ip.frozen, decimal.Zero
	}

	entry := ip.profile.IncomeForMonth(month)
	factor := ip.escalation(year)
	return entry.Income.Mul(factor), entry.Bonus.Mul(factor)
}

// escalation is the compound salary growth factor for a calendar year.
func (ip *IncomeProjector) escalation(year int) decimal.Decimal {
	elapsed := year - ip.startYear
	if elapsed <= 0 {
		return one
	}
	return ip.growth.Pow(decimal.NewFromInt(int64(elapsed)))
}

func (ip *IncomeProjector) freeze(transitionYear int) {
	december := ip.profile.IncomeForMonth(12).Income
	ip.frozen = december.Mul(ip.escalation(transitionYear)).Mul(ip.reduction)
	ip.hasFrozen = true
	ip.logger.Debugf("peak wage salary frozen at %s from %d December income %s",
		ip.frozen.StringFixed(2), transitionYear, december.StringFixed(2))
}
