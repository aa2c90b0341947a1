package calculation

import (
	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/pkg/dateutil"
	"github.com/nuhgnoej/rofle/pkg/money"
	"github.com/shopspring/decimal"
)

// RealEstateAppreciationRate is the yearly growth applied to every property.
var RealEstateAppreciationRate = decimal.NewFromFloat(0.02)

// ProjectionEngine runs month-by-month projections. It keeps no state between
// runs, so one engine can serve concurrent callers.
type ProjectionEngine struct {
	UnknownMethodPolicy UnknownMethodPolicy
	NetWorthPolicy      NetWorthPolicy
	Debug               bool // log every simulated year
	Logger              Logger
}

// NewProjectionEngine creates an engine with the default policies
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		UnknownMethodPolicy: UnknownMethodSkip,
		NetWorthPolicy:      NetWorthNet,
		Logger:              NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	pe.Logger = orNop(l)
}

// run holds the working state of a single projection.
type run struct {
	profile *domain.Profile
	income  *IncomeProjector
	loans   *LoanScheduler
	estate  []decimal.Decimal

	savings    decimal.Decimal
	monthIndex int

	records    []domain.MonthlyRecord
	loanStates []domain.ProjectedLoanState
}

// RunProjection projects the profile from the current month through December
// of the retirement year. The profile is never modified. Any error aborts the
// whole run and no partial result is returned.
func (pe *ProjectionEngine) RunProjection(profile *domain.Profile) (*domain.ProjectionResult, error) {
	logger := orNop(pe.Logger)

	if err := validateMandatory(profile); err != nil {
		return nil, err
	}

	start := currentMonth()
	retirementYear := profile.RetirementYear()
	end := dateutil.YearMonth{Year: retirementYear, Month: 12}
	if end.Before(start) {
		return nil, configError("retirement_age", "puts retirement in %d, before the projection start %s", retirementYear, start)
	}

	loans, err := NewLoanScheduler(profile.Loans, pe.UnknownMethodPolicy, logger)
	if err != nil {
		return nil, err
	}

	r := &run{
		profile: profile,
		income:  NewIncomeProjector(profile, start.Year, logger),
		loans:   loans,
		estate:  make([]decimal.Decimal, len(profile.RealEstateAssets)),
		records: make([]domain.MonthlyRecord, 0, dateutil.MonthsInclusive(start, end)),
	}
	for i, a := range profile.RealEstateAssets {
		r.estate[i] = a.CurrentValue
	}

	logger.Infof("projecting %s to %s (%d months, %d loans, prepayment order %v)",
		start, end, dateutil.MonthsInclusive(start, end), len(profile.Loans), loans.PriorityOrder())

	growth := one.Add(RealEstateAppreciationRate)
	for year := start.Year; year <= retirementYear; year++ {
		r.income.BeginYear(year)
		for i := range r.estate {
			r.estate[i] = r.estate[i].Mul(growth)
		}

		for month := 1; month <= 12; month++ {
			if year == start.Year && month < start.Month {
				continue
			}
			if err := pe.projectMonth(r, year, month); err != nil {
				logger.Errorf("projection stopped at %04d-%02d: %v", year, month, err)
				return nil, err
			}
		}

		if pe.Debug {
			last := r.records[len(r.records)-1]
			logger.Debugf("%d age=%d savings=%s liabilities=%s assets=%s",
				year, last.Age, last.CumulativeSavings.StringFixed(2),
				last.RemainingLoanPrincipal.StringFixed(2), last.TotalAssets.StringFixed(2))
		}
	}

	result := &domain.ProjectionResult{
		ProfileID:           profile.ID,
		Projection:          r.records,
		ProjectedLoanStates: r.loanStates,
		Summary:             Summarize(r.records, retirementYear),
	}
	logger.Infof("projection complete: %d months, final assets %s",
		result.Summary.MonthsProjected, result.Summary.FinalTotalAssets.StringFixed(2))
	return result, nil
}

func validateMandatory(p *domain.Profile) error {
	if p == nil {
		return configError("profile", "is missing")
	}
	if p.BirthDate.IsZero() {
		return configError("birth_date", "is required")
	}
	if p.RetirementAge <= 0 {
		return configError("retirement_age", "is required")
	}
	if p.MonthlySavings.IsNegative() {
		return configError("monthly_savings", "cannot be negative")
	}
	return nil
}

func (pe *ProjectionEngine) projectMonth(r *run, year, month int) error {
	r.monthIndex++
	p := r.profile

	income, bonus := r.income.ForMonth(year, month)

	service, err := r.loans.Step(year, month, r.monthIndex, p.MonthlyRepayment)
	if err != nil {
		return err
	}

	override, overridden := p.FindOverride(year, month)
	if overridden && override.Income != nil {
		income = *override.Income
		bonus = decimal.Zero
	}

	loanPayment := service.TotalPayment()
	afterFixed := income.Add(bonus).Sub(loanPayment).Sub(p.MonthlyInsurance)

	consumption := p.MonthlyConsumptionValue
	if p.ConsumptionType == domain.ConsumptionPercentage {
		consumption = afterFixed.Mul(money.Percent(p.MonthlyConsumptionValue))
	}
	if overridden && override.MonthlyConsumption != nil {
		consumption = *override.MonthlyConsumption
	}

	r.savings = r.savings.Add(p.MonthlySavings)
	realEstate := money.Sum(r.estate...)

	rec := domain.MonthlyRecord{
		Year:                   year,
		Month:                  month,
		Age:                    dateutil.CalendarAge(p.BirthDate, year),
		Income:                 income,
		Bonus:                  bonus,
		LoanInterestPaid:       service.TotalInterest,
		LoanPrincipalPaid:      service.TotalPrincipal,
		TotalLoanPayment:       loanPayment,
		MonthlyConsumption:     consumption,
		CumulativeSavings:      r.savings,
		RealEstateValue:        realEstate,
		TotalAssets:            pe.totalAssets(r.savings, realEstate, service.Remaining),
		RemainingLoanPrincipal: service.Remaining,
		DisposableIncome:       afterFixed.Sub(p.MonthlySavings).Sub(consumption),
		IsOverridden:           overridden,
	}
	r.records = append(r.records, rec)

	for _, lp := range service.Payments {
		r.loanStates = append(r.loanStates, domain.ProjectedLoanState{
			Year:               year,
			Month:              month,
			LoanID:             lp.LoanID,
			PrincipalPaid:      lp.PrincipalPaid(),
			InterestPaid:       lp.Interest,
			RemainingPrincipal: lp.Remaining,
		})
	}
	return nil
}

func (pe *ProjectionEngine) totalAssets(savings, realEstate, liabilities decimal.Decimal) decimal.Decimal {
	total := savings.Add(realEstate)
	if pe.NetWorthPolicy == NetWorthGross {
		return total
	}
	return total.Sub(liabilities)
}

// Summarize derives the end-of-horizon summary from a projection series.
func Summarize(records []domain.MonthlyRecord, retirementYear int) domain.Summary {
	s := domain.Summary{RetirementYear: retirementYear, MonthsProjected: len(records)}
	if len(records) == 0 {
		return s
	}

	for _, rec := range records {
		s.TotalInterestPaid = s.TotalInterestPaid.Add(rec.LoanInterestPaid)
		s.TotalPrincipalPaid = s.TotalPrincipalPaid.Add(rec.LoanPrincipalPaid)
		if s.DebtFreeYear == 0 && rec.RemainingLoanPrincipal.IsZero() {
			s.DebtFreeYear, s.DebtFreeMonth = rec.Year, rec.Month
		}
	}

	last := records[len(records)-1]
	s.FinalSavings = last.CumulativeSavings
	s.FinalRealEstateValue = last.RealEstateValue
	s.FinalTotalAssets = last.TotalAssets
	s.FinalLiabilities = last.RemainingLoanPrincipal
	return s
}
