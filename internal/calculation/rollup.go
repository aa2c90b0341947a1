package calculation

import (
	"github.com/nuhgnoej/rofle/internal/domain"
)

// AggregateByYear rolls a monthly series up into calendar years. Flows are
// summed; balances are taken from the last month of each year.
func AggregateByYear(records []domain.MonthlyRecord) []domain.YearSummary {
	var years []domain.YearSummary
	for _, rec := range records {
		if len(years) == 0 || years[len(years)-1].Year != rec.Year {
			years = append(years, domain.YearSummary{Year: rec.Year, Age: rec.Age})
		}
		y := &years[len(years)-1]
		y.Months++
		y.Income = y.Income.Add(rec.Income)
		y.Bonus = y.Bonus.Add(rec.Bonus)
		y.LoanPayment = y.LoanPayment.Add(rec.TotalLoanPayment)
		y.InterestPaid = y.InterestPaid.Add(rec.LoanInterestPaid)
		y.Consumption = y.Consumption.Add(rec.MonthlyConsumption)
		y.DisposableIncome = y.DisposableIncome.Add(rec.DisposableIncome)
		y.EndSavings = rec.CumulativeSavings
		y.EndRealEstateValue = rec.RealEstateValue
		y.EndLiabilities = rec.RemainingLoanPrincipal
		y.EndTotalAssets = rec.TotalAssets
		y.HasOverrides = y.HasOverrides || rec.IsOverridden
	}
	return years
}
