package output

import (
	"bytes"
	"fmt"

	"github.com/nuhgnoej/rofle/internal/calculation"
	"github.com/nuhgnoej/rofle/internal/domain"
)

// ConsoleFormatter renders the summary and a year-by-year table for the terminal.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	var buf bytes.Buffer
	s := result.Summary

	fmt.Fprintln(&buf, RenderTitle("NET WORTH PROJECTION"))
	fmt.Fprintln(&buf)

	debtFree := badStyle.Render("not before retirement")
	if s.IsDebtFree() {
		debtFree = goodStyle.Render(debtFreeLabel(s))
	}
	fmt.Fprint(&buf, RenderKV([][2]string{
		{"Retirement year", intToString(s.RetirementYear)},
		{"Months projected", intToString(s.MonthsProjected)},
		{"Final savings", FormatCurrency(s.FinalSavings)},
		{"Final real estate", FormatCurrency(s.FinalRealEstateValue)},
		{"Final liabilities", FormatCurrency(s.FinalLiabilities)},
		{"Final total assets", FormatCurrency(s.FinalTotalAssets)},
		{"Total interest paid", FormatCurrency(s.TotalInterestPaid)},
		{"Total principal paid", FormatCurrency(s.TotalPrincipalPaid)},
		{"Debt free", debtFree},
	}))
	fmt.Fprintln(&buf)

	years := calculation.AggregateByYear(result.Projection)
	if len(years) == 0 {
		return buf.Bytes(), nil
	}

	rows := make([][]string, 0, len(years))
	overridden := false
	for _, y := range years {
		label := intToString(y.Year)
		if y.HasOverrides {
			label += "*"
			overridden = true
		}
		rows = append(rows, []string{
			label,
			intToString(y.Age),
			FormatCurrency(y.Income.Add(y.Bonus)),
			FormatCurrency(y.LoanPayment),
			FormatCurrency(y.InterestPaid),
			FormatCurrency(y.Consumption),
			FormatCurrency(y.DisposableIncome),
			FormatCurrency(y.EndSavings),
			FormatCurrency(y.EndRealEstateValue),
			FormatCurrency(y.EndLiabilities),
			FormatCurrency(y.EndTotalAssets),
		})
	}

	fmt.Fprint(&buf, RenderTable(Table{
		Title:   "Year by year",
		Headers: []string{"Year", "Age", "Income", "Loans", "Interest", "Consumption", "Disposable", "Savings", "Real estate", "Liabilities", "Total assets"},
		Rows:    rows,
	}))
	if overridden {
		fmt.Fprintln(&buf, mutedStyle.Render("  * year contains overridden months"))
	}
	return buf.Bytes(), nil
}
