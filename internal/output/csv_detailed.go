package output

import (
	"bytes"
	"encoding/csv"

	"github.com/nuhgnoej/rofle/internal/domain"
)

// CSVMonthlyExporter writes one row per projected month.
type CSVMonthlyExporter struct{}

func (c CSVMonthlyExporter) Name() string      { return "monthly-csv" }
func (c CSVMonthlyExporter) Extension() string { return "csv" }

func (c CSVMonthlyExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Month", "Age", "Income", "Bonus", "LoanInterestPaid", "LoanPrincipalPaid", "TotalLoanPayment", "MonthlyConsumption", "DisposableIncome", "CumulativeSavings", "RealEstateValue", "RemainingLoanPrincipal", "TotalAssets", "IsOverridden"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range result.Projection {
		row := []string{
			intToString(r.Year),
			intToString(r.Month),
			intToString(r.Age),
			r.Income.StringFixed(2),
			r.Bonus.StringFixed(2),
			r.LoanInterestPaid.StringFixed(2),
			r.LoanPrincipalPaid.StringFixed(2),
			r.TotalLoanPayment.StringFixed(2),
			r.MonthlyConsumption.StringFixed(2),
			r.DisposableIncome.StringFixed(2),
			r.CumulativeSavings.StringFixed(2),
			r.RealEstateValue.StringFixed(2),
			r.RemainingLoanPrincipal.StringFixed(2),
			r.TotalAssets.StringFixed(2),
			boolToString(r.IsOverridden),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
