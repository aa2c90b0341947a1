package output

import (
	"bytes"
	"encoding/csv"

	"github.com/nuhgnoej/rofle/internal/domain"
)

// CSVLoanExporter writes the per-loan monthly detail, grouped by loan.
type CSVLoanExporter struct{}

func (c CSVLoanExporter) Name() string      { return "loans-csv" }
func (c CSVLoanExporter) Extension() string { return "csv" }

func (c CSVLoanExporter) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"LoanID", "Year", "Month", "InterestPaid", "PrincipalPaid", "RemainingPrincipal"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, id := range result.LoanIDs() {
		for _, st := range result.LoanStatesFor(id) {
			row := []string{
				st.LoanID,
				intToString(st.Year),
				intToString(st.Month),
				st.InterestPaid.StringFixed(2),
				st.PrincipalPaid.StringFixed(2),
				st.RemainingPrincipal.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
