package output

import (
	"bytes"
	"encoding/csv"

	"github.com/nuhgnoej/rofle/internal/domain"
)

// CSVSummarizer implements the one-row summary CSV output.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.ProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"ProfileID", "RetirementYear", "MonthsProjected", "FinalSavings", "FinalRealEstateValue", "FinalLiabilities", "FinalTotalAssets", "TotalInterestPaid", "TotalPrincipalPaid", "DebtFree"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	s := result.Summary
	row := []string{
		result.ProfileID,
		intToString(s.RetirementYear),
		intToString(s.MonthsProjected),
		s.FinalSavings.StringFixed(2),
		s.FinalRealEstateValue.StringFixed(2),
		s.FinalLiabilities.StringFixed(2),
		s.FinalTotalAssets.StringFixed(2),
		s.TotalInterestPaid.StringFixed(2),
		s.TotalPrincipalPaid.StringFixed(2),
		debtFreeLabel(s),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
