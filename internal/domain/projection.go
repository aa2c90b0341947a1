package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlyRecord is one simulated month of the projection
type MonthlyRecord struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Age   int `json:"age"`

	Income decimal.Decimal `json:"income"`
	Bonus  decimal.Decimal `json:"bonus"`

	LoanInterestPaid  decimal.Decimal `json:"loan_interest_paid"`
	LoanPrincipalPaid decimal.Decimal `json:"loan_principal_paid"`
	TotalLoanPayment  decimal.Decimal `json:"total_loan_payment"`

	MonthlyConsumption     decimal.Decimal `json:"monthly_consumption"`
	CumulativeSavings      decimal.Decimal `json:"cumulative_savings"`
	RealEstateValue        decimal.Decimal `json:"real_estate_value"`
	TotalAssets            decimal.Decimal `json:"total_assets"`
	RemainingLoanPrincipal decimal.Decimal `json:"remaining_loan_principal"`
	DisposableIncome       decimal.Decimal `json:"disposable_income"`

	IsOverridden bool `json:"is_overridden"`
}

// MonthIndex returns year*12+month
func (r *MonthlyRecord) MonthIndex() int {
	return r.Year*12 + r.Month
}

// ProjectedLoanState is the per-loan detail for one month
type ProjectedLoanState struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	LoanID             string          `json:"loan_id"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
}

// Summary condenses a projection into its end state
type Summary struct {
	RetirementYear       int             `json:"retirement_year"`
	MonthsProjected      int             `json:"months_projected"`
	FinalSavings         decimal.Decimal `json:"final_savings"`
	FinalRealEstateValue decimal.Decimal `json:"final_real_estate_value"`
	FinalTotalAssets     decimal.Decimal `json:"final_total_assets"`
	FinalLiabilities     decimal.Decimal `json:"final_liabilities"`
	TotalInterestPaid    decimal.Decimal `json:"total_interest_paid"`
	TotalPrincipalPaid   decimal.Decimal `json:"total_principal_paid"`

	// First month in which every loan is repaid; zero when debt remains at the end.
	DebtFreeYear  int `json:"debt_free_year,omitempty"`
	DebtFreeMonth int `json:"debt_free_month,omitempty"`
}

// IsDebtFree reports whether all loans are repaid within the horizon.
func (s *Summary) IsDebtFree() bool {
	return s.DebtFreeYear != 0
}

// ProjectionResult is everything a single engine run produces
type ProjectionResult struct {
	ProfileID           string               `json:"profile_id,omitempty"`
	Projection          []MonthlyRecord      `json:"projection"`
	ProjectedLoanStates []ProjectedLoanState `json:"projected_loan_states,omitempty"`
	Summary             Summary              `json:"summary"`
}

// LoanIDs returns the IDs that appear in the per-loan detail, sorted.
func (pr *ProjectionResult) LoanIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range pr.ProjectedLoanStates {
		if !seen[s.LoanID] {
			seen[s.LoanID] = true
			ids = append(ids, s.LoanID)
		}
	}
	sort.Strings(ids)
	return ids
}

// LoanStatesFor returns the monthly detail for one loan in chronological order.
func (pr *ProjectionResult) LoanStatesFor(loanID string) []ProjectedLoanState {
	var out []ProjectedLoanState
	for _, s := range pr.ProjectedLoanStates {
		if s.LoanID == loanID {
			out = append(out, s)
		}
	}
	return out
}

// YearSummary rolls up one calendar year of the projection
type YearSummary struct {
	Year               int             `json:"year"`
	Age                int             `json:"age"`
	Months             int             `json:"months"`
	Income             decimal.Decimal `json:"income"`
	Bonus              decimal.Decimal `json:"bonus"`
	LoanPayment        decimal.Decimal `json:"loan_payment"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	Consumption        decimal.Decimal `json:"consumption"`
	DisposableIncome   decimal.Decimal `json:"disposable_income"`
	EndSavings         decimal.Decimal `json:"end_savings"`
	EndRealEstateValue decimal.Decimal `json:"end_real_estate_value"`
	EndLiabilities     decimal.Decimal `json:"end_liabilities"`
	EndTotalAssets     decimal.Decimal `json:"end_total_assets"`
	HasOverrides       bool            `json:"has_overrides"`
}
