package output

import (
	"fmt"
	"strconv"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount with thousands separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return money.Format(amount) }

func intToString(v int) string { return strconv.Itoa(v) }

func boolToString(v bool) string { return strconv.FormatBool(v) }

func debtFreeLabel(s domain.Summary) string {
	if !s.IsDebtFree() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", s.DebtFreeYear, s.DebtFreeMonth)
}
