package calculation

import (
	"github.com/nuhgnoej/rofle/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// MonthlyInterest returns one month of simple interest on principal at an
// annual percentage rate.
func MonthlyInterest(principal, annualRatePct decimal.Decimal) decimal.Decimal {
	if annualRatePct.IsZero() {
		return decimal.Zero
	}
	return principal.Mul(money.Percent(annualRatePct)).Div(twelve)
}

// EqualPayment returns the fixed monthly installment of an annuity loan:
//
//	P·r / (1 − (1+r)^−n),  r = annualRatePct/100/12
//
// Without interest, or for a negative term, the installment degrades to
// principal/termMonths. A zero term on that path returns ErrDivideByZero.
func EqualPayment(principal, annualRatePct decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if annualRatePct.IsZero() || termMonths <= 0 {
		if termMonths == 0 {
			return decimal.Zero, ErrDivideByZero
		}
		return principal.Div(decimal.NewFromInt(int64(termMonths))), nil
	}

	r := money.MonthlyRate(annualRatePct)
	// Multiply through by (1+r)^n to avoid a negative power:
	// P·r·g / (g − 1) with g = (1+r)^n.
	growth := one.Add(r).Pow(decimal.NewFromInt(int64(termMonths)))
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)), nil
}

// EqualPrincipalInstallment returns the fixed principal portion of an
// equal-principal loan. A non-positive term makes the whole principal due.
func EqualPrincipalInstallment(principal decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return principal
	}
	return principal.Div(decimal.NewFromInt(int64(termMonths)))
}

// BulletPrincipal returns the principal due in a given repayment month of a
// bullet loan: everything at maturity, nothing before.
func BulletPrincipal(principal decimal.Decimal, currentMonthIndex, termMonths int) decimal.Decimal {
	if currentMonthIndex == termMonths {
		return principal
	}
	return decimal.Zero
}
