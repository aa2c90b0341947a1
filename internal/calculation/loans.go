package calculation

import (
	"fmt"
	"sort"

	"github.com/nuhgnoej/rofle/internal/domain"
	"github.com/nuhgnoej/rofle/pkg/money"
	"github.com/shopspring/decimal"
)

// LoanPayment is one loan's service for a single month
type LoanPayment struct {
	LoanID            string
	Interest          decimal.Decimal
	RequiredPrincipal decimal.Decimal
	ExtraPrincipal    decimal.Decimal
	Remaining         decimal.Decimal // after this month's payments
}

// PrincipalPaid is the required plus the prepaid principal
func (p LoanPayment) PrincipalPaid() decimal.Decimal {
	return p.RequiredPrincipal.Add(p.ExtraPrincipal)
}

// Required is the minimum the loan had to be paid this month
func (p LoanPayment) Required() decimal.Decimal {
	return p.Interest.Add(p.RequiredPrincipal)
}

// LoanMonth aggregates all loan service for one month
type LoanMonth struct {
	Payments       []LoanPayment
	TotalInterest  decimal.Decimal
	TotalPrincipal decimal.Decimal
	TotalRequired  decimal.Decimal
	Remaining      decimal.Decimal
}

// TotalPayment is interest plus principal actually paid.
func (m LoanMonth) TotalPayment() decimal.Decimal {
	return m.TotalInterest.Add(m.TotalPrincipal)
}

type loanState struct {
	loan        domain.Loan
	method      domain.RepaymentMethod
	known       bool
	amortTerm   int
	installment decimal.Decimal // equal-payment installment over amortTerm
	remaining   decimal.Decimal
}

// LoanScheduler owns the working copy of every loan for one run and
// allocates the monthly repayment budget across them. Loans are kept in
// prepayment priority order: highest interest rate first, input order on ties.
type LoanScheduler struct {
	loans  []*loanState
	logger Logger
}

// NewLoanScheduler copies the loans and fixes their priority order. Loans
// without an ID are named loan-1, loan-2, ... by input position.
func NewLoanScheduler(loans []domain.Loan, policy UnknownMethodPolicy, logger Logger) (*LoanScheduler, error) {
	logger = orNop(logger)
	states := make([]*loanState, 0, len(loans))
	seen := make(map[string]bool, len(loans))

	for i, l := range loans {
		if l.ID == "" {
			l.ID = fmt.Sprintf("loan-%d", i+1)
		}
		if seen[l.ID] {
			return nil, configError(fmt.Sprintf("loans[%d].id", i), "duplicates loan id %q", l.ID)
		}
		seen[l.ID] = true

		st := &loanState{
			loan:      l,
			amortTerm: l.TermMonths - l.GracePeriodMonths,
			remaining: money.NonNegative(l.Principal),
		}
		st.method, st.known = domain.ParseRepaymentMethod(string(l.RepaymentMethod))
		if !st.known {
			if policy == UnknownMethodReject {
				return nil, configError(fmt.Sprintf("loans[%d].repayment_method", i), "%q is not a supported repayment method", l.RepaymentMethod)
			}
			logger.Warnf("loan %s has repayment method %q; no required payment will be scheduled for it", l.ID, l.RepaymentMethod)
		}

		if st.known && st.method == domain.EqualPayment && st.amortTerm > 0 {
			inst, err := EqualPayment(st.remaining, l.InterestRate, st.amortTerm)
			if err != nil {
				return nil, fmt.Errorf("loan %s installment: %w", l.ID, err)
			}
			st.installment = inst
		}
		states = append(states, st)
	}

	sort.SliceStable(states, func(i, j int) bool {
		return states[i].loan.InterestRate.GreaterThan(states[j].loan.InterestRate)
	})

	return &LoanScheduler{loans: states, logger: logger}, nil
}

// PriorityOrder returns loan IDs in prepayment order.
func (s *LoanScheduler) PriorityOrder() []string {
	ids := make([]string, len(s.loans))
	for i, st := range s.loans {
		ids[i] = st.loan.ID
	}
	return ids
}

// RemainingPrincipal sums the outstanding principal over all loans.
func (s *LoanScheduler) RemainingPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, st := range s.loans {
		total = total.Add(st.remaining)
	}
	return total
}

// Remaining returns the outstanding principal of one loan.
func (s *LoanScheduler) Remaining(loanID string) (decimal.Decimal, bool) {
	for _, st := range s.loans {
		if st.loan.ID == loanID {
			return st.remaining, true
		}
	}
	return decimal.Zero, false
}

// Required computes each open loan's required interest and principal for the
// given loan month (1 = first simulated month) without changing any state.
// Loans already repaid are omitted.
func (s *LoanScheduler) Required(monthIndex int) []LoanPayment {
	out := make([]LoanPayment, 0, len(s.loans))
	for _, st := range s.loans {
		if !st.remaining.IsPositive() {
			continue
		}
		interest, principal := st.required(monthIndex)
		out = append(out, LoanPayment{
			LoanID:            st.loan.ID,
			Interest:          interest,
			RequiredPrincipal: principal,
			Remaining:         st.remaining,
		})
	}
	return out
}

func (st *loanState) required(monthIndex int) (interest, principal decimal.Decimal) {
	if !st.known {
		return decimal.Zero, decimal.Zero
	}

	interest = MonthlyInterest(st.remaining, st.loan.InterestRate)
	if monthIndex <= st.loan.GracePeriodMonths || st.method == domain.InterestOnly {
		return interest, decimal.Zero
	}

	repaymentMonth := monthIndex - st.loan.GracePeriodMonths
	var due decimal.Decimal
	switch st.method {
	case domain.EqualPayment:
		due = money.NonNegative(st.installment.Sub(interest))
	case domain.EqualPrincipal:
		due = EqualPrincipalInstallment(st.loan.Principal, st.amortTerm)
	case domain.Bullet:
		due = BulletPrincipal(st.loan.Principal, repaymentMonth, st.amortTerm)
	}
	if repaymentMonth >= st.amortTerm {
		// At or past maturity whatever is left is due.
		due = st.remaining
	}
	return interest, money.Min(due, st.remaining)
}

// Step services every loan for one month. The budget must cover all required
// payments; whatever is left over prepays principal in priority order.
func (s *LoanScheduler) Step(year, month, monthIndex int, budget decimal.Decimal) (LoanMonth, error) {
	payments := s.Required(monthIndex)

	var lm LoanMonth
	for _, p := range payments {
		lm.TotalInterest = lm.TotalInterest.Add(p.Interest)
		lm.TotalPrincipal = lm.TotalPrincipal.Add(p.RequiredPrincipal)
	}
	lm.TotalRequired = lm.TotalInterest.Add(lm.TotalPrincipal)

	if budget.LessThan(lm.TotalRequired) {
		return LoanMonth{}, &InsufficientFundsError{
			Year:      year,
			Month:     month,
			Required:  lm.TotalRequired,
			Available: budget,
		}
	}

	byID := make(map[string]int, len(payments))
	for i, p := range payments {
		byID[p.LoanID] = i
	}

	for _, st := range s.loans {
		i, ok := byID[st.loan.ID]
		if !ok {
			continue
		}
		st.remaining = money.NonNegative(st.remaining.Sub(payments[i].RequiredPrincipal))
		payments[i].Remaining = st.remaining
	}

	pool := budget.Sub(lm.TotalRequired)
	for _, st := range s.loans {
		if !pool.IsPositive() {
			break
		}
		if !st.remaining.IsPositive() {
			continue
		}
		i, ok := byID[st.loan.ID]
		if !ok {
			return LoanMonth{}, fmt.Errorf("%w: loan %s has principal outstanding but no payment record for %04d-%02d",
				ErrDataInconsistency, st.loan.ID, year, month)
		}
		extra := money.Min(pool, st.remaining)
		st.remaining = st.remaining.Sub(extra)
		pool = pool.Sub(extra)
		payments[i].ExtraPrincipal = extra
		payments[i].Remaining = st.remaining
		lm.TotalPrincipal = lm.TotalPrincipal.Add(extra)
	}

	lm.Payments = payments
	lm.Remaining = s.RemainingPrincipal()
	return lm, nil
}
