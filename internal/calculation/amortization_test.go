package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestMonthlyInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		expected  decimal.Decimal
	}{
		{"five percent on 3000", d(3000), d(5), d(12.5)},
		{"zero rate", d(3000), decimal.Zero, decimal.Zero},
		{"zero principal", decimal.Zero, d(7), decimal.Zero},
		{"twelve percent on 1200", d(1200), d(12), d(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyInterest(tt.principal, tt.rate)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestEqualPayment(t *testing.T) {
	t.Run("standard mortgage", func(t *testing.T) {
		got, err := EqualPayment(d(100000), d(6), 360)
		require.NoError(t, err)
		assert.InDelta(t, 599.55, got.InexactFloat64(), 0.01)
	})

	t.Run("small consumer loan", func(t *testing.T) {
		got, err := EqualPayment(d(3000), d(5), 120)
		require.NoError(t, err)
		assert.InDelta(t, 31.82, got.InexactFloat64(), 0.01)
	})

	t.Run("zero rate degrades to straight division", func(t *testing.T) {
		got, err := EqualPayment(d(1200), decimal.Zero, 12)
		require.NoError(t, err)
		assert.True(t, d(100).Equal(got))
	})

	t.Run("zero rate and zero term", func(t *testing.T) {
		_, err := EqualPayment(d(1200), decimal.Zero, 0)
		assert.ErrorIs(t, err, ErrDivideByZero)
	})

	t.Run("zero term with interest", func(t *testing.T) {
		_, err := EqualPayment(d(1200), d(5), 0)
		assert.ErrorIs(t, err, ErrDivideByZero)
	})

	t.Run("installments repay the principal", func(t *testing.T) {
		principal := d(25000)
		installment, err := EqualPayment(principal, d(4.5), 60)
		require.NoError(t, err)

		remaining := principal
		for k := 0; k < 60; k++ {
			interest := MonthlyInterest(remaining, d(4.5))
			remaining = remaining.Sub(installment.Sub(interest))
		}
		assert.InDelta(t, 0, remaining.InexactFloat64(), 0.0001)
	})
}

func TestEqualPrincipalInstallment(t *testing.T) {
	assert.True(t, d(100).Equal(EqualPrincipalInstallment(d(1200), 12)))
	assert.True(t, d(1200).Equal(EqualPrincipalInstallment(d(1200), 0)))
	assert.True(t, d(1200).Equal(EqualPrincipalInstallment(d(1200), -3)))
}

func TestBulletPrincipal(t *testing.T) {
	for k := 1; k <= 24; k++ {
		got := BulletPrincipal(d(5000), k, 24)
		if k == 24 {
			assert.True(t, d(5000).Equal(got), "month %d", k)
		} else {
			assert.True(t, got.IsZero(), "month %d", k)
		}
	}
}
