package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCollectsFailures(t *testing.T) {
	zero := decimal.Zero
	neg := decimal.NewFromInt(-1)

	errs := Check(
		Required("name", "  "),
		Required("month", "March"),
		Positive("amount", &zero),
		NonNegative("target", &neg),
		RequiredAmount("limit", nil),
		Email("email", "nobody"),
	)

	require.Len(t, errs, 5)
	assert.Equal(t, "name: required; amount: must be > 0; target: must be >= 0; limit: required; email: invalid email", errs.Error())
	assert.Error(t, errs.Err())
}

func TestErrIsNilWhenClean(t *testing.T) {
	one := decimal.NewFromInt(1)
	errs := Check(Required("name", "food"), Positive("amount", &one), MinInt("year", 2024, 1))
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestOptionalAmountsSkipNil(t *testing.T) {
	assert.Nil(t, Positive("amount", nil))
	assert.Nil(t, NonNegative("amount", nil))
}

func TestMoneyBoundsScaleAndRange(t *testing.T) {
	cases := []struct {
		in  string
		msg string
	}{
		{"12.34", ""},
		{"12.340000", ""},
		{"999999999999.99", ""},
		{"-5.10", ""},
		{"0.001", "at most 2 decimal places"},
		{"0.1234567890123456789012345678901234567", "at most 2 decimal places"},
		{"1000000000000", "must be < 1000000000000"},
		{"-1000000000000.00", "must be < 1000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v := decimal.RequireFromString(tc.in)
			got := Money("amount", &v)
			if tc.msg == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "amount", got.Field)
			assert.Equal(t, tc.msg, got.Msg)
		})
	}
	assert.Nil(t, Money("amount", nil))
}
