package validate

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Check collects the non-nil field errors.
func Check(fields ...*ErrField) Errs {
	var out Errs
	for _, f := range fields {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

// Err returns nil for an empty list so callers never hold a typed nil.
func (e Errs) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func MinInt(field string, v, min int64) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: "must be >= " + strconv.FormatInt(min, 10)}
	}
	return nil
}

func RequiredAmount(field string, v *decimal.Decimal) *ErrField {
	if v == nil {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func Positive(field string, v *decimal.Decimal) *ErrField {
	if v != nil && !v.IsPositive() {
		return &ErrField{Field: field, Msg: "must be > 0"}
	}
	return nil
}

func NonNegative(field string, v *decimal.Decimal) *ErrField {
	if v != nil && v.IsNegative() {
		return &ErrField{Field: field, Msg: "must be >= 0"}
	}
	return nil
}

// MaxAmount is the first value a numeric(14,2) column cannot hold.
var MaxAmount = decimal.New(1, 12)

// Money bounds an amount to cents and to what a numeric(14,2) column stores.
func Money(field string, v *decimal.Decimal) *ErrField {
	if v == nil {
		return nil
	}
	if !v.Equal(v.Round(2)) {
		return &ErrField{Field: field, Msg: "at most 2 decimal places"}
	}
	if v.Abs().GreaterThanOrEqual(MaxAmount) {
		return &ErrField{Field: field, Msg: "must be < " + MaxAmount.String()}
	}
	return nil
}

func Email(field, value string) *ErrField {
	if value != "" && !strings.Contains(value, "@") {
		return &ErrField{Field: field, Msg: "invalid email"}
	}
	return nil
}
