package ingest

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// formulaOperators mark a string cell as an unevaluated formula.
const formulaOperators = "+-*/"

// ToExactDecimal converts a cell value to a decimal, returning zero for
// anything that cannot be converted.
func ToExactDecimal(value any) decimal.Decimal {
	d, _ := CoerceDecimal(value)
	return d
}

// CoerceDecimal converts a cell value to a decimal. On failure it returns
// zero together with a *CoercionError describing why.
// Floats go through their shortest decimal representation, so 10.1 becomes
// exactly 10.1.
func CoerceDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, nil
		}
		return *v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int8:
		return decimal.NewFromInt(int64(v)), nil
	case int16:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return fromLiteral(v, strconv.FormatUint(uint64(v), 10))
	case uint8:
		return decimal.NewFromInt(int64(v)), nil
	case uint16:
		return decimal.NewFromInt(int64(v)), nil
	case uint32:
		return decimal.NewFromInt(int64(v)), nil
	case uint64:
		return fromLiteral(v, strconv.FormatUint(v, 10))
	case float32:
		return fromLiteral(v, strconv.FormatFloat(float64(v), 'f', -1, 32))
	case float64:
		return fromLiteral(v, strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		if strings.ContainsAny(v, formulaOperators) {
			return decimal.Zero, &CoercionError{Value: v, Reason: "looks like a formula"}
		}
		return fromLiteral(v, strings.TrimSpace(v))
	default:
		return decimal.Zero, &CoercionError{Value: value, Reason: "unsupported type"}
	}
}

func fromLiteral(value any, literal string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, &CoercionError{Value: value, Reason: err.Error()}
	}
	return d, nil
}
