package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// decCtx is the shared arithmetic context for decimal operations: 16
// significant digits, rounding half away from zero. 16 digits
// reproduces the shortest round-trip output of an IEEE double for
// non-terminating quotients such as 20/7.
var decCtx = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(16)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}()

// wholeCtx is used for floor/ceil and other to-integral operations. It
// carries enough precision to hold any int64 exactly.
var wholeCtx = apd.BaseContext.WithPrecision(30)

// ToInteger converts the value to a signed 64-bit integer. It is total:
// integers pass through, decimals floor toward negative infinity,
// strings parse their longest leading signed integer literal (else 0),
// and every other variant yields 0.
func (v Value) ToInteger() int64 {
	switch d := v.data.(type) {
	case int64:
		return d
	case *apd.Decimal:
		return floorToInt64(d)
	case string:
		return parseLeadingInt(d)
	default:
		return 0
	}
}

// ToDecimal converts the value to a decimal. It is total: decimals are
// copied, integers widen exactly, strings parse a full decimal literal
// (optional sign, digits, optional fractional part, else 0), and every
// other variant yields 0. The returned decimal is freshly allocated and
// owned by the caller.
func (v Value) ToDecimal() *apd.Decimal {
	switch d := v.data.(type) {
	case *apd.Decimal:
		return new(apd.Decimal).Set(d)
	case int64:
		return apd.New(d, 0)
	case string:
		if dec, ok := parseDecimalLiteral(d); ok {
			return dec
		}
		return apd.New(0, 0)
	default:
		return apd.New(0, 0)
	}
}

// DisplayString converts the value to its textual output form:
//
//   - nil renders as the empty string
//   - booleans render as "true"/"false"
//   - integers and decimals render in canonical base-10 form, without
//     trailing zeros or scientific notation
//   - strings pass through unchanged
//   - arrays render as the concatenation of their elements' display
//     strings with no separator
//   - dictionaries render as the empty string
//   - ranges render as "start..end"
func (v Value) DisplayString() string {
	switch d := v.data.(type) {
	case bool:
		if d {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(d, 10)
	case *apd.Decimal:
		return formatDecimal(d)
	case string:
		return d
	case []Value:
		var b strings.Builder
		for _, item := range d {
			b.WriteString(item.DisplayString())
		}
		return b.String()
	case map[string]Value:
		return ""
	case Range:
		return fmt.Sprintf("%d..%d", d.Start, d.End)
	default:
		return ""
	}
}

// IsNumeric returns true only for integers and decimals. It decides
// whether an arithmetic result should be integer or decimal kind, not
// whether a value is acceptable as an operand (non-numeric operands
// coerce to 0 instead).
func (v Value) IsNumeric() bool {
	switch v.data.(type) {
	case int64, *apd.Decimal:
		return true
	default:
		return false
	}
}

// IsTruthy returns the truthiness of the value. Only nil and false are
// falsy; 0, the empty string and the empty array are all truthy.
func (v Value) IsTruthy() bool {
	switch d := v.data.(type) {
	case nilType:
		return false
	case bool:
		return d
	default:
		return v.data != nil
	}
}

// Numeric resolves the value to the form in which it participates in
// arithmetic: integers and decimals pass through, a string becomes an
// integer or decimal according to the literal it holds (a non-numeric
// string becomes its leading integer prefix, or 0), and every other
// variant becomes integer 0.
func (v Value) Numeric() Value {
	switch d := v.data.(type) {
	case int64, *apd.Decimal:
		return v
	case string:
		if !strings.ContainsRune(d, '.') {
			return FromInt(parseLeadingInt(d))
		}
		if dec, ok := parseDecimalLiteral(d); ok {
			return FromDecimal(dec)
		}
		return FromInt(parseLeadingInt(d))
	default:
		return FromInt(0)
	}
}

// parseLeadingInt parses the longest leading signed integer literal of
// s, yielding 0 when none exists and saturating at the int64 bounds.
func parseLeadingInt(s string) int64 {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	i, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if s[0] == '-' {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		return 0
	}
	return i
}

// parseDecimalLiteral parses s as a complete decimal literal: an
// optional sign, one or more digits, and an optional fractional part.
func parseDecimalLiteral(s string) (*apd.Decimal, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return nil, false
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			frac++
		}
		if frac == 0 {
			return nil, false
		}
	}
	if i != len(s) {
		return nil, false
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// formatDecimal renders a decimal in canonical base-10 form, stripping
// trailing zeros and avoiding scientific notation.
func formatDecimal(d *apd.Decimal) string {
	var r apd.Decimal
	r.Reduce(d)
	if r.IsZero() {
		return "0"
	}
	return r.Text('f')
}

// floorToInt64 floors a decimal toward negative infinity and saturates
// at the int64 bounds.
func floorToInt64(d *apd.Decimal) int64 {
	var fl apd.Decimal
	if _, err := wholeCtx.Floor(&fl, d); err != nil {
		return 0
	}
	i, err := fl.Int64()
	if err != nil {
		if fl.Sign() < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return i
}

// ceilToInt64 is floorToInt64's counterpart, rounding toward positive
// infinity.
func ceilToInt64(d *apd.Decimal) int64 {
	var cl apd.Decimal
	if _, err := wholeCtx.Ceil(&cl, d); err != nil {
		return 0
	}
	i, err := cl.Int64()
	if err != nil {
		if cl.Sign() < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return i
}
