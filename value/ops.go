package value

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// Equal returns true if two values are equal. Numeric values compare by
// numeric value across the integer/decimal divide, so Integer(2) equals
// Decimal(2.0). All other comparisons require matching kinds.
func (v Value) Equal(other Value) bool {
	if v.IsNil() || other.IsNil() {
		return v.IsNil() && other.IsNil()
	}

	if v.IsNumeric() && other.IsNumeric() {
		return v.ToDecimal().Cmp(other.ToDecimal()) == 0
	}

	if b1, ok := v.AsBool(); ok {
		b2, ok := other.AsBool()
		return ok && b1 == b2
	}

	if s1, ok := v.AsString(); ok {
		s2, ok := other.AsString()
		return ok && s1 == s2
	}

	if seq1, ok := v.AsSlice(); ok {
		seq2, ok := other.AsSlice()
		if !ok || len(seq1) != len(seq2) {
			return false
		}
		for i := range seq1 {
			if !seq1[i].Equal(seq2[i]) {
				return false
			}
		}
		return true
	}

	if m1, ok := v.AsMap(); ok {
		m2, ok := other.AsMap()
		if !ok || len(m1) != len(m2) {
			return false
		}
		for k, val1 := range m1 {
			val2, exists := m2[k]
			if !exists || !val1.Equal(val2) {
				return false
			}
		}
		return true
	}

	if r1, ok := v.AsRange(); ok {
		r2, ok := other.AsRange()
		return ok && r1 == r2
	}

	return false
}

// Compare returns -1 if v < other, 0 if equal, 1 if v > other. Values
// order by kind first (nil < bool < number < string < array), then by
// value within a kind. Dictionaries and ranges are unordered; comparing
// them returns false.
func (v Value) Compare(other Value) (int, bool) {
	kindOrder := func(val Value) int {
		switch val.Kind() {
		case KindNil:
			return 0
		case KindBool:
			return 1
		case KindInteger, KindDecimal:
			return 2
		case KindString:
			return 3
		case KindArray:
			return 4
		default:
			return 5
		}
	}

	k1, k2 := kindOrder(v), kindOrder(other)
	if k1 != k2 {
		if k1 < k2 {
			return -1, true
		}
		return 1, true
	}

	switch {
	case v.IsNil():
		return 0, true

	case v.Kind() == KindBool:
		b1, _ := v.AsBool()
		b2, _ := other.AsBool()
		i1, i2 := 0, 0
		if b1 {
			i1 = 1
		}
		if b2 {
			i2 = 1
		}
		if i1 < i2 {
			return -1, true
		}
		if i1 > i2 {
			return 1, true
		}
		return 0, true

	case v.IsNumeric():
		return v.ToDecimal().Cmp(other.ToDecimal()), true

	case v.Kind() == KindString:
		s1, _ := v.AsString()
		s2, _ := other.AsString()
		if s1 < s2 {
			return -1, true
		}
		if s1 > s2 {
			return 1, true
		}
		return 0, true

	case v.Kind() == KindArray:
		seq1, _ := v.AsSlice()
		seq2, _ := other.AsSlice()
		minLen := min(len(seq1), len(seq2))
		for i := 0; i < minLen; i++ {
			if cmp, ok := seq1[i].Compare(seq2[i]); ok && cmp != 0 {
				return cmp, true
			}
		}
		if len(seq1) < len(seq2) {
			return -1, true
		}
		if len(seq1) > len(seq2) {
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// bothInts resolves both operands and reports whether the operation
// stays in integer arithmetic: it does iff both resolve to integer
// kind. Strings participate with the kind of the literal they parse to.
func bothInts(a, b Value) (int64, int64, bool) {
	an, bn := a.Numeric(), b.Numeric()
	ai, aok := an.AsInt()
	bi, bok := bn.AsInt()
	return ai, bi, aok && bok
}

// Add performs numeric addition with the standard operand resolution.
func (v Value) Add(other Value) Value {
	if ai, bi, ok := bothInts(v, other); ok {
		return FromInt(ai + bi)
	}
	var r apd.Decimal
	_, _ = decCtx.Add(&r, v.Numeric().ToDecimal(), other.Numeric().ToDecimal())
	return FromDecimal(&r)
}

// Sub performs numeric subtraction.
func (v Value) Sub(other Value) Value {
	if ai, bi, ok := bothInts(v, other); ok {
		return FromInt(ai - bi)
	}
	var r apd.Decimal
	_, _ = decCtx.Sub(&r, v.Numeric().ToDecimal(), other.Numeric().ToDecimal())
	return FromDecimal(&r)
}

// Mul performs numeric multiplication.
func (v Value) Mul(other Value) Value {
	if ai, bi, ok := bothInts(v, other); ok {
		return FromInt(ai * bi)
	}
	var r apd.Decimal
	_, _ = decCtx.Mul(&r, v.Numeric().ToDecimal(), other.Numeric().ToDecimal())
	return FromDecimal(&r)
}

// DividedBy performs division. Integer operands use floor division,
// rounding the quotient toward negative infinity; any decimal operand
// forces decimal division under the shared context. A divisor resolving
// to zero is an error.
func (v Value) DividedBy(other Value) (Value, error) {
	if ai, bi, ok := bothInts(v, other); ok {
		if bi == 0 {
			return Nil(), fmt.Errorf("division by 0")
		}
		return FromInt(floorDiv(ai, bi)), nil
	}
	bd := other.Numeric().ToDecimal()
	if bd.IsZero() {
		return Nil(), fmt.Errorf("division by 0")
	}
	var r apd.Decimal
	_, _ = decCtx.Quo(&r, v.Numeric().ToDecimal(), bd)
	return FromDecimal(&r), nil
}

// Modulo performs floored modulo: the remainder takes the sign of the
// divisor, matching floor division. A divisor resolving to zero is an
// error.
func (v Value) Modulo(other Value) (Value, error) {
	if ai, bi, ok := bothInts(v, other); ok {
		if bi == 0 {
			return Nil(), fmt.Errorf("modulo by 0")
		}
		if bi == -1 {
			return FromInt(0), nil
		}
		r := ai % bi
		if r != 0 && (r < 0) != (bi < 0) {
			r += bi
		}
		return FromInt(r), nil
	}
	bd := other.Numeric().ToDecimal()
	if bd.IsZero() {
		return Nil(), fmt.Errorf("modulo by 0")
	}
	var r apd.Decimal
	_, _ = decCtx.Rem(&r, v.Numeric().ToDecimal(), bd)
	if !r.IsZero() && (r.Sign() < 0) != (bd.Sign() < 0) {
		_, _ = decCtx.Add(&r, &r, bd)
	}
	return FromDecimal(&r), nil
}

// Abs returns the absolute numeric value, preserving the resolved kind.
func (v Value) Abs() Value {
	n := v.Numeric()
	if i, ok := n.AsInt(); ok {
		if i < 0 && i != math.MinInt64 {
			return FromInt(-i)
		}
		return FromInt(i)
	}
	d, _ := n.AsDecimal()
	var r apd.Decimal
	r.Abs(d)
	return FromDecimal(&r)
}

// Floor returns the value rounded toward negative infinity as an
// integer.
func (v Value) Floor() Value {
	n := v.Numeric()
	if i, ok := n.AsInt(); ok {
		return FromInt(i)
	}
	d, _ := n.AsDecimal()
	return FromInt(floorToInt64(d))
}

// Ceil returns the value rounded toward positive infinity as an
// integer.
func (v Value) Ceil() Value {
	n := v.Numeric()
	if i, ok := n.AsInt(); ok {
		return FromInt(i)
	}
	d, _ := n.AsDecimal()
	return FromInt(ceilToInt64(d))
}

// Round rounds to the given number of decimal places, half away from
// zero. Zero or negative places yields an integer.
func (v Value) Round(places int64) Value {
	n := v.Numeric()
	if i, ok := n.AsInt(); ok {
		return FromInt(i)
	}
	d, _ := n.AsDecimal()
	if places <= 0 {
		var r apd.Decimal
		if _, err := decCtx.Quantize(&r, d, 0); err != nil {
			return FromInt(0)
		}
		i, err := r.Int64()
		if err != nil {
			return FromInt(0)
		}
		return FromInt(i)
	}
	if places > math.MaxInt32 {
		places = math.MaxInt32
	}
	var r apd.Decimal
	if _, err := decCtx.Quantize(&r, d, int32(-places)); err != nil {
		return FromDecimal(new(apd.Decimal).Set(d))
	}
	return FromDecimal(&r)
}

// floorDiv divides rounding toward negative infinity. Go's native
// division truncates toward zero, which differs whenever the operand
// signs differ and the remainder is nonzero.
func floorDiv(a, b int64) int64 {
	if a == math.MinInt64 && b == -1 {
		return math.MinInt64
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
