package droplet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droplang/droplet/value"
)

func apply(t *testing.T, name string, val value.Value, args ...value.Value) value.Value {
	t.Helper()
	result, err := NewEnvironment().ApplyFilter(name, val, args)
	require.NoError(t, err)
	return result
}

func applyErr(t *testing.T, name string, val value.Value, args ...value.Value) error {
	t.Helper()
	_, err := NewEnvironment().ApplyFilter(name, val, args)
	require.Error(t, err)
	return err
}

// --- divided_by ---

func TestDividedByFilter(t *testing.T) {
	tests := []struct {
		val      value.Value
		divisor  value.Value
		wantKind value.ValueKind
		want     string
	}{
		{value.FromInt(9), value.FromInt(2), value.KindInteger, "4"},
		{value.FromInt(-9), value.FromInt(2), value.KindInteger, "-5"},
		{value.FromInt(9), value.FromInt(-2), value.KindInteger, "-5"},
		{value.FromInt(-9), value.FromInt(-2), value.KindInteger, "4"},
		{value.FromFloat(9.0), value.FromInt(2), value.KindDecimal, "4.5"},
		{value.FromInt(9), value.FromFloat(2.0), value.KindDecimal, "4.5"},
		{value.FromInt(20), value.FromFloat(7.0), value.KindDecimal, "2.857142857142857"},
		{value.FromString("10"), value.FromString("2"), value.KindInteger, "5"},
		{value.FromInt(10), value.FromString("2.5"), value.KindDecimal, "4"},
		// non-numeric inputs coerce to 0 as dividends
		{value.True(), value.FromInt(2), value.KindInteger, "0"},
		{value.FromSlice([]value.Value{value.FromInt(8)}), value.FromInt(2), value.KindInteger, "0"},
		{value.FromRange(1, 9), value.FromInt(2), value.KindInteger, "0"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%s%d", t.Name(), i), func(t *testing.T) {
			got := apply(t, "divided_by", tt.val, tt.divisor)
			assert.Equal(t, tt.wantKind, got.Kind())
			assert.Equal(t, tt.want, got.DisplayString())
		})
	}
}

func TestDividedByMissingDivisorIsNil(t *testing.T) {
	got := apply(t, "divided_by", value.FromInt(10))
	assert.True(t, got.IsNil(), "missing divisor yields nil, not an error and not 0")
}

func TestDividedByZeroDivisor(t *testing.T) {
	divisors := []value.Value{
		value.FromInt(0),
		value.FromFloat(0.0),
		value.FromString("0"),
		value.Nil(), // nil divisor coerces to integer 0
		value.False(),
		value.FromMap(nil),
	}
	for _, divisor := range divisors {
		err := applyErr(t, "divided_by", value.FromInt(10), divisor)

		var fe *Error
		require.ErrorAs(t, err, &fe, "dividing by %s", divisor.Repr())
		assert.Equal(t, ErrInvalidArgument, fe.Kind)
		assert.Equal(t, "divided_by", fe.Filter)
		assert.Contains(t, fe.Message, "0")
	}
}

// --- other arithmetic filters ---

func TestArithmeticFilters(t *testing.T) {
	tests := []struct {
		name string
		val  value.Value
		args []value.Value
		want string
	}{
		{"plus", value.FromInt(4), []value.Value{value.FromInt(2)}, "6"},
		{"plus", value.FromString("4"), []value.Value{value.FromFloat(1.5)}, "5.5"},
		{"plus", value.FromInt(4), nil, "4"}, // missing argument acts as nil, which is 0
		{"minus", value.FromInt(4), []value.Value{value.FromInt(6)}, "-2"},
		{"times", value.FromInt(3), []value.Value{value.FromInt(4)}, "12"},
		{"times", value.FromFloat(0.5), []value.Value{value.FromInt(3)}, "1.5"},
		{"modulo", value.FromInt(7), []value.Value{value.FromInt(3)}, "1"},
		{"modulo", value.FromInt(-7), []value.Value{value.FromInt(3)}, "2"},
		{"abs", value.FromInt(-5), nil, "5"},
		{"abs", value.FromString("-3.5"), nil, "3.5"},
		{"ceil", value.FromFloat(1.2), nil, "2"},
		{"floor", value.FromFloat(1.8), nil, "1"},
		{"round", value.FromFloat(4.6), nil, "5"},
		{"round", value.FromFloat(4.5612), []value.Value{value.FromInt(2)}, "4.56"},
		{"at_least", value.FromInt(5), []value.Value{value.FromInt(8)}, "8"},
		{"at_least", value.FromInt(9), []value.Value{value.FromInt(8)}, "9"},
		{"at_most", value.FromInt(5), []value.Value{value.FromInt(3)}, "3"},
		{"at_most", value.FromFloat(2.5), []value.Value{value.FromInt(3)}, "2.5"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s%d", t.Name(), tt.name, i), func(t *testing.T) {
			got := apply(t, tt.name, tt.val, tt.args...)
			assert.Equal(t, tt.want, got.DisplayString())
		})
	}
}

func TestModuloZero(t *testing.T) {
	err := applyErr(t, "modulo", value.FromInt(5), value.FromInt(0))
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrInvalidArgument, fe.Kind)
	assert.Contains(t, fe.Message, "0")
}

// --- last / first ---

func TestLastFilter(t *testing.T) {
	abc := []value.Value{value.FromString("a"), value.FromString("b"), value.FromString("c")}
	got := apply(t, "last", value.FromSlice(abc))
	assert.Equal(t, "c", got.DisplayString())

	// the literal last element comes back unmodified, nested or nil
	nested := value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2)})
	got = apply(t, "last", value.FromSlice([]value.Value{value.FromInt(0), nested}))
	assert.True(t, got.Equal(nested))

	got = apply(t, "last", value.FromSlice([]value.Value{value.FromInt(1), value.Nil()}))
	assert.True(t, got.IsNil())

	assert.True(t, apply(t, "last", value.FromSlice(nil)).IsNil(), "empty array")

	// every non-array variant yields nil, strings included
	nonArrays := []value.Value{
		value.FromString("any string"),
		value.FromString(""),
		value.FromString("👨‍👩‍👧"), // multi-scalar graphemes change nothing
		value.FromInt(42),
		value.FromFloat(1.5),
		value.True(),
		value.Nil(),
		value.FromMap(map[string]value.Value{"a": value.FromInt(1)}),
		value.FromRange(1, 5),
	}
	for _, v := range nonArrays {
		assert.True(t, apply(t, "last", v).IsNil(), "last(%s)", v.Repr())
	}
}

func TestFirstFilter(t *testing.T) {
	abc := []value.Value{value.FromInt(3), value.FromInt(1)}
	assert.Equal(t, int64(3), apply(t, "first", value.FromSlice(abc)).ToInteger())
	assert.True(t, apply(t, "first", value.FromSlice(nil)).IsNil())
	assert.True(t, apply(t, "first", value.FromString("abc")).IsNil())
}

// --- size ---

func TestSizeFilter(t *testing.T) {
	tests := []struct {
		val  value.Value
		want int64
	}{
		{value.FromString(""), 0},
		{value.FromString("hello"), 5},
		{value.FromString("👋"), 1},
		{value.FromString("café"), 4},
		{value.FromString("é"), 1}, // base + combining acute is one character
		{value.FromString("a\x00b"), 3},  // null counts as an ordinary character
		{value.FromString("  \t\n"), 4},  // whitespace counts
		{value.FromSlice(nil), 0},
		{value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2), value.FromInt(3)}), 3},
		// nested collections count as one element each
		{value.FromSlice([]value.Value{
			value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2)}),
			value.FromMap(map[string]value.Value{"a": value.FromInt(1)}),
		}), 2},
		{value.FromMap(map[string]value.Value{"a": value.FromInt(1), "b": value.FromInt(2)}), 2},
		{value.FromInt(123456), 0},
		{value.FromInt(-1), 0},
		{value.FromFloat(3.14), 0},
		{value.True(), 0},
		{value.Nil(), 0},
		{value.FromRange(1, 100), 0},
	}
	for _, tt := range tests {
		got := apply(t, "size", tt.val)
		assert.Equal(t, value.KindInteger, got.Kind())
		assert.Equal(t, tt.want, got.ToInteger(), "size(%s)", tt.val.Repr())
	}
}

// --- strip family ---

func TestStripFilter(t *testing.T) {
	tests := []struct {
		val  value.Value
		want string
	}{
		{value.FromString("  a   b  "), "a   b"}, // interior runs untouched
		{value.FromString("\t\r\n x \f\n"), "x"},
		{value.FromString(" padded "), "padded"}, // unicode space separators
		{value.FromString("clean"), "clean"},
		{value.FromString(""), ""},
		{value.FromString("   "), ""},
		// non-strings render first, then trim
		{value.FromInt(42), "42"},
		{value.FromFloat(1.5), "1.5"},
		{value.True(), "true"},
		{value.Nil(), ""},
		{value.FromMap(map[string]value.Value{"a": value.FromInt(1)}), ""},
		{value.FromRange(2, 6), "2..6"},
		{value.FromSlice([]value.Value{value.FromString(" a "), value.FromString(" b ")}), "a  b"},
	}
	for _, tt := range tests {
		got := apply(t, "strip", tt.val)
		assert.Equal(t, value.KindString, got.Kind())
		assert.Equal(t, tt.want, got.DisplayString(), "strip(%s)", tt.val.Repr())
	}
}

func TestStripIsIdempotent(t *testing.T) {
	inputs := []string{"  a   b  ", "x", "", " \t ", "a\nb", " a "}
	for _, s := range inputs {
		once := apply(t, "strip", value.FromString(s))
		twice := apply(t, "strip", once)
		assert.Equal(t, once.DisplayString(), twice.DisplayString(), "strip(strip(%q))", s)
	}
}

func TestLstripRstrip(t *testing.T) {
	assert.Equal(t, "a  ", apply(t, "lstrip", value.FromString("  a  ")).DisplayString())
	assert.Equal(t, "  a", apply(t, "rstrip", value.FromString("  a  ")).DisplayString())
}

func TestStripNewlines(t *testing.T) {
	assert.Equal(t, "ab", apply(t, "strip_newlines", value.FromString("a\nb")).DisplayString())
	assert.Equal(t, "ab", apply(t, "strip_newlines", value.FromString("a\r\nb\n")).DisplayString())
	assert.Equal(t, "a b", apply(t, "strip_newlines", value.FromString("a b")).DisplayString())
}

// --- string filters ---

func TestStringFilters(t *testing.T) {
	tests := []struct {
		name string
		val  value.Value
		args []value.Value
		want string
	}{
		{"upcase", value.FromString("héllo"), nil, "HÉLLO"},
		{"downcase", value.FromString("HeLLo"), nil, "hello"},
		{"capitalize", value.FromString("my GREAT title"), nil, "My great title"},
		{"capitalize", value.FromString(""), nil, ""},
		{"append", value.FromString("a"), []value.Value{value.FromString("b")}, "ab"},
		{"append", value.FromInt(4), []value.Value{value.FromString("px")}, "4px"},
		{"append", value.FromString("a"), nil, "a"}, // nil argument renders empty
		{"prepend", value.FromString("b"), []value.Value{value.FromString("a")}, "ab"},
		{"replace", value.FromString("a-b-c"), []value.Value{value.FromString("-"), value.FromString("+")}, "a+b+c"},
		{"replace_first", value.FromString("a-b-c"), []value.Value{value.FromString("-"), value.FromString("+")}, "a+b-c"},
		{"remove", value.FromString("a-b-c"), []value.Value{value.FromString("-")}, "abc"},
		{"remove_first", value.FromString("a-b-c"), []value.Value{value.FromString("-")}, "ab-c"},
		{"truncate", value.FromString("Ground control to Major Tom."), []value.Value{value.FromInt(20)}, "Ground control to..."},
		{"truncate", value.FromString("short"), []value.Value{value.FromInt(20)}, "short"},
		{"truncate", value.FromString("abcdef"), []value.Value{value.FromInt(5), value.FromString("…")}, "abcd…"},
		{"truncate_words", value.FromString("one two three four"), []value.Value{value.FromInt(2)}, "one two..."},
		{"truncate_words", value.FromString("one two"), []value.Value{value.FromInt(5)}, "one two"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s%d", t.Name(), tt.name, i), func(t *testing.T) {
			got := apply(t, tt.name, tt.val, tt.args...)
			assert.Equal(t, tt.want, got.DisplayString())
		})
	}
}

func TestSplitFilter(t *testing.T) {
	got := apply(t, "split", value.FromString("a,b,c"), value.FromString(","))
	items, ok := got.AsSlice()
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[1].DisplayString())

	// trailing empty fields are dropped, interior ones kept
	got = apply(t, "split", value.FromString("a,,b,,"), value.FromString(","))
	items, _ = got.AsSlice()
	require.Len(t, items, 3)
	assert.Equal(t, "", items[1].DisplayString())

	// empty separator splits into characters
	got = apply(t, "split", value.FromString("héé"), value.FromString(""))
	items, _ = got.AsSlice()
	require.Len(t, items, 3)
	assert.Equal(t, "é", items[1].DisplayString())

	got = apply(t, "split", value.FromString(""), value.FromString(","))
	items, _ = got.AsSlice()
	assert.Empty(t, items)
}

// --- collection filters ---

func TestJoinFilter(t *testing.T) {
	arr := value.FromSlice([]value.Value{value.FromString("a"), value.FromInt(2), value.Nil()})
	assert.Equal(t, "a, 2, ", apply(t, "join", arr, value.FromString(", ")).DisplayString())
	assert.Equal(t, "a 2 ", apply(t, "join", arr).DisplayString())
	// non-arrays pass through
	assert.Equal(t, "x", apply(t, "join", value.FromString("x")).DisplayString())
}

func TestReverseSortUniqCompact(t *testing.T) {
	arr := value.FromSlice([]value.Value{value.FromInt(3), value.FromInt(1), value.FromInt(2)})

	got, _ := apply(t, "reverse", arr).AsSlice()
	assert.Equal(t, int64(2), got[0].ToInteger())
	assert.Equal(t, int64(3), got[2].ToInteger())

	got, _ = apply(t, "sort", arr).AsSlice()
	assert.Equal(t, int64(1), got[0].ToInteger())
	assert.Equal(t, int64(3), got[2].ToInteger())
	// the input array is untouched
	orig, _ := arr.AsSlice()
	assert.Equal(t, int64(3), orig[0].ToInteger())

	dup := value.FromSlice([]value.Value{
		value.FromInt(1), value.FromInt(2), value.FromInt(1), value.FromFloat(2.0),
	})
	got, _ = apply(t, "uniq", dup).AsSlice()
	require.Len(t, got, 2, "2 and 2.0 are numerically equal")
	assert.Equal(t, int64(1), got[0].ToInteger())

	sparse := value.FromSlice([]value.Value{value.FromInt(1), value.Nil(), value.FromInt(2), value.Nil()})
	got, _ = apply(t, "compact", sparse).AsSlice()
	require.Len(t, got, 2)
}

func TestSortMixedKinds(t *testing.T) {
	arr := value.FromSlice([]value.Value{
		value.FromString("b"),
		value.FromInt(10),
		value.FromString("a"),
		value.FromFloat(2.5),
	})
	got, _ := apply(t, "sort", arr).AsSlice()
	// numbers order before strings
	assert.Equal(t, "2.5", got[0].DisplayString())
	assert.Equal(t, "10", got[1].DisplayString())
	assert.Equal(t, "a", got[2].DisplayString())
	assert.Equal(t, "b", got[3].DisplayString())
}

func TestConcatFilter(t *testing.T) {
	a := value.FromSlice([]value.Value{value.FromInt(1)})
	b := value.FromSlice([]value.Value{value.FromInt(2), value.FromInt(3)})

	got, _ := apply(t, "concat", a, b).AsSlice()
	require.Len(t, got, 3)

	// scalars contribute themselves as a single element
	got, _ = apply(t, "concat", value.FromString("x"), b).AsSlice()
	require.Len(t, got, 3)
	assert.Equal(t, "x", got[0].DisplayString())

	got, _ = apply(t, "concat", value.Nil(), b).AsSlice()
	require.Len(t, got, 2)

	err := applyErr(t, "concat", a, value.FromString("not an array"))
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrInvalidArgument, fe.Kind)
}

func TestMapFilter(t *testing.T) {
	people := value.FromSlice([]value.Value{
		value.FromMap(map[string]value.Value{"name": value.FromString("ada")}),
		value.FromMap(map[string]value.Value{"age": value.FromInt(9)}),
		value.FromInt(5),
	})
	got, _ := apply(t, "map", people, value.FromString("name")).AsSlice()
	require.Len(t, got, 3)
	assert.Equal(t, "ada", got[0].DisplayString())
	assert.True(t, got[1].IsNil(), "elements without the key project to nil")
	assert.True(t, got[2].IsNil(), "non-dictionary elements project to nil")
}

// --- default ---

func TestDefaultFilter(t *testing.T) {
	fallback := value.FromString("fallback")

	assert.Equal(t, "fallback", apply(t, "default", value.Nil(), fallback).DisplayString())
	assert.Equal(t, "fallback", apply(t, "default", value.False(), fallback).DisplayString())
	assert.Equal(t, "fallback", apply(t, "default", value.FromString(""), fallback).DisplayString())
	assert.Equal(t, "fallback", apply(t, "default", value.FromSlice(nil), fallback).DisplayString())

	assert.Equal(t, "0", apply(t, "default", value.FromInt(0), fallback).DisplayString(), "0 is truthy")
	assert.Equal(t, "x", apply(t, "default", value.FromString("x"), fallback).DisplayString())
	assert.Equal(t, "true", apply(t, "default", value.True(), fallback).DisplayString())
}

// --- extra argument tolerance ---

func TestExtraArgumentsAreIgnored(t *testing.T) {
	extra := []value.Value{value.FromInt(99), value.FromString("noise")}

	tests := []struct {
		name string
		val  value.Value
		args []value.Value
	}{
		{"divided_by", value.FromInt(9), []value.Value{value.FromInt(2)}},
		{"divided_by", value.FromFloat(9.0), []value.Value{value.FromInt(2)}},
		{"plus", value.FromInt(1), []value.Value{value.FromInt(2)}},
		{"size", value.FromString("abc"), nil},
		{"last", value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2)}), nil},
		{"first", value.FromSlice([]value.Value{value.FromInt(1)}), nil},
		{"strip", value.FromString(" x "), nil},
		{"upcase", value.FromString("x"), nil},
		{"append", value.FromString("a"), []value.Value{value.FromString("b")}},
		{"join", value.FromSlice([]value.Value{value.FromInt(1), value.FromInt(2)}), []value.Value{value.FromString("-")}},
		{"default", value.Nil(), []value.Value{value.FromString("d")}},
	}
	for _, tt := range tests {
		exact := apply(t, tt.name, tt.val, tt.args...)
		padded := apply(t, tt.name, tt.val, append(append([]value.Value{}, tt.args...), extra...)...)
		assert.Equal(t, exact.Repr(), padded.Repr(), "%s with extra args", tt.name)
	}
}

// --- error surface ---

func TestFilterErrorsAreTyped(t *testing.T) {
	_, err := NewEnvironment().ApplyFilter("divided_by", value.FromInt(1), []value.Value{value.FromInt(0)})
	require.Error(t, err)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "invalid argument")
	assert.Contains(t, fe.Error(), "divided_by")
}
