// Package value provides the dynamic value type for the template engine.
//
// The value package implements Droplet's runtime type system. A Value is
// a closed tagged union over exactly eight variants: nil, boolean,
// integer, decimal, string, array, dictionary and range. Every coercion
// and every filter matches these variants exhaustively; adding a variant
// is a breaking change for all of them.
//
// # Creating Values
//
// Values are created with constructor functions:
//
//	name := value.FromString("World")
//	count := value.FromInt(42)
//	items := value.FromSlice([]value.Value{
//	    value.FromString("apple"),
//	    value.FromString("banana"),
//	})
//
// Arbitrary Go data can be converted with FromAny:
//
//	val := value.FromAny(map[string]any{"name": "Alice", "age": 30})
//
// # Immutability
//
// A Value is never mutated after construction. Filters borrow their
// inputs and return freshly allocated outputs; array and dictionary
// producing operations always allocate new backing storage.
package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// ValueKind describes the variant held by a Value.
type ValueKind int

const (
	// KindNil represents the absence of a value.
	KindNil ValueKind = iota

	// KindBool represents a boolean true/false.
	KindBool

	// KindInteger represents a signed 64-bit integer.
	KindInteger

	// KindDecimal represents a signed decimal number, distinct from
	// integers. Decimals are used whenever fractional results are
	// possible or required by an input.
	KindDecimal

	// KindString represents a text string.
	KindString

	// KindArray represents an ordered sequence of values.
	KindArray

	// KindDict represents a mapping from string keys to values.
	KindDict

	// KindRange represents an inclusive integer range.
	KindRange
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Range is the payload of a range value: an inclusive integer span.
// Whether Start may exceed End is not validated here; no filter in this
// package iterates a range.
type Range struct {
	Start int64
	End   int64
}

// Value represents a dynamically typed value flowing through expression
// evaluation and filters.
//
// The zero Value is nil.
type Value struct {
	data any
}

// internal marker for the nil variant
type nilType struct{}

var nilVal = nilType{}

// Nil returns the nil value.
func Nil() Value {
	return Value{data: nilVal}
}

// True returns the boolean true value.
func True() Value {
	return Value{data: true}
}

// False returns the boolean false value.
func False() Value {
	return Value{data: false}
}

// FromBool creates a Value from a boolean.
func FromBool(v bool) Value {
	return Value{data: v}
}

// FromInt creates a Value from an int64.
func FromInt(v int64) Value {
	return Value{data: v}
}

// FromDecimal creates a Value from an apd decimal. The decimal must not
// be mutated by the caller afterwards; operations in this package never
// modify it and always allocate fresh results.
func FromDecimal(d *apd.Decimal) Value {
	return Value{data: d}
}

// FromFloat creates a decimal Value from a float64 using its shortest
// decimal representation.
func FromFloat(f float64) Value {
	var d apd.Decimal
	if _, err := d.SetFloat64(f); err != nil {
		return FromDecimal(apd.New(0, 0))
	}
	return FromDecimal(&d)
}

// FromDecimalString parses a decimal literal (optional sign, digits,
// optional fractional part) into a decimal Value. The second return is
// false if the string is not a valid literal.
func FromDecimalString(s string) (Value, bool) {
	d, ok := parseDecimalLiteral(s)
	if !ok {
		return Nil(), false
	}
	return FromDecimal(d), true
}

// FromString creates a Value from a string.
func FromString(v string) Value {
	return Value{data: v}
}

// FromSlice creates an array Value from a slice of Values. The slice is
// referenced, not copied; the caller must not mutate it afterwards.
func FromSlice(v []Value) Value {
	return Value{data: v}
}

// FromMap creates a dictionary Value from a map of string to Value. The
// map is referenced, not copied; the caller must not mutate it
// afterwards.
func FromMap(v map[string]Value) Value {
	return Value{data: v}
}

// FromRange creates an inclusive integer range Value.
func FromRange(start, end int64) Value {
	return Value{data: Range{Start: start, End: end}}
}

// FromAny creates a Value from any Go value using reflection.
//
// Conversions:
//   - nil -> Nil()
//   - bool -> FromBool()
//   - int/uint types -> FromInt()
//   - float types -> FromInt() when whole, FromFloat() otherwise
//   - string -> FromString()
//   - slices/arrays -> FromSlice() (recursively)
//   - maps -> FromMap() (recursively)
//   - structs -> FromMap() (exported fields, honoring json tags)
//   - pointers/interfaces -> dereference and convert
func FromAny(v any) Value {
	if v == nil {
		return Nil()
	}
	if val, ok := v.(Value); ok {
		return val
	}
	if d, ok := v.(*apd.Decimal); ok {
		return FromDecimal(d)
	}
	return fromReflectValue(reflect.ValueOf(v))
}

func fromReflectValue(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Nil()
	}
	if rv.CanInterface() {
		if val, ok := rv.Interface().(Value); ok {
			return val
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return FromBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FromInt(int64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		// Whole floats become integers for consistency with JSON parsing.
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return FromInt(int64(f))
		}
		return FromFloat(f)
	case reflect.String:
		return FromString(rv.String())
	case reflect.Slice, reflect.Array:
		slice := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			slice[i] = fromReflectValue(rv.Index(i))
		}
		return FromSlice(slice)
	case reflect.Map:
		m := make(map[string]Value)
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			m[key] = fromReflectValue(iter.Value())
		}
		return FromMap(m)
	case reflect.Struct:
		return fromStruct(rv)
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Nil()
		}
		return fromReflectValue(rv.Elem())
	default:
		return Nil()
	}
}

func fromStruct(rv reflect.Value) Value {
	t := rv.Type()
	m := make(map[string]Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		m[name] = fromReflectValue(rv.Field(i))
	}
	return FromMap(m)
}

// Kind returns the kind of value.
func (v Value) Kind() ValueKind {
	switch v.data.(type) {
	case bool:
		return KindBool
	case int64:
		return KindInteger
	case *apd.Decimal:
		return KindDecimal
	case string:
		return KindString
	case []Value:
		return KindArray
	case map[string]Value:
		return KindDict
	case Range:
		return KindRange
	default:
		// nilType and the zero Value
		return KindNil
	}
}

// IsNil returns true if the value is nil.
func (v Value) IsNil() bool {
	return v.Kind() == KindNil
}

// AsBool returns the boolean payload if the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.data.(bool)
	return b, ok
}

// AsInt returns the integer payload if the value is an integer.
func (v Value) AsInt() (int64, bool) {
	i, ok := v.data.(int64)
	return i, ok
}

// AsDecimal returns the decimal payload if the value is a decimal. The
// returned decimal must not be mutated.
func (v Value) AsDecimal() (*apd.Decimal, bool) {
	d, ok := v.data.(*apd.Decimal)
	return d, ok
}

// AsString returns the string payload if the value is a string.
func (v Value) AsString() (string, bool) {
	s, ok := v.data.(string)
	return s, ok
}

// AsSlice returns the element slice if the value is an array. The slice
// must not be mutated.
func (v Value) AsSlice() ([]Value, bool) {
	s, ok := v.data.([]Value)
	return s, ok
}

// AsMap returns the underlying map if the value is a dictionary. The
// map must not be mutated.
func (v Value) AsMap() (map[string]Value, bool) {
	m, ok := v.data.(map[string]Value)
	return m, ok
}

// AsRange returns the range payload if the value is a range.
func (v Value) AsRange() (Range, bool) {
	r, ok := v.data.(Range)
	return r, ok
}

// Len returns the collection length: element count for arrays, pair
// count for dictionaries. The second return is false for every other
// variant.
func (v Value) Len() (int, bool) {
	switch d := v.data.(type) {
	case []Value:
		return len(d), true
	case map[string]Value:
		return len(d), true
	default:
		return 0, false
	}
}

// String returns the display form of the value as rendered into
// template output. See DisplayString for the exact rules.
func (v Value) String() string {
	return v.DisplayString()
}

// Repr returns a debug representation of the value.
func (v Value) Repr() string {
	switch d := v.data.(type) {
	case bool:
		return strconv.FormatBool(d)
	case int64:
		return strconv.FormatInt(d, 10)
	case *apd.Decimal:
		return formatDecimal(d)
	case string:
		return strconv.Quote(d)
	case []Value:
		parts := make([]string, len(d))
		for i, item := range d {
			parts[i] = item.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]Value:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, d[k].Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Range:
		return fmt.Sprintf("(%d..%d)", d.Start, d.End)
	default:
		return "nil"
	}
}
