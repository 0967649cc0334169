package droplet

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/droplang/droplet/value"
)

// Built-in filter implementations. Filters are pure: they coerce their
// operands per the value package's rules, never mutate inputs, and
// return freshly constructed values.

// --- Arithmetic filters ---

// filterPlus implements the built-in `plus` filter.
func filterPlus(val value.Value, args []value.Value) (value.Value, error) {
	return val.Add(argOrNil(args, 0)), nil
}

// filterMinus implements the built-in `minus` filter.
func filterMinus(val value.Value, args []value.Value) (value.Value, error) {
	return val.Sub(argOrNil(args, 0)), nil
}

// filterTimes implements the built-in `times` filter.
func filterTimes(val value.Value, args []value.Value) (value.Value, error) {
	return val.Mul(argOrNil(args, 0)), nil
}

// filterDividedBy implements the built-in `divided_by` filter.
//
// A missing divisor returns nil; this is distinct from a nil divisor,
// which coerces to integer 0 and therefore fails as a division by zero.
// The result is an integer iff both operands resolve to integer kind.
func filterDividedBy(val value.Value, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Nil(), nil
	}
	result, err := val.DividedBy(args[0])
	if err != nil {
		return value.Nil(), NewError(ErrInvalidArgument, err.Error()).WithFilter("divided_by")
	}
	return result, nil
}

// filterModulo implements the built-in `modulo` filter. The remainder
// takes the sign of the divisor, consistent with floor division.
func filterModulo(val value.Value, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Nil(), nil
	}
	result, err := val.Modulo(args[0])
	if err != nil {
		return value.Nil(), NewError(ErrInvalidArgument, err.Error()).WithFilter("modulo")
	}
	return result, nil
}

// filterAbs implements the built-in `abs` filter.
func filterAbs(val value.Value, _ []value.Value) (value.Value, error) {
	return val.Abs(), nil
}

// filterCeil implements the built-in `ceil` filter.
func filterCeil(val value.Value, _ []value.Value) (value.Value, error) {
	return val.Ceil(), nil
}

// filterFloor implements the built-in `floor` filter.
func filterFloor(val value.Value, _ []value.Value) (value.Value, error) {
	return val.Floor(), nil
}

// filterRound implements the built-in `round` filter. Without an
// argument it rounds to an integer, half away from zero.
func filterRound(val value.Value, args []value.Value) (value.Value, error) {
	return val.Round(argOrNil(args, 0).ToInteger()), nil
}

// filterAtLeast implements the built-in `at_least` filter.
func filterAtLeast(val value.Value, args []value.Value) (value.Value, error) {
	a := val.Numeric()
	b := argOrNil(args, 0).Numeric()
	if cmp, ok := a.Compare(b); ok && cmp < 0 {
		return b, nil
	}
	return a, nil
}

// filterAtMost implements the built-in `at_most` filter.
func filterAtMost(val value.Value, args []value.Value) (value.Value, error) {
	a := val.Numeric()
	b := argOrNil(args, 0).Numeric()
	if cmp, ok := a.Compare(b); ok && cmp > 0 {
		return b, nil
	}
	return a, nil
}

// --- Collection filters ---

// filterSize implements the built-in `size` filter. Strings count
// user-perceived characters (grapheme clusters), arrays and
// dictionaries count top-level entries, everything else is 0.
func filterSize(val value.Value, _ []value.Value) (value.Value, error) {
	if s, ok := val.AsString(); ok {
		return value.FromInt(int64(uniseg.GraphemeClusterCount(s))), nil
	}
	if l, ok := val.Len(); ok {
		return value.FromInt(int64(l)), nil
	}
	return value.FromInt(0), nil
}

// filterFirst implements the built-in `first` filter. Only arrays have
// a first element; every other variant, strings included, yields nil.
func filterFirst(val value.Value, _ []value.Value) (value.Value, error) {
	if items, ok := val.AsSlice(); ok && len(items) > 0 {
		return items[0], nil
	}
	return value.Nil(), nil
}

// filterLast implements the built-in `last` filter. Only arrays have a
// last element; every other variant, strings included, yields nil.
func filterLast(val value.Value, _ []value.Value) (value.Value, error) {
	if items, ok := val.AsSlice(); ok && len(items) > 0 {
		return items[len(items)-1], nil
	}
	return value.Nil(), nil
}

// filterJoin implements the built-in `join` filter.
func filterJoin(val value.Value, args []value.Value) (value.Value, error) {
	items, ok := val.AsSlice()
	if !ok {
		return val, nil
	}
	sep := " "
	if len(args) > 0 {
		sep = args[0].DisplayString()
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.DisplayString()
	}
	return value.FromString(strings.Join(parts, sep)), nil
}

// filterReverse implements the built-in `reverse` filter.
func filterReverse(val value.Value, _ []value.Value) (value.Value, error) {
	items, ok := val.AsSlice()
	if !ok {
		return val, nil
	}
	result := make([]value.Value, len(items))
	for i, item := range items {
		result[len(items)-1-i] = item
	}
	return value.FromSlice(result), nil
}

// filterSort implements the built-in `sort` filter.
func filterSort(val value.Value, _ []value.Value) (value.Value, error) {
	items, ok := val.AsSlice()
	if !ok {
		return val, nil
	}
	result := make([]value.Value, len(items))
	copy(result, items)
	sort.SliceStable(result, func(i, j int) bool {
		cmp, ok := result[i].Compare(result[j])
		return ok && cmp < 0
	})
	return value.FromSlice(result), nil
}

// filterUniq implements the built-in `uniq` filter, keeping the first
// occurrence of each element.
func filterUniq(val value.Value, _ []value.Value) (value.Value, error) {
	items, ok := val.AsSlice()
	if !ok {
		return val, nil
	}
	result := make([]value.Value, 0, len(items))
	for _, item := range items {
		seen := false
		for _, kept := range result {
			if kept.Equal(item) {
				seen = true
				break
			}
		}
		if !seen {
			result = append(result, item)
		}
	}
	return value.FromSlice(result), nil
}

// filterCompact implements the built-in `compact` filter, dropping nil
// elements.
func filterCompact(val value.Value, _ []value.Value) (value.Value, error) {
	items, ok := val.AsSlice()
	if !ok {
		return val, nil
	}
	result := make([]value.Value, 0, len(items))
	for _, item := range items {
		if !item.IsNil() {
			result = append(result, item)
		}
	}
	return value.FromSlice(result), nil
}

// filterConcat implements the built-in `concat` filter. A non-array
// input contributes itself as a single element; the argument must be an
// array.
func filterConcat(val value.Value, args []value.Value) (value.Value, error) {
	other, ok := argOrNil(args, 0).AsSlice()
	if !ok {
		return value.Nil(), NewError(ErrInvalidArgument, "concat filter requires an array argument").WithFilter("concat")
	}
	var items []value.Value
	if s, ok := val.AsSlice(); ok {
		items = s
	} else if !val.IsNil() {
		items = []value.Value{val}
	}
	result := make([]value.Value, 0, len(items)+len(other))
	result = append(result, items...)
	result = append(result, other...)
	return value.FromSlice(result), nil
}

// filterMap implements the built-in `map` filter, projecting a key
// across an array of dictionaries. Elements without the key, and
// non-dictionary elements, project to nil.
func filterMap(val value.Value, args []value.Value) (value.Value, error) {
	items, ok := val.AsSlice()
	if !ok {
		return val, nil
	}
	key := argOrNil(args, 0).DisplayString()
	result := make([]value.Value, len(items))
	for i, item := range items {
		result[i] = value.Nil()
		if m, ok := item.AsMap(); ok {
			if projected, exists := m[key]; exists {
				result[i] = projected
			}
		}
	}
	return value.FromSlice(result), nil
}

// --- String filters ---
//
// String filters first render their input through DisplayString, so
// numbers, booleans and collections participate in their textual form.

// filterUpcase implements the built-in `upcase` filter.
func filterUpcase(val value.Value, _ []value.Value) (value.Value, error) {
	return value.FromString(strings.ToUpper(val.DisplayString())), nil
}

// filterDowncase implements the built-in `downcase` filter.
func filterDowncase(val value.Value, _ []value.Value) (value.Value, error) {
	return value.FromString(strings.ToLower(val.DisplayString())), nil
}

// filterCapitalize implements the built-in `capitalize` filter:
// uppercase first character, lowercase remainder.
func filterCapitalize(val value.Value, _ []value.Value) (value.Value, error) {
	s := val.DisplayString()
	if s == "" {
		return value.FromString(s), nil
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return value.FromString(string(runes)), nil
}

// filterAppend implements the built-in `append` filter.
func filterAppend(val value.Value, args []value.Value) (value.Value, error) {
	return value.FromString(val.DisplayString() + argOrNil(args, 0).DisplayString()), nil
}

// filterPrepend implements the built-in `prepend` filter.
func filterPrepend(val value.Value, args []value.Value) (value.Value, error) {
	return value.FromString(argOrNil(args, 0).DisplayString() + val.DisplayString()), nil
}

// filterStrip implements the built-in `strip` filter: leading and
// trailing whitespace removed, interior whitespace preserved verbatim.
// It always succeeds.
func filterStrip(val value.Value, _ []value.Value) (value.Value, error) {
	return value.FromString(strings.TrimSpace(val.DisplayString())), nil
}

// filterLstrip implements the built-in `lstrip` filter.
func filterLstrip(val value.Value, _ []value.Value) (value.Value, error) {
	return value.FromString(strings.TrimLeftFunc(val.DisplayString(), unicode.IsSpace)), nil
}

// filterRstrip implements the built-in `rstrip` filter.
func filterRstrip(val value.Value, _ []value.Value) (value.Value, error) {
	return value.FromString(strings.TrimRightFunc(val.DisplayString(), unicode.IsSpace)), nil
}

// filterStripNewlines implements the built-in `strip_newlines` filter.
func filterStripNewlines(val value.Value, _ []value.Value) (value.Value, error) {
	s := val.DisplayString()
	s = strings.ReplaceAll(s, "\r\n", "")
	s = strings.ReplaceAll(s, "\n", "")
	return value.FromString(s), nil
}

// filterReplace implements the built-in `replace` filter.
func filterReplace(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	old := argOrNil(args, 0).DisplayString()
	repl := argOrNil(args, 1).DisplayString()
	return value.FromString(strings.ReplaceAll(s, old, repl)), nil
}

// filterReplaceFirst implements the built-in `replace_first` filter.
func filterReplaceFirst(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	old := argOrNil(args, 0).DisplayString()
	repl := argOrNil(args, 1).DisplayString()
	return value.FromString(strings.Replace(s, old, repl, 1)), nil
}

// filterRemove implements the built-in `remove` filter.
func filterRemove(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	old := argOrNil(args, 0).DisplayString()
	return value.FromString(strings.ReplaceAll(s, old, "")), nil
}

// filterRemoveFirst implements the built-in `remove_first` filter.
func filterRemoveFirst(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	old := argOrNil(args, 0).DisplayString()
	return value.FromString(strings.Replace(s, old, "", 1)), nil
}

// filterSplit implements the built-in `split` filter. An empty
// separator splits into user-perceived characters; trailing empty
// fields are dropped.
func filterSplit(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	if s == "" {
		return value.FromSlice(nil), nil
	}
	sep := argOrNil(args, 0).DisplayString()

	var parts []string
	if sep == "" {
		parts = graphemes(s)
	} else {
		parts = strings.Split(s, sep)
		for len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
	}

	result := make([]value.Value, len(parts))
	for i, p := range parts {
		result[i] = value.FromString(p)
	}
	return value.FromSlice(result), nil
}

// filterTruncate implements the built-in `truncate` filter. The length
// counts grapheme clusters and includes the ellipsis.
func filterTruncate(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	length := 50
	if len(args) > 0 {
		length = int(args[0].ToInteger())
	}
	ellipsis := "..."
	if len(args) > 1 {
		ellipsis = args[1].DisplayString()
	}

	clusters := graphemes(s)
	if len(clusters) <= length {
		return value.FromString(s), nil
	}
	keep := length - uniseg.GraphemeClusterCount(ellipsis)
	if keep < 0 {
		keep = 0
	}
	if keep > len(clusters) {
		keep = len(clusters)
	}
	return value.FromString(strings.Join(clusters[:keep], "") + ellipsis), nil
}

// filterTruncateWords implements the built-in `truncate_words` filter.
func filterTruncateWords(val value.Value, args []value.Value) (value.Value, error) {
	s := val.DisplayString()
	count := 15
	if len(args) > 0 {
		count = int(args[0].ToInteger())
	}
	if count < 1 {
		count = 1
	}
	ellipsis := "..."
	if len(args) > 1 {
		ellipsis = args[1].DisplayString()
	}

	words := strings.Fields(s)
	if len(words) <= count {
		return value.FromString(s), nil
	}
	return value.FromString(strings.Join(words[:count], " ") + ellipsis), nil
}

// --- Other filters ---

// filterDefault implements the built-in `default` filter: falsy inputs
// and empty strings or arrays fall back to the first argument.
func filterDefault(val value.Value, args []value.Value) (value.Value, error) {
	if !val.IsTruthy() || isEmptyValue(val) {
		return argOrNil(args, 0), nil
	}
	return val, nil
}

func isEmptyValue(val value.Value) bool {
	if s, ok := val.AsString(); ok {
		return s == ""
	}
	if l, ok := val.Len(); ok {
		return l == 0
	}
	return false
}

// graphemes splits a string into its grapheme clusters.
func graphemes(s string) []string {
	var result []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		result = append(result, g.Str())
	}
	return result
}
