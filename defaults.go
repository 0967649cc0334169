package droplet

func registerDefaultFilters(env *Environment) {
	// Arithmetic filters
	env.AddFilter("plus", filterPlus)
	env.AddFilter("minus", filterMinus)
	env.AddFilter("times", filterTimes)
	env.AddFilter("divided_by", filterDividedBy)
	env.AddFilter("modulo", filterModulo)
	env.AddFilter("abs", filterAbs)
	env.AddFilter("ceil", filterCeil)
	env.AddFilter("floor", filterFloor)
	env.AddFilter("round", filterRound)
	env.AddFilter("at_least", filterAtLeast)
	env.AddFilter("at_most", filterAtMost)

	// Collection filters
	env.AddFilter("size", filterSize)
	env.AddFilter("first", filterFirst)
	env.AddFilter("last", filterLast)
	env.AddFilter("join", filterJoin)
	env.AddFilter("reverse", filterReverse)
	env.AddFilter("sort", filterSort)
	env.AddFilter("uniq", filterUniq)
	env.AddFilter("compact", filterCompact)
	env.AddFilter("concat", filterConcat)
	env.AddFilter("map", filterMap)

	// String filters
	env.AddFilter("upcase", filterUpcase)
	env.AddFilter("downcase", filterDowncase)
	env.AddFilter("capitalize", filterCapitalize)
	env.AddFilter("append", filterAppend)
	env.AddFilter("prepend", filterPrepend)
	env.AddFilter("strip", filterStrip)
	env.AddFilter("lstrip", filterLstrip)
	env.AddFilter("rstrip", filterRstrip)
	env.AddFilter("strip_newlines", filterStripNewlines)
	env.AddFilter("replace", filterReplace)
	env.AddFilter("replace_first", filterReplaceFirst)
	env.AddFilter("remove", filterRemove)
	env.AddFilter("remove_first", filterRemoveFirst)
	env.AddFilter("split", filterSplit)
	env.AddFilter("truncate", filterTruncate)
	env.AddFilter("truncatewords", filterTruncateWords)
	env.AddFilter("truncate_words", filterTruncateWords) // alias

	// Other filters
	env.AddFilter("default", filterDefault)
}
