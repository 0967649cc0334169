// Package droplet provides the value and filter evaluation core of a
// Liquid-style template engine.
//
// Droplet is the layer a render loop talks to: the expression evaluator
// produces a value.Value, the render loop looks up a filter by name and
// applies it to the input plus an argument list, and gets a new Value
// or an error back. Template tokenization, parsing, tag execution and
// the render loop itself live outside this package.
//
// # Quick Start
//
//	env := droplet.NewEnvironment()
//	result, err := env.ApplyFilter("divided_by",
//	    value.FromInt(9),
//	    []value.Value{value.FromInt(2)},
//	)
//	// result is value.FromInt(4)
//
// # Custom Filters
//
// Filters transform an input value and zero or more arguments into a
// new value:
//
//	env.AddFilter("shout", func(val value.Value, args []value.Value) (value.Value, error) {
//	    return value.FromString(strings.ToUpper(val.DisplayString()) + "!"), nil
//	})
//
// Register filters while setting up the environment; the filter table
// is read-only once rendering starts, which is what makes concurrent
// ApplyFilter calls safe without locking.
//
// # Error Handling
//
// Filter errors are *droplet.Error values with a closed set of kinds:
// ErrInvalidArgument (for example a divisor that coerces to zero) and
// ErrUnknownFilter. Errors are returned to the caller uninterpreted;
// nothing in this package logs, retries or substitutes defaults.
//
// # Value System
//
// The value subpackage defines the closed runtime type every filter
// consumes and produces, together with its total coercion rules. See
// that package's documentation for the type and truthiness rules.
package droplet
