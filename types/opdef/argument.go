package opdef

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ArgumentKind tells which of the value fields of an Argument is set.
type ArgumentKind int

//go:generate go tool enumer -type=ArgumentKind -trimprefix=Arg -output=gen_argumentkind_enumer.go argument.go

const (
	ArgUnset ArgumentKind = iota
	ArgFloat
	ArgInt
	ArgString
	ArgFloats
	ArgInts
	ArgStrings
)

// Argument is a named scalar (or homogeneous list) attached to an OperatorDef, e.g. `exponent = 2.0`.
//
// Exactly one of the value fields is meaningful, the one selected by Kind.
// Arguments are always propagated by value: use Clone when storing one coming from another OperatorDef.
type Argument struct {
	Name string
	Kind ArgumentKind

	F       float32
	I       int64
	S       string
	Floats  []float32
	Ints    []int64
	Strings []string
}

// FloatArg creates a floating-point argument.
func FloatArg(name string, value float32) Argument {
	return Argument{Name: name, Kind: ArgFloat, F: value}
}

// IntArg creates an integer argument.
func IntArg(name string, value int64) Argument {
	return Argument{Name: name, Kind: ArgInt, I: value}
}

// StringArg creates a string argument.
func StringArg(name, value string) Argument {
	return Argument{Name: name, Kind: ArgString, S: value}
}

// FloatsArg creates a list of floats argument.
func FloatsArg(name string, values ...float32) Argument {
	return Argument{Name: name, Kind: ArgFloats, Floats: slices.Clone(values)}
}

// IntsArg creates a list of integers argument.
func IntsArg(name string, values ...int64) Argument {
	return Argument{Name: name, Kind: ArgInts, Ints: slices.Clone(values)}
}

// StringsArg creates a list of strings argument.
func StringsArg(name string, values ...string) Argument {
	return Argument{Name: name, Kind: ArgStrings, Strings: slices.Clone(values)}
}

// Clone returns a deep copy of the argument.
func (a Argument) Clone() Argument {
	a.Floats = slices.Clone(a.Floats)
	a.Ints = slices.Clone(a.Ints)
	a.Strings = slices.Clone(a.Strings)
	return a
}

// Equal compares name, kind and the value selected by kind.
// Float values are compared bitwise, so NaN arguments are equal to themselves.
func (a Argument) Equal(b Argument) bool {
	if a.Name != b.Name || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ArgFloat:
		return math.Float32bits(a.F) == math.Float32bits(b.F)
	case ArgInt:
		return a.I == b.I
	case ArgString:
		return a.S == b.S
	case ArgFloats:
		return slices.EqualFunc(a.Floats, b.Floats, func(x, y float32) bool {
			return math.Float32bits(x) == math.Float32bits(y)
		})
	case ArgInts:
		return slices.Equal(a.Ints, b.Ints)
	case ArgStrings:
		return slices.Equal(a.Strings, b.Strings)
	}
	return true
}

// String implements fmt.Stringer, e.g. "exponent = 2.0 : f32".
func (a Argument) String() string {
	return fmt.Sprintf("%s = %s", a.Name, a.literal())
}

// literal renders the value of the argument.
func (a Argument) literal() string {
	switch a.Kind {
	case ArgFloat:
		return floatLiteral(a.F) + " : f32"
	case ArgInt:
		return fmt.Sprintf("%d : i64", a.I)
	case ArgString:
		return fmt.Sprintf("%q", a.S)
	case ArgFloats:
		parts := make([]string, len(a.Floats))
		for i, f := range a.Floats {
			parts[i] = floatLiteral(f)
		}
		return "[" + strings.Join(parts, ", ") + "] : f32"
	case ArgInts:
		parts := make([]string, len(a.Ints))
		for i, v := range a.Ints {
			parts[i] = fmt.Sprintf("%d", v)
		}
		return "[" + strings.Join(parts, ", ") + "] : i64"
	case ArgStrings:
		parts := make([]string, len(a.Strings))
		for i, s := range a.Strings {
			parts[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<unset>"
	}
}

// floatLiteral makes sure integer values still carry a decimal point.
func floatLiteral(f float32) string {
	f64 := float64(f)
	if !math.IsInf(f64, 0) && f64 == math.Trunc(f64) {
		return fmt.Sprintf("%.1f", f64)
	}
	return fmt.Sprintf("%g", f)
}
