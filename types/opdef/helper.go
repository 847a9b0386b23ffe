package opdef

import "slices"

// ArgumentHelper reads typed arguments from an OperatorDef, falling back to caller provided defaults.
//
// It is total: an absent argument, or one of an unrelated kind, yields the default. Malformed
// definitions are rejected earlier by the schema layer (see schema.Schema.Verify).
type ArgumentHelper struct {
	args map[string]Argument
}

// NewArgumentHelper indexes the arguments of def. If a name is repeated, the first one wins.
func NewArgumentHelper(def *OperatorDef) *ArgumentHelper {
	h := &ArgumentHelper{args: make(map[string]Argument, len(def.Args))}
	for _, arg := range def.Args {
		if _, found := h.args[arg.Name]; !found {
			h.args[arg.Name] = arg
		}
	}
	return h
}

// Has returns whether the argument is present.
func (h *ArgumentHelper) Has(name string) bool {
	_, found := h.args[name]
	return found
}

// Float returns the floating-point argument. Integer arguments are converted.
func (h *ArgumentHelper) Float(name string, defaultValue float32) float32 {
	arg, found := h.args[name]
	if !found {
		return defaultValue
	}
	switch arg.Kind {
	case ArgFloat:
		return arg.F
	case ArgInt:
		return float32(arg.I)
	}
	return defaultValue
}

// Int returns the integer argument.
func (h *ArgumentHelper) Int(name string, defaultValue int64) int64 {
	arg, found := h.args[name]
	if !found || arg.Kind != ArgInt {
		return defaultValue
	}
	return arg.I
}

// String returns the string argument.
func (h *ArgumentHelper) String(name, defaultValue string) string {
	arg, found := h.args[name]
	if !found || arg.Kind != ArgString {
		return defaultValue
	}
	return arg.S
}

// Floats returns a copy of the list of floats argument, or nil.
func (h *ArgumentHelper) Floats(name string) []float32 {
	arg, found := h.args[name]
	if !found || arg.Kind != ArgFloats {
		return nil
	}
	return slices.Clone(arg.Floats)
}

// Ints returns a copy of the list of integers argument, or nil.
func (h *ArgumentHelper) Ints(name string) []int64 {
	arg, found := h.args[name]
	if !found || arg.Kind != ArgInts {
		return nil
	}
	return slices.Clone(arg.Ints)
}

// ScalarArgument lists the Go types GetSingleArgument can read.
type ScalarArgument interface {
	float32 | int64 | string
}

// GetSingleArgument reads the scalar argument name from def, or returns defaultValue if it is absent.
//
// Example:
//
//	exponent := opdef.GetSingleArgument(def, "exponent", float32(0))
func GetSingleArgument[T ScalarArgument](def *OperatorDef, name string, defaultValue T) T {
	h := NewArgumentHelper(def)
	var result any
	switch v := any(defaultValue).(type) {
	case float32:
		result = h.Float(name, v)
	case int64:
		result = h.Int(name, v)
	case string:
		result = h.String(name, v)
	}
	return result.(T)
}
