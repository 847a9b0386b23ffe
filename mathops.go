// Package mathops builds and runs nets of element-wise math operators (Log, Sqr, Pow and the host
// operators Mul, Div and Scale) and their symbolic gradients.
//
// Among its features:
//
//   - A Builder that creates nets of OperatorDefs, verified against the registered operator schemas.
//   - Symbolic differentiation: Builder.AddGradientOperators appends the operators that compute the
//     gradients, emitted by the gradient makers registered for each forward operator.
//   - Text rendering of nets (Builder.Write, Builder.Build).
//   - Execution on the CPU host (Builder.Run), see package operators.
//
// Example:
//
//	b := mathops.New("example")
//	x := must.M1(b.Input("x"))
//	y := must.M1(b.Pow(x, 3))
//	must.M(b.Output(y))
//	grads := must.M1(b.AddGradientOperators(map[string]string{y: "dy"}))
//	// grads[x] == "x_grad"
package mathops

import "github.com/gomlx/mathops/internal/utils"

// NormalizeIdentifier converts the name of an identifier (net name, tensor or operator instance name)
// to a valid one: only letters, digits, underscores, '/' and '.' are allowed.
//
// Invalid characters are replaced with underscores.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	return utils.NormalizeIdentifier(name)
}
