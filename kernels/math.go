package kernels

import (
	"math"

	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// Log computes y[i] = ln(x[i]) for i < n.
func Log[T Float](n int, x, y []T, ctx *CPUContext) error {
	if err := checkBuffers("Log", ctx, n, x, y); err != nil {
		return err
	}
	x, y = x[:n], y[:n]
	if x32, ok := any(x).([]float32); ok {
		y32 := any(y).([]float32)
		for i, v := range x32 {
			y32[i] = math32.Log(v)
		}
		return nil
	}
	for i, v := range x {
		y[i] = T(math.Log(float64(v)))
	}
	return nil
}

// Sqr computes y[i] = x[i]*x[i] for i < n.
func Sqr[T Float](n int, x, y []T, ctx *CPUContext) error {
	if err := checkBuffers("Sqr", ctx, n, x, y); err != nil {
		return err
	}
	x, y = x[:n], y[:n]
	if x32, ok := any(x).([]float32); ok {
		y32 := any(y).([]float32)
		if !sameBuffer(x32, y32) {
			copy(y32, x32)
		}
		vecf32.Mul(y32, y32)
		return nil
	}
	for i, v := range x {
		y[i] = v * v
	}
	return nil
}

// Pow computes y[i] = x[i]^exponent for i < n.
func Pow[T Float](n int, x []T, exponent T, y []T, ctx *CPUContext) error {
	if err := checkBuffers("Pow", ctx, n, x, y); err != nil {
		return err
	}
	x, y = x[:n], y[:n]
	if x32, ok := any(x).([]float32); ok {
		y32 := any(y).([]float32)
		if !sameBuffer(x32, y32) {
			copy(y32, x32)
		}
		vecf32.PowOf(y32, float32(exponent))
		return nil
	}
	e := float64(exponent)
	for i, v := range x {
		y[i] = T(math.Pow(float64(v), e))
	}
	return nil
}

// Scale computes y[i] = scale*x[i] for i < n.
func Scale[T Float](n int, scale T, x, y []T, ctx *CPUContext) error {
	if err := checkBuffers("Scale", ctx, n, x, y); err != nil {
		return err
	}
	x, y = x[:n], y[:n]
	if x32, ok := any(x).([]float32); ok {
		y32 := any(y).([]float32)
		if !sameBuffer(x32, y32) {
			copy(y32, x32)
		}
		vecf32.Scale(y32, float32(scale))
		return nil
	}
	for i, v := range x {
		y[i] = scale * v
	}
	return nil
}

// Mul computes y[i] = a[i]*b[i] for i < n. y may be either a or b.
func Mul[T Float](n int, a, b, y []T, ctx *CPUContext) error {
	if err := checkBuffers("Mul", ctx, n, a, b, y); err != nil {
		return err
	}
	a, b, y = a[:n], b[:n], y[:n]
	if a32, ok := any(a).([]float32); ok {
		b32, y32 := any(b).([]float32), any(y).([]float32)
		switch {
		case sameBuffer(y32, a32):
			vecf32.Mul(y32, b32)
		case sameBuffer(y32, b32):
			vecf32.Mul(y32, a32)
		default:
			copy(y32, a32)
			vecf32.Mul(y32, b32)
		}
		return nil
	}
	for i := range y {
		y[i] = a[i] * b[i]
	}
	return nil
}

// Div computes y[i] = a[i]/b[i] for i < n. y may be either a or b.
func Div[T Float](n int, a, b, y []T, ctx *CPUContext) error {
	if err := checkBuffers("Div", ctx, n, a, b, y); err != nil {
		return err
	}
	a, b, y = a[:n], b[:n], y[:n]
	if a32, ok := any(a).([]float32); ok && !sameBuffer(b, y) {
		b32, y32 := any(b).([]float32), any(y).([]float32)
		if !sameBuffer(y32, a32) {
			copy(y32, a32)
		}
		vecf32.Div(y32, b32)
		return nil
	}
	for i := range y {
		y[i] = a[i] / b[i]
	}
	return nil
}
