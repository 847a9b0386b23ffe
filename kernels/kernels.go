// Package kernels is the element-wise math facade of the CPU host: Log, Sqr, Pow, Scale, Mul and Div
// over contiguous buffers.
//
// Every kernel takes the number of elements n, the source buffer(s), the destination buffer and a
// *CPUContext. The destination may be the very same buffer as a source (in-place), but it must not
// partially overlap with it. In-place calls produce bit-identical results to out-of-place ones.
//
// float32 buffers use the vectorized routines of gorgonia.org/vecf32 and github.com/chewxy/math32,
// other float types use a generic loop over the standard library.
//
// Numeric domain errors (log of a non-positive number, a negative base to a non-integer power,
// division by zero) are not errors: they produce NaN or Inf.
package kernels

import (
	"fmt"

	"github.com/pkg/errors"
)

// Float is the set of element types the kernels accept.
type Float interface {
	~float32 | ~float64
}

// CPUContext is the device context of the CPU host.
//
// It holds no mutable state, so kernels can be invoked concurrently with the same context, as long as
// they work on disjoint buffers.
type CPUContext struct {
	deviceID int
}

// NewCPUContext returns the context for CPU device 0.
func NewCPUContext() *CPUContext {
	return &CPUContext{}
}

// DeviceID of the context, used for diagnostics.
func (ctx *CPUContext) DeviceID() int { return ctx.deviceID }

// String implements fmt.Stringer.
func (ctx *CPUContext) String() string {
	return fmt.Sprintf("CPU:%d", ctx.deviceID)
}

// checkBuffers validates the context and that all buffers hold at least n elements.
func checkBuffers[T Float](kernel string, ctx *CPUContext, n int, buffers ...[]T) error {
	if ctx == nil {
		return errors.Errorf("kernel %s: nil device context", kernel)
	}
	if n < 0 {
		return errors.Errorf("kernel %s (%s): invalid number of elements %d", kernel, ctx, n)
	}
	for i, buf := range buffers {
		if len(buf) < n {
			return errors.Errorf("kernel %s (%s): buffer #%d has %d elements, but %d are required",
				kernel, ctx, i, len(buf), n)
		}
	}
	return nil
}

// sameBuffer returns whether a and b start at the same address (in-place operation).
func sameBuffer[T Float](a, b []T) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}
