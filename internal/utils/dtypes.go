package utils

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
)

// DTypeShortName returns the compact name used when rendering shapes and arguments, e.g. "f32".
func DTypeShortName(dtype dtypes.DType) string {
	switch dtype {
	case dtypes.Float64:
		return "f64"
	case dtypes.Float32:
		return "f32"
	case dtypes.Float16:
		return "f16"
	case dtypes.BFloat16:
		return "bf16"
	case dtypes.Int64:
		return "i64"
	case dtypes.Int32:
		return "i32"
	case dtypes.Int16:
		return "i16"
	case dtypes.Int8:
		return "i8"
	case dtypes.Uint64:
		return "u64"
	case dtypes.Uint32:
		return "u32"
	case dtypes.Uint16:
		return "u16"
	case dtypes.Uint8:
		return "u8"
	case dtypes.Bool:
		return "bool"
	default:
		return fmt.Sprintf("unknown<%s>", dtype.String())
	}
}
