package utils

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
)

func TestNormalizeIdentifier(t *testing.T) {
	for _, tc := range []struct{ in, want string }{
		{"", ""},
		{"x", "x"},
		{"scope/x_grad", "scope/x_grad"},
		{"0x", "_0x"},
		{"my net!", "my_net_"},
	} {
		if got := NormalizeIdentifier(tc.in); got != tc.want {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDTypeShortName(t *testing.T) {
	if got := DTypeShortName(dtypes.Float32); got != "f32" {
		t.Errorf("DTypeShortName(Float32) = %q, want \"f32\"", got)
	}
	if got := DTypeShortName(dtypes.Int64); got != "i64" {
		t.Errorf("DTypeShortName(Int64) = %q, want \"i64\"", got)
	}
}
