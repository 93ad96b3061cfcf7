package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	const tb = int64(1) << 40

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1 kB"},
		{1536, "1.5 kB"},
		{2048, "2 kB"},
		{1024 * 1024, "1 MB"},
		{12939428, "12.34 MB"},
		{3 * (1 << 30), "3 GB"},
		{tb, "1 TB"},
		{5*tb + tb/4, "5.25 TB"},
		{1024 * tb, "1024 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
}

func TestFormatSize_NeverPastTB(t *testing.T) {
	for n := int64(1) << 40; n > 0 && n < 1<<62; n <<= 1 {
		got := FormatSize(n)
		assert.Regexp(t, ` TB$`, got)
	}
}
