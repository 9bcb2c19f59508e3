package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower case", in: "tcs", want: "TCS"},
		{name: "padded", in: "  infy ", want: "INFY"},
		{name: "already normalized", in: "HDFC", want: "HDFC"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTicker(tt.in))
		})
	}
}

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"BUY", "SELL"}, "SELL"))
	assert.False(t, ContainsString([]string{"BUY", "SELL"}, "HOLD"))
	assert.False(t, ContainsString(nil, "BUY"))
}

func TestToPointer(t *testing.T) {
	p := ToPointer(true)
	assert.True(t, *p)
}
