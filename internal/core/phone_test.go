package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local with leading zero", "0712345678", "254712345678"},
		{"international with plus", "+254712345678", "254712345678"},
		{"international without plus", "254712345678", "254712345678"},
		{"bare subscriber number", "712345678", "254712345678"},
		{"spaces are stripped", "0712 345 678", "254712345678"},
		{"surrounding whitespace", "  +254 712 345 678\t", "254712345678"},
		{"safaricom 01 range", "0112345678", "254112345678"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizePhone(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 12)
		})
	}
}
