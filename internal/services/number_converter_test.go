package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "ZERO DOLLARS AND 00/100"},
		{5, "FIVE DOLLARS AND 00/100"},
		{17, "SEVENTEEN DOLLARS AND 00/100"},
		{42, "FORTY-TWO DOLLARS AND 00/100"},
		{100, "ONE HUNDRED DOLLARS AND 00/100"},
		{115, "ONE HUNDRED FIFTEEN DOLLARS AND 00/100"},
		{1500.50, "ONE THOUSAND FIVE HUNDRED DOLLARS AND 50/100"},
		{2850.75, "TWO THOUSAND EIGHT HUNDRED FIFTY DOLLARS AND 75/100"},
		{1000000, "ONE MILLION DOLLARS AND 00/100"},
		{1234567.89, "ONE MILLION TWO HUNDRED THIRTY-FOUR THOUSAND FIVE HUNDRED SIXTY-SEVEN DOLLARS AND 89/100"},
		{999.99, "NINE HUNDRED NINETY-NINE DOLLARS AND 99/100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AmountToWords(tt.amount), "amount %v", tt.amount)
	}
}
