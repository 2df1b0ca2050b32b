package services

import (
	"fmt"
	"math"
	"strings"
)

// AmountToWords converts a dollar amount to words for the lease agreement,
// e.g. 1500.50 -> "ONE THOUSAND FIVE HUNDRED DOLLARS AND 50/100".
func AmountToWords(amount float64) string {
	integerPart := int64(amount)
	decimalPart := int64(math.Round((amount - float64(integerPart)) * 100))

	words := convertNumberToWords(integerPart)

	return fmt.Sprintf("%s DOLLARS AND %02d/100", strings.ToUpper(words), decimalPart)
}

var ones = []string{"zero", "one", "two", "three", "four", "five", "six",
	"seven", "eight", "nine", "ten", "eleven", "twelve", "thirteen",
	"fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}

var tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty",
	"seventy", "eighty", "ninety"}

func convertNumberToWords(n int64) string {
	if n == 0 {
		return "zero"
	}

	if n < 0 {
		return "minus " + convertNumberToWords(-n)
	}

	if n < 20 {
		return ones[n]
	}

	if n < 100 {
		word := tens[n/10]
		if n%10 > 0 {
			word += "-" + ones[n%10]
		}
		return word
	}

	if n < 1000 {
		word := ones[n/100] + " hundred"
		if n%100 > 0 {
			word += " " + convertNumberToWords(n%100)
		}
		return word
	}

	for _, scale := range []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "billion"},
		{1_000_000, "million"},
		{1_000, "thousand"},
	} {
		if n >= scale.value {
			word := convertNumberToWords(n/scale.value) + " " + scale.name
			if n%scale.value > 0 {
				word += " " + convertNumberToWords(n%scale.value)
			}
			return word
		}
	}

	return ""
}
