// Package core provides the rental ledger domain types.
//
// This file contains the lenient amount parser used by the record form.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts form input into an amount. Input that does not parse
// as a finite decimal yields 0 and ok=false; callers store the 0.
//
// Only a dot separates decimals:
//
//	ParseAmount("12.5")  -> 12.5, true
//	ParseAmount("12,5")  -> 0, false
//	ParseAmount("abc")   -> 0, false
//	ParseAmount("NaN")   -> 0, false
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
