package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"100", 100, true},
		{"12.5", 12.5, true},
		{"12,5", 0, false},
		{" 7.25 ", 7.25, true},
		{"-3", -3, true},
		{"1e2", 100, true},
		{"abc", 0, false},
		{"", 0, false},
		{"1,2,3", 0, false},
		{"1.000,50", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok || got != tc.out {
			t.Fatalf("%q expected (%v, %v), got (%v, %v)", tc.in, tc.out, tc.ok, got, ok)
		}
	}
}
