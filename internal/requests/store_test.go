package requests

import "testing"

func TestValidateRxNumber(t *testing.T) {
	cases := []struct {
		rx string
		ok bool
	}{
		{"2468012", true},
		{"4000000", true},
		{"6999999", true},
		{"8246801", true},
		{"1234567", false}, // first digit not in 2468
		{"123456", false},  // 6 digits
		{"24680123", false},
		{"24680aa", false}, // non-digit
		{"", false},
		{" 2468012 ", true}, // whitespace trimmed
	}

	for _, tc := range cases {
		err := ValidateRxNumber(tc.rx)
		if tc.ok && err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.rx, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected validation error", tc.rx)
		}
	}
}

func TestNewRequestID(t *testing.T) {
	a, b := newRequestID(), newRequestID()
	if a == b {
		t.Fatal("request ids must be unique")
	}
	if len(a) != len("RX-")+8 {
		t.Fatalf("unexpected id shape: %q", a)
	}
}
