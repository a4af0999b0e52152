package fundbook

import (
	"encoding/json"
	"testing"
)

func TestCents_String(t *testing.T) {
	tests := []struct {
		c    Cents
		want string
	}{
		{c: 3473, want: "$34.73"},
		{c: 123456, want: "$1,234.56"},
		{c: -37735, want: "-$377.35"},
		{c: 0, want: "$0.00"},
	}
	for _, tc := range tests {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("Cents(%d).String() = %q, want %q", tc.c, got, tc.want)
		}
	}
}

func TestUnits_String(t *testing.T) {
	tests := []struct {
		u    Units
		want string
	}{
		{u: 38610, want: "3.8610"},
		{u: -3773580, want: "-377.3580"},
		{u: 1, want: "0.0001"},
	}
	for _, tc := range tests {
		if got := tc.u.String(); got != tc.want {
			t.Errorf("Units(%d).String() = %q, want %q", tc.u, got, tc.want)
		}
	}
}

func TestPrice_JSONRoundTrip(t *testing.T) {
	p := NewPrice(89950)
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "8.995" {
		t.Errorf("marshal = %s, want 8.995", data)
	}
	var back Price
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("round trip = %s, want %s", back, p)
	}
}
