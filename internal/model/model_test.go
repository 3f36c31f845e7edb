package model

import "testing"

func TestParsePriority(t *testing.T) {
	cases := []struct {
		in   string
		want *Priority
		ok   bool
	}{
		{"P1", ptr(PriorityP1), true},
		{"p3", ptr(PriorityP3), true},
		{" P5 ", ptr(PriorityP5), true},
		{"", nil, true},
		{"none", nil, true},
		{"P0", nil, false},
		{"P6", nil, false},
		{"high", nil, false},
	}
	for _, c := range cases {
		got, err := ParsePriority(c.in)
		if c.ok != (err == nil) {
			t.Fatalf("ParsePriority(%q) err = %v", c.in, err)
		}
		if (got == nil) != (c.want == nil) || (got != nil && *got != *c.want) {
			t.Fatalf("ParsePriority(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseEffort(t *testing.T) {
	cases := []struct {
		in   string
		want *Effort
		ok   bool
	}{
		{"E2", ptr(EffortE2), true},
		{"e4", ptr(EffortE4), true},
		{"", nil, true},
		{"NONE", nil, true},
		{"E9", nil, false},
		{"medium", nil, false},
	}
	for _, c := range cases {
		got, err := ParseEffort(c.in)
		if c.ok != (err == nil) {
			t.Fatalf("ParseEffort(%q) err = %v", c.in, err)
		}
		if (got == nil) != (c.want == nil) || (got != nil && *got != *c.want) {
			t.Fatalf("ParseEffort(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func ptr[T any](v T) *T { return &v }
