package textutil

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "payment   terms", "payment terms"},
		{"collapses newlines and tabs", "clause\n\t7.2\n applies", "clause 7.2 applies"},
		{"trims edges", "  net 30  ", "net 30"},
		{"preserves punctuation", "Section 4.1: Fees, charges; penalties.", "Section 4.1: Fees, charges; penalties."},
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
