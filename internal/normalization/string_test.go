package normalization

import "testing"

func TestParseInputString(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "  Alice@Example.COM ", want: "alice@example.com"},
		{in: "already-lower", want: "already-lower"},
		{in: "\tMiXeD Case\n", want: "mixed case"},
		{in: "", want: ""},
	}
	for _, tc := range testCases {
		if got := ParseInputString(tc.in); got != tc.want {
			t.Errorf("ParseInputString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrimInputString(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "  UserName ", want: "UserName"},
		{in: "kept-Case", want: "kept-Case"},
		{in: "   ", want: ""},
	}
	for _, tc := range testCases {
		if got := TrimInputString(tc.in); got != tc.want {
			t.Errorf("TrimInputString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
