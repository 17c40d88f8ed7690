package middleware

import "testing"

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc.def.ghi", "abc.def.ghi", true},
		{`Bearer "abc.def.ghi"`, "abc.def.ghi", true},
		{"Bearer abc.def.ghi, extra", "abc.def.ghi", true},
		{"Bearer abc.def.ghi trailing", "abc.def.ghi", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractBearerToken(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractBearerToken(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
