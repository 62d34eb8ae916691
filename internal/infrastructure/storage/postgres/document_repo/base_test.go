package document_repo

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PAFO-2025-", "PAFO-2025-"},
		{"100%_", `100\%\_`},
		{`a\b`, `a\\b`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
