package numbering

import (
	"testing"
)

func TestTemplateRender(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		year    int
		month   int
		seq     int64
		want    string
	}{
		{
			name:    "basic year and padded sequence",
			pattern: "FAC-{{YYYY}}-{{SEQ:5}}",
			year:    2025, month: 3, seq: 7,
			want: "FAC-2025-00007",
		},
		{
			name:    "sequence outgrows pad width without truncation",
			pattern: "PAFO-{{YYYY}}-{{SEQ:5}}",
			year:    2025, month: 3, seq: 123456,
			want: "PAFO-2025-123456",
		},
		{
			name:    "two digit year and month",
			pattern: "INV{{YY}}{{MM}}-{{SEQ:4}}",
			year:    2025, month: 9, seq: 12,
			want: "INV2509-0012",
		},
		{
			name:    "literal only around sequence",
			pattern: "N{{SEQ:1}}",
			year:    2025, month: 1, seq: 3,
			want: "N3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := ParseTemplate(tt.pattern)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.pattern, err)
			}

			got := tpl.Render(tt.year, tt.month, tt.seq)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}

			// rendering is deterministic
			if again := tpl.Render(tt.year, tt.month, tt.seq); again != got {
				t.Errorf("second Render() = %q, want %q", again, got)
			}
		})
	}
}

func TestTemplateMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		number  string
		want    bool
	}{
		{"rendered number matches", "PAFO-{{YYYY}}-{{SEQ:5}}", "PAFO-2025-00007", true},
		{"sequence wider than pad matches", "PAFO-{{YYYY}}-{{SEQ:5}}", "PAFO-2025-123456", true},
		{"other year still matches", "PAFO-{{YYYY}}-{{SEQ:5}}", "PAFO-1999-00001", true},
		{"wrong prefix", "PAFO-{{YYYY}}-{{SEQ:5}}", "DEV-2025-00007", false},
		{"sequence narrower than pad", "PAFO-{{YYYY}}-{{SEQ:5}}", "PAFO-2025-007", false},
		{"free-form text", "PAFO-{{YYYY}}-{{SEQ:5}}", "whatever", false},
		{"trailing garbage", "PAFO-{{YYYY}}-{{SEQ:5}}", "PAFO-2025-00007x", false},
		{"two digit year and month", "INV{{YY}}{{MM}}-{{SEQ:4}}", "INV2509-0012", true},
		{"four digit year against two digit slot", "INV{{YY}}{{MM}}-{{SEQ:4}}", "INV202509-0012", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := ParseTemplate(tt.pattern)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.pattern, err)
			}
			if got := tpl.Matches(tt.number); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func TestParseTemplateRejectsMalformed(t *testing.T) {
	bad := []string{
		"FAC-{{YYYY}}",                    // no sequence placeholder
		"A-{{SEQ:3}}-B-{{SEQ:3}}",         // two sequence placeholders
		"A-{{SEQ:0}}",                     // zero pad width
		"{{SEQ:x}}",                       // non-numeric width never matches
	}

	for _, pattern := range bad {
		if _, err := ParseTemplate(pattern); err == nil {
			t.Errorf("ParseTemplate(%q) accepted malformed pattern", pattern)
		}
	}
}
