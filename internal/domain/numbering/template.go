// Package numbering provides document number generation: pattern rendering,
// atomic series counters and the collision-resolving allocator used for
// high-contention series.
package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ordina/internal/core/apperror"
)

// Placeholders understood by numbering patterns:
//
//	{{YYYY}}  4-digit year
//	{{YY}}    2-digit year
//	{{MM}}    zero-padded month
//	{{SEQ:n}} running sequence, zero-padded to width n
//
// A pattern must contain exactly one {{SEQ:n}} placeholder with n >= 1.
var seqPlaceholder = regexp.MustCompile(`\{\{SEQ:(\d+)\}\}`)

// seqQuoted matches the SEQ placeholder after regexp.QuoteMeta escaping.
var seqQuoted = regexp.MustCompile(`\\\{\\\{SEQ:(\d+)\\\}\\\}`)

// Template is a parsed numbering pattern for one tenant/series pair.
// Owned by tenant configuration; read-only here.
type Template struct {
	pattern  string
	seqWidth int
	shape    *regexp.Regexp
}

// ParseTemplate validates and parses a numbering pattern.
func ParseTemplate(pattern string) (*Template, error) {
	matches := seqPlaceholder.FindAllStringSubmatch(pattern, -1)
	if len(matches) == 0 {
		return nil, apperror.NewValidation("numbering pattern must contain a {{SEQ:n}} placeholder").
			WithDetail("pattern", pattern)
	}
	if len(matches) > 1 {
		return nil, apperror.NewValidation("numbering pattern must contain exactly one {{SEQ:n}} placeholder").
			WithDetail("pattern", pattern)
	}

	width, err := strconv.Atoi(matches[0][1])
	if err != nil || width < 1 {
		return nil, apperror.NewValidation("sequence pad width must be a positive integer").
			WithDetail("pattern", pattern)
	}

	return &Template{pattern: pattern, seqWidth: width, shape: compileShape(pattern, width)}, nil
}

// compileShape turns a pattern into a regexp accepting any number the
// pattern could have rendered: date placeholders become fixed-width digit
// runs and the sequence accepts its pad width or wider.
func compileShape(pattern string, seqWidth int) *regexp.Regexp {
	src := regexp.QuoteMeta(pattern)
	src = strings.ReplaceAll(src, regexp.QuoteMeta("{{YYYY}}"), `\d{4}`)
	src = strings.ReplaceAll(src, regexp.QuoteMeta("{{YY}}"), `\d{2}`)
	src = strings.ReplaceAll(src, regexp.QuoteMeta("{{MM}}"), `\d{2}`)
	src = seqQuoted.ReplaceAllString(src, fmt.Sprintf(`\d{%d,}`, seqWidth))
	return regexp.MustCompile("^" + src + "$")
}

// MustParseTemplate parses a pattern, panicking on error.
// Use only for built-in defaults and tests.
func MustParseTemplate(pattern string) *Template {
	t, err := ParseTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// Pattern returns the raw pattern string.
func (t *Template) Pattern() string { return t.pattern }

// SeqWidth returns the zero-pad width of the sequence placeholder.
func (t *Template) SeqWidth() int { return t.seqWidth }

// Matches reports whether number has the shape this pattern renders.
// Date values are not checked against a calendar, only their digit width.
func (t *Template) Matches(number string) bool {
	return t.shape.MatchString(number)
}

// Render produces the concrete number for a sequence value.
// Pure function; the sequence is not truncated when it outgrows the
// pad width, the rendered digits simply widen.
func (t *Template) Render(year int, month int, seq int64) string {
	out := t.pattern
	out = strings.ReplaceAll(out, "{{YYYY}}", fmt.Sprintf("%04d", year))
	out = strings.ReplaceAll(out, "{{YY}}", fmt.Sprintf("%02d", year%100))
	out = strings.ReplaceAll(out, "{{MM}}", fmt.Sprintf("%02d", month))
	out = seqPlaceholder.ReplaceAllString(out, fmt.Sprintf("%0*d", t.seqWidth, seq))
	return out
}
