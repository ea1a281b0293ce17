package spec

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Name sanitization for generated Python code. Every identifier that
// appears in a rendered artifact passes through one of these functions;
// user text can populate data fields but never alter code structure.

var (
	nonIdentRun   = regexp.MustCompile(`[^0-9a-zA-Z_]+`)
	nonAlnumRun   = regexp.MustCompile(`[^0-9a-zA-Z]+`)
	underscoreRun = regexp.MustCompile(`_+`)

	titleCaser = cases.Title(language.Und, cases.NoLower)
)

// Identifier converts s to a lower-case Python identifier (module and
// variable names). Returns "" when nothing survives sanitization; callers
// must treat that as a rejection, never substitute a guessed name.
func Identifier(s string) string {
	s = norm.NFKC.String(s)
	s = nonIdentRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return ""
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return strings.ToLower(s)
}

// ClassName converts s to a CamelCase Python class name. Returns "" when
// nothing survives sanitization.
func ClassName(s string) string {
	s = norm.NFKC.String(s)
	s = nonAlnumRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	for i, w := range words {
		if w == strings.ToLower(w) || w == strings.ToUpper(w) {
			// Single-cased words get conventional title casing.
			words[i] = titleCaser.String(strings.ToLower(w))
		} else {
			// Mixed-case words like "AcSystem" keep their interior casing.
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	out := strings.Join(words, "")
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// EscapePyString escapes free text for embedding inside a double-quoted
// Python string literal. The result can never terminate the literal or
// introduce statements.
func EscapePyString(text string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(text)
}

// NameMapping pairs the two canonical sanitized forms of one entity name.
type NameMapping struct {
	SafeName  string // module/variable form, e.g. "ac_system"
	ClassName string // class form, e.g. "AcSystem"
}

// SanitizedNames holds every canonical name used across one render, so
// cross-file references resolve to identical identifiers in all artifacts.
type SanitizedNames struct {
	SpecName   string
	Components map[string]NameMapping
	Flows      map[string]NameMapping
}

// SanitizeNames computes the canonical names for a spec. It assumes the
// spec has already passed Validate, which rejects names that sanitize to
// empty or collide after sanitization.
func SanitizeNames(s *LevelSpec) SanitizedNames {
	out := SanitizedNames{
		SpecName:   Identifier(s.Name),
		Components: make(map[string]NameMapping, len(s.Components)),
		Flows:      make(map[string]NameMapping, len(s.Flows)),
	}
	for _, c := range s.Components {
		out.Components[c.Name] = NameMapping{
			SafeName:  Identifier(c.Name),
			ClassName: ClassName(c.Name),
		}
	}
	for _, f := range s.Flows {
		out.Flows[f.Name] = NameMapping{
			SafeName:  Identifier(f.Name),
			ClassName: ClassName(f.Name),
		}
	}
	return out
}
