// Package codeowners parses "CODEOWNERS" rule documents, and answers which
// owners are required to approve changes to a given file path.
//
// Matching follows GitHub's semantics: rules are evaluated in document
// order, and the last rule whose pattern matches a path wins - later rules
// override earlier ones, they are not merged.
package codeowners

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrMalformedDocument means a rule document was present
// but not a single line of it could be parsed into a rule.
var ErrMalformedDocument = errors.New("malformed CODEOWNERS document")

// OwnerKind tags the variant of an [OwnerSpec].
type OwnerKind int

const (
	OwnerUser OwnerKind = iota
	OwnerTeam
	OwnerEmail
)

// OwnerSpec is a single owner in a rule: an individual user,
// a team reference, or an email address. Immutable once parsed.
type OwnerSpec struct {
	Kind OwnerKind
	// Name is the owner as written in the document, e.g.
	// "@alice", "@org/backend", or "bob@example.com".
	Name string
}

// Identity returns the owner's name without its leading "@",
// for comparisons against review approver identities.
func (o OwnerSpec) Identity() string {
	return strings.TrimPrefix(o.Name, "@")
}

// TeamSlug returns the final segment of a team reference
// ("@org/sub/team" becomes "team"), which is the key that
// team membership lookups use. Meaningless for other kinds.
func (o OwnerSpec) TeamSlug() string {
	s := o.Identity()
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// Rule associates a path pattern with an ordered list of owners.
// A rule with no owners is valid: it unsets ownership for its pattern.
type Rule struct {
	Pattern string // As written in the document.
	Owners  []OwnerSpec

	glob string // Normalized for doublestar matching.
}

// File is an ordered CODEOWNERS rule table, immutable once parsed.
type File struct {
	rules []Rule
}

// Rules returns the parsed rules, in document order.
func (f *File) Rules() []Rule {
	return f.rules
}

// Parse builds a rule table from the raw text of a CODEOWNERS document.
//
// Parsing is tolerant, like GitHub's: lines that cannot be parsed are
// logged and skipped, instead of failing the whole document. The one
// exception is a non-blank document that yields no rule with any owners -
// that returns [ErrMalformedDocument] instead of masking the problem with
// a table that approves everything (e.g. for binary or garbage content).
func Parse(text string) (*File, error) {
	f := &File{}
	blank, owned := true, false

	n := 0
	for line := range strings.Lines(text) {
		n++
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		blank = false

		fields := strings.Fields(line)
		pattern := fields[0]
		if strings.HasPrefix(pattern, "!") {
			slog.Warn("skipping unsupported negation pattern in CODEOWNERS",
				slog.Int("line", n), slog.String("pattern", pattern))
			continue
		}

		owners := parseOwners(n, fields[1:])
		if len(fields) > 1 && len(owners) == 0 {
			// The line had owner tokens, but none of them were usable.
			slog.Warn("skipping CODEOWNERS line with unrecognized owners",
				slog.Int("line", n), slog.String("pattern", pattern))
			continue
		}

		owned = owned || len(owners) > 0
		f.rules = append(f.rules, Rule{
			Pattern: pattern,
			Owners:  owners,
			glob:    normalizePattern(pattern),
		})
	}

	if !blank && !owned {
		return nil, ErrMalformedDocument
	}
	return f, nil
}

func parseOwners(line int, tokens []string) []OwnerSpec {
	var owners []OwnerSpec
	for _, t := range tokens {
		switch {
		case strings.HasPrefix(t, "@") && strings.Contains(t, "/"):
			owners = append(owners, OwnerSpec{Kind: OwnerTeam, Name: t})
		case strings.HasPrefix(t, "@") && len(t) > 1:
			owners = append(owners, OwnerSpec{Kind: OwnerUser, Name: t})
		case strings.Contains(t, "@"):
			owners = append(owners, OwnerSpec{Kind: OwnerEmail, Name: t})
		default:
			slog.Warn("skipping unrecognized owner in CODEOWNERS",
				slog.Int("line", line), slog.String("owner", t))
		}
	}
	return owners
}

// OwnersOf returns the owner list of the last rule whose pattern matches
// the given path, or an empty list if no rule matches.
func (f *File) OwnersOf(path string) ([]OwnerSpec, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	for i := len(f.rules) - 1; i >= 0; i-- {
		match, err := doublestar.Match(f.rules[i].glob, path)
		if err != nil {
			return nil, fmt.Errorf("bad CODEOWNERS pattern %q: %w", f.rules[i].Pattern, err)
		}
		if match {
			return f.rules[i].Owners, nil
		}
	}

	return nil, nil
}

// normalizePattern ensures that the given pattern is in a form suitable for doublestar matching.
func normalizePattern(pattern string) string {
	if !strings.HasPrefix(pattern, "/") && !strings.HasPrefix(pattern, "**/") {
		pattern = "**/" + pattern
	}

	if strings.HasSuffix(pattern, "/") {
		pattern += "**/*"
	}

	if strings.HasSuffix(pattern, "/**") {
		// Inconsistency between CODEOWNERS and https://pkg.go.dev/github.com/bmatcuk/doublestar :
		// doublestar requires "/*" at the end of the pattern to match files under a directory.
		pattern += "/*"
	}

	return pattern
}
