// key.go defines phrase keys: a single-word literal or a compiled pattern.
//
// Design: Keys are validated once at construction so the match engine can
// assume every literal is non-empty, lower-case comparable and a single
// word. Multi-word commands are expressed as phrase + argument instead,
// which keeps per-word scoring well defined.

package phrase

import (
	"fmt"
	"regexp"
	"strings"
)

// Key identifies a phrase. Exactly one of literal or pattern is set.
type Key struct {
	literal string
	pattern *regexp.Regexp
}

// ParseKey validates v and converts it into a Key. Accepted inputs are a
// standard-form single-word string or a *regexp.Regexp.
func ParseKey(v any) (Key, error) {
	switch k := v.(type) {
	case string:
		if err := validateLiteral(k); err != nil {
			return Key{}, err
		}
		return Key{literal: k}, nil
	case *regexp.Regexp:
		if k == nil {
			return Key{}, fmt.Errorf("%w: nil pattern", ErrPhraseTypeInvalid)
		}
		return Key{pattern: k}, nil
	default:
		return Key{}, fmt.Errorf("%w: got %T", ErrPhraseTypeInvalid, v)
	}
}

// validateLiteral enforces the canonical whitespace form for a phrase.
func validateLiteral(s string) error {
	if s == "" {
		return ErrPhraseEmpty
	}
	if !IsStandard(s) {
		return fmt.Errorf("%w: %q", ErrPhraseNotNormalized, s)
	}
	if strings.Contains(s, " ") {
		return fmt.Errorf("%w: %q (use an argument for the rest)", ErrPhraseMultiWord, s)
	}
	return nil
}

// validateArgument applies the same canonical form to argument literals.
// Arguments may span several words.
func validateArgument(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty argument", ErrPhraseEmpty)
	}
	if !IsStandard(s) {
		return fmt.Errorf("%w: argument %q", ErrPhraseNotNormalized, s)
	}
	return nil
}

// IsPattern reports whether the key is a pattern rather than a literal.
func (k Key) IsPattern() bool { return k.pattern != nil }

// Literal returns the literal phrase, or "" for a pattern key.
func (k Key) Literal() string { return k.literal }

// Pattern returns the compiled pattern, or nil for a literal key.
func (k Key) Pattern() *regexp.Regexp { return k.pattern }

// String returns the literal, or the pattern source wrapped in slashes.
func (k Key) String() string {
	if k.pattern != nil {
		return "/" + k.pattern.String() + "/"
	}
	return k.literal
}

// Fold returns the case-folded identity used for uniqueness. Pattern keys
// carry a NUL prefix so they can never collide with a literal.
func (k Key) Fold() string {
	if k.pattern != nil {
		return "\x00re:" + k.pattern.String()
	}
	return strings.ToLower(k.literal)
}
