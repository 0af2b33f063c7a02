// prefix.go implements literal prefix scoring.
//
// Design: Matching is a plain rune-by-rune comparison from the start of
// both strings. No pattern is built per phrase or per keystroke, so the
// cost of a scan is linear in the input length times the phrase count.

package match

import (
	"strings"
	"unicode"
)

// commonPrefix returns how many leading runes of target are matched by
// input, ignoring case.
func commonPrefix(input, target []rune) int {
	n := 0
	for n < len(input) && n < len(target) && foldEqual(input[n], target[n]) {
		n++
	}
	return n
}

func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}

// PrefixScore returns the fraction of phrase typed by input, where input
// must be a non-empty case-insensitive prefix of phrase. Returns 0 when it
// is not.
func PrefixScore(input, phrase string) float64 {
	in, ph := []rune(input), []rune(phrase)
	if len(in) == 0 || len(ph) == 0 {
		return 0
	}
	n := commonPrefix(in, ph)
	if n != len(in) {
		return 0
	}
	return float64(n) / float64(len(ph))
}

// argumentMatch compares the words after a phrase against one argument.
// All input words but the last must equal the argument's words; the last
// may be a prefix. Words beyond the argument are trailing text.
// written counts argument runes typed, including the spaces between typed
// words.
func argumentMatch(rest, argument string) (written int, trailing string, ok bool) {
	inWords := strings.Split(rest, " ")
	argWords := strings.Split(argument, " ")

	for i, w := range inWords {
		if i == len(argWords) {
			return written, strings.Join(inWords[i:], " "), true
		}
		in, aw := []rune(w), []rune(argWords[i])
		k := commonPrefix(in, aw)
		switch {
		case k == len(aw) && k == len(in):
		case k == len(in) && i == len(inWords)-1:
		default:
			return 0, "", false
		}
		if i > 0 {
			written++ // separating space
		}
		written += k
	}
	return written, "", true
}
