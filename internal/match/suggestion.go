package match

import (
	"strings"

	"github.com/jpl-au/sulaiman/internal/phrase"
)

// Segment is one run of suggestion text, marked as typed or not.
type Segment struct {
	Text    string
	Written bool
}

// Suggestion is one ranked row of the suggestion list. Suggestions are
// rebuilt on every scan and never mutated afterwards.
type Suggestion struct {
	Key        string  // phrase key for display
	Fold       string  // registry identity of the phrase
	Argument   string  // argument branch, "" when the phrase has none
	Matched    string  // phrase text handed to onActivate
	Trailing   string  // free-form text after phrase and argument
	Percentage float64 // typed fraction in [0,1]
	Words      int     // phrase word plus argument words
	Segments   []Segment

	order int // registration order, final tie-break
}

// Full reports whether the phrase and its argument are completely typed.
func (s Suggestion) Full() bool { return s.Percentage == 1 }

// Text returns the complete command text the suggestion stands for,
// used for autocompletion.
func (s Suggestion) Text() string {
	var b strings.Builder
	for _, seg := range s.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Render concatenates the segments, passing each through mark so callers
// can style typed and remaining text differently.
func (s Suggestion) Render(mark func(text string, written bool) string) string {
	var b strings.Builder
	for _, seg := range s.Segments {
		b.WriteString(mark(seg.Text, seg.Written))
	}
	return b.String()
}

// segments splits text into a typed head of n runes and the rest.
func segments(text string, n int) []Segment {
	r := []rune(text)
	var out []Segment
	if n > 0 {
		out = append(out, Segment{Text: string(r[:n]), Written: true})
	}
	if n < len(r) {
		out = append(out, Segment{Text: string(r[n:])})
	}
	return out
}

// argumentSegments marks written runes word by word. written counts the
// separating spaces, as argumentMatch does.
func argumentSegments(argument string, written int) []Segment {
	var out []Segment
	for i, w := range strings.Split(argument, " ") {
		if i > 0 {
			sep := written > 0
			if sep {
				written--
			}
			out = append(out, Segment{Text: " ", Written: sep})
		}
		n := min(written, len([]rune(w)))
		out = append(out, segments(w, n)...)
		written -= n
	}
	return out
}

func newLiteral(p *phrase.Phrase, order, phraseWritten int) Suggestion {
	lit := p.Key().Literal()
	return Suggestion{
		Key:        lit,
		Fold:       p.Key().Fold(),
		Matched:    lit,
		Percentage: float64(phraseWritten) / float64(len([]rune(lit))),
		Words:      1,
		Segments:   segments(lit, phraseWritten),
		order:      order,
	}
}

func newArgument(p *phrase.Phrase, order, phraseWritten int, argument string, argWritten int, trailing string) Suggestion {
	lit := p.Key().Literal()
	total := len([]rune(lit)) + len([]rune(argument))
	segs := segments(lit, phraseWritten)
	segs = append(segs, Segment{Text: " ", Written: argWritten > 0})
	segs = append(segs, argumentSegments(argument, argWritten)...)
	return Suggestion{
		Key:        lit,
		Fold:       p.Key().Fold(),
		Argument:   argument,
		Matched:    lit,
		Trailing:   trailing,
		Percentage: float64(phraseWritten+argWritten) / float64(total),
		Words:      1 + len(strings.Split(argument, " ")),
		Segments:   segs,
		order:      order,
	}
}
