package brain

import (
	"strings"
)

// punctuation is the set of characters stripped (replaced by spaces)
// from inputs before matching.  Note that this applies to inputs
// only; pattern tokens are inserted as written.
const punctuation = "\"`~!@#$%^&*()-_=+[{]}\\|;:',<.>/?"

// Context dimensions are never allowed to be empty: an empty that or
// topic is replaced by a sentinel that no real input will produce, so
// a category with the default "*" context still matches.
const (
	NoThat  = "ULTRABOGUSDUMMYTHAT"
	NoTopic = "ULTRABOGUSDUMMYTOPIC"
)

// Mutilate normalizes input text for matching: punctuation becomes
// spaces and everything is uppercased.  (Whitespace collapses for
// free when the result is tokenized.)
func Mutilate(s string) string {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, s)
	return strings.ToUpper(stripped)
}

func orSentinel(s, sentinel string) string {
	if strings.TrimSpace(s) == "" {
		return sentinel
	}
	return s
}
