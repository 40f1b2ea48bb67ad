package brain

import (
	"strings"
)

// Dimension selects which part of a matched category a wildcard span
// is extracted from.
type Dimension int

const (
	// Pattern extracts spans matched by wildcards in the main pattern.
	Pattern Dimension = iota
	// That extracts spans matched by wildcards in the that pattern.
	That
	// Topic extracts spans matched by wildcards in the topic pattern.
	Topic
)

func (d Dimension) String() string {
	switch d {
	case Pattern:
		return "star"
	case That:
		return "thatstar"
	case Topic:
		return "topicstar"
	}
	return "unknown"
}

func indexOf(path []string, key string) int {
	for i, k := range path {
		if k == key {
			return i
		}
	}
	return -1
}

// Star returns the input words consumed by the index-th (1-based)
// wildcard of the matched pattern in the given dimension.  The words
// come from the original, unmutilated text, space-joined.  A missing
// match or an out-of-range index yields "".
func (b *Brain) Star(dim Dimension, index int, input, that, topic string) string {
	mutInput := Mutilate(input)
	mutThat := Mutilate(orSentinel(that, NoThat))
	mutTopic := Mutilate(orSentinel(topic, NoTopic))

	path, template := b.match(
		strings.Fields(mutInput),
		strings.Fields(mutThat),
		strings.Fields(mutTopic),
		b.root)
	if template == nil {
		return ""
	}

	// Slice out the segment of the match path for the requested
	// dimension, and pick the token sequence it was matched
	// against.
	var (
		words    []string
		original []string
	)
	thatAt := indexOf(path, keyThat)
	topicAt := indexOf(path, keyTopic)
	switch dim {
	case Pattern:
		if thatAt < 0 {
			return ""
		}
		path = path[:thatAt]
		words = strings.Fields(mutInput)
		original = strings.Fields(input)
	case That:
		if thatAt < 0 || topicAt < 0 {
			return ""
		}
		path = path[thatAt+1 : topicAt]
		words = strings.Fields(mutThat)
		original = strings.Fields(that)
	case Topic:
		if topicAt < 0 {
			return ""
		}
		path = path[topicAt+1:]
		words = strings.Fields(mutTopic)
		original = strings.Fields(topic)
	default:
		return ""
	}

	// Walk the matched path in lock-step with the words, counting
	// wildcards of either kind until the one we care about.  The
	// growing-consumption trials that produced the path determine
	// exactly which [start,end] word range each wildcard ate.
	var (
		found    bool
		start    int
		end      int
		j        int
		numStars int
		k        int
	)
	for i := 0; i < len(words); i++ {
		// True while we're inside a star that isn't the one
		// we're looking for.
		if i < k {
			continue
		}
		if j == len(path) {
			break
		}
		if !found {
			if path[j] == keyStar || path[j] == keyUnderscore {
				numStars++
				if numStars == index {
					found = true
				}
				start = i
				for kk := i; kk < len(words); kk++ {
					k = kk
					// A wildcard at the end of the pattern
					// runs to the end of the words.
					if j+1 == len(path) {
						end = len(words)
						break
					}
					// The words match the pattern again: the
					// wildcard has ended.
					if path[j+1] == words[kk] {
						end = kk - 1
						break
					}
				}
			}
			if found {
				break
			}
		}
		j++
	}

	if !found {
		return ""
	}

	// Clip to the original token sequence, which can be shorter
	// than the mutilated one.
	if len(original) < end+1 {
		end = len(original) - 1
	}
	if len(original) <= start || end < start {
		return ""
	}
	return strings.Join(original[start:end+1], " ")
}
