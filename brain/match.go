package brain

import (
	"strings"

	"github.com/talkshop/golem/aiml"
)

// Match finds the template closest to the given input.  The that
// argument is the bot's previous response; topic is the session's
// current topic.  Returns nil if nothing matches.
func (b *Brain) Match(input, that, topic string) *aiml.Node {
	if len(input) == 0 {
		return nil
	}

	words := strings.Fields(Mutilate(input))
	thatWords := strings.Fields(Mutilate(orSentinel(that, NoThat)))
	topicWords := strings.Fields(Mutilate(orSentinel(topic, NoTopic)))

	_, template := b.match(words, thatWords, topicWords, b.root)
	return template
}

// match recursively matches the three token sequences against the
// trie.  It returns the path of trie keys from root to the matching
// template (with the that-section and topic-section sentinels
// embedded, so span extraction can tell the dimensions apart) and the
// template itself, or (nil, nil).
func (b *Brain) match(words, thatWords, topicWords []string, root *node) ([]string, *aiml.Node) {
	if len(words) == 0 {
		// Out of words in this dimension.  Descend into the
		// that section (then the topic section) before
		// settling for a template at this node.
		var (
			path     []string
			template *aiml.Node
		)
		if 0 < len(thatWords) {
			if child, have := root.Children[keyThat]; have {
				path, template = b.match(thatWords, nil, topicWords, child)
				if path != nil {
					path = append([]string{keyThat}, path...)
				}
			}
		} else if 0 < len(topicWords) {
			if child, have := root.Children[keyTopic]; have {
				path, template = b.match(topicWords, nil, nil, child)
				if path != nil {
					path = append([]string{keyTopic}, path...)
				}
			}
		}
		if template == nil {
			path = nil
			template = root.Template
		}
		return path, template
	}

	first := words[0]
	suffix := words[1:]

	// The single-word wildcard is tried first.  Like "*", it
	// consumes one or more words with a growing-consumption
	// search; the two wildcard kinds differ only in precedence.
	// That's long-standing graphmaster behavior that loaded
	// pattern sets depend on, so don't "fix" it.
	if child, have := root.Children[keyUnderscore]; have {
		// j ranges up to len(suffix) inclusive to handle a
		// wildcard at the end of the pattern.
		for j := 0; j <= len(suffix); j++ {
			path, template := b.match(suffix[j:], thatWords, topicWords, child)
			if template != nil {
				return append([]string{keyUnderscore}, path...), template
			}
		}
	}

	if child, have := root.Children[first]; have {
		path, template := b.match(suffix, thatWords, topicWords, child)
		if template != nil {
			return append([]string{first}, path...), template
		}
	}

	if child, have := root.Children[keyBotName]; have && first == b.botName {
		path, template := b.match(suffix, thatWords, topicWords, child)
		if template != nil {
			return append([]string{first}, path...), template
		}
	}

	if child, have := root.Children[keyStar]; have {
		for j := 0; j <= len(suffix); j++ {
			path, template := b.match(suffix[j:], thatWords, topicWords, child)
			if template != nil {
				return append([]string{keyStar}, path...), template
			}
		}
	}

	return nil, nil
}
