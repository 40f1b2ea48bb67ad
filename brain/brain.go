/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package brain implements the pattern index: a trie over tokenized
// pattern/that/topic keys with a backtracking matcher and a
// wildcard-span extractor.
//
// The matching algorithm is the classic AIML graphmaster search.  At
// every position candidates are tried in order: the single-word
// wildcard "_", an exact literal, the bot-name placeholder, and the
// multi-word wildcard "*".  The first complete match wins.
package brain

import (
	"strings"

	"github.com/talkshop/golem/aiml"
)

// Trie keys for the non-literal tokens.  A leading NUL can't appear
// in a normalized word, so these never collide with literals.
const (
	keyUnderscore = "\x00_"
	keyStar       = "\x00*"
	keyBotName    = "\x00bot"
	keyThat       = "\x00that"
	keyTopic      = "\x00topic"
)

// node is one trie node.  Children is keyed by literal uppercase
// words and the key* sentinels above.  The that-section and
// topic-section children only exist when some category specified a
// non-default that/topic (in practice the parser defaults both to
// "*", so they nearly always exist).
type node struct {
	Children map[string]*node
	Template *aiml.Node
}

func newNode() *node {
	return &node{Children: make(map[string]*node)}
}

func (n *node) child(key string) *node {
	c, have := n.Children[key]
	if !have {
		c = newNode()
		n.Children[key] = c
	}
	return c
}

// Brain is the pattern index.
//
// A Brain is built incrementally by Add during loading and is
// read-only during matching.  It carries no lock of its own: callers
// serialize access (the kernel computes at most one response at a
// time).
type Brain struct {
	root      *node
	templates int
	botName   string
}

func New() *Brain {
	return &Brain{
		root:    newNode(),
		botName: "NAMELESS",
	}
}

// NumTemplates returns the number of templates currently stored.
// There's a one-to-one mapping between templates and categories.
func (b *Brain) NumTemplates() int {
	return b.templates
}

// SetBotName sets the name matched by bot-name tokens in patterns.
// A multi-word name is collapsed into a single word, and the name is
// uppercased so it can meet the normalized input words.
func (b *Brain) SetBotName(name string) {
	b.botName = strings.ToUpper(strings.Join(strings.Fields(name), ""))
}

// BotName returns the current bot name.
func (b *Brain) BotName() string {
	return b.botName
}

// patternKey maps one token to its trie key.  The bot-name
// placeholder is recognized in every dimension, matching what the
// parser can emit (pattern and that sections both admit bot-name
// references).
func patternKey(word string) string {
	switch word {
	case "_":
		return keyUnderscore
	case "*":
		return keyStar
	case aiml.BotNameToken:
		return keyBotName
	}
	return word
}

// Add inserts a pattern/that/topic key and its template.
//
// Re-adding an identical key overwrites the stored template without
// incrementing the template count.
func (b *Brain) Add(pattern, that, topic string, template *aiml.Node) {
	n := b.root
	for _, word := range strings.Fields(pattern) {
		n = n.child(patternKey(word))
	}

	if len(that) > 0 {
		n = n.child(keyThat)
		for _, word := range strings.Fields(that) {
			n = n.child(patternKey(word))
		}
	}

	if len(topic) > 0 {
		n = n.child(keyTopic)
		for _, word := range strings.Fields(topic) {
			n = n.child(patternKey(word))
		}
	}

	if n.Template == nil {
		b.templates++
	}
	n.Template = template
}

// AddCategory inserts a parsed category.
func (b *Brain) AddCategory(c aiml.Category) {
	b.Add(c.Pattern, c.That, c.Topic, c.Template)
}
