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

// Package aiml parses AIML documents into categories.
//
// A Category maps a pattern/that/topic key to a template tree.  The
// parser validates documents against the AIML 1.0.1 grammar and
// recovers from errors at category granularity: one bad category is
// logged, counted, and dropped without losing the rest of the
// document.
package aiml

// TextTag is the tag of the synthetic nodes that hold character data.
//
// Text nodes are not real AIML elements.  The parser creates them for
// runs of character data inside a template.
const TextTag = "text"

// Node is one node of a parsed template tree.
//
// A Node is either an element (Tag, Attrs, Children) or, when Tag is
// TextTag, a leaf holding character data in Text.  Text nodes never
// have children.
//
// A tree is owned by exactly one category and is not mutated after
// parsing, with one exception: the first evaluation of a text node
// whose whitespace mode is "default" collapses runs of whitespace in
// Text and then flips Preserve, so the collapse happens at most once.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string

	// Preserve is the whitespace mode that was in effect when a
	// text node was created: true for xml:space="preserve".
	// Meaningless for element nodes.
	Preserve bool
}

// Attr returns the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, have := n.Attrs[name]
	return have
}

// Category is one pattern/that/topic rule and its response template.
//
// That and Topic default to "*" when the document didn't give them.
type Category struct {
	Pattern string
	That    string
	Topic   string

	Template *Node
}
