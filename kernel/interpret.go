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

package kernel

import (
	"context"
	"math/rand"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/talkshop/golem/aiml"
	"github.com/talkshop/golem/brain"
	"github.com/talkshop/golem/subst"
	"github.com/talkshop/golem/util"
)

// systemApology is returned by a "system" element whose command could
// not be launched.
const systemApology = "There was an error while computing my response.  Please inform my botmaster."

var whitespace = regexp.MustCompile(`\s+`)

// processElement turns one template node into text.  The caller holds
// the lock.
func (k *Kernel) processElement(ctx context.Context, n *aiml.Node, sessionID string) string {
	switch n.Tag {

	case aiml.TextTag:
		// Runs of whitespace collapse unless the mode was
		// "preserve".  A collapsed node is marked so the work
		// happens at most once.
		if !n.Preserve {
			n.Text = whitespace.ReplaceAllString(n.Text, " ")
			n.Preserve = true
		}
		return n.Text

	case "template", "li":
		return k.processChildren(ctx, n, sessionID)

	case "bot":
		return k.botPredicates[n.Attr("name")]

	case "get":
		return k.getPredicate(n.Attr("name"), sessionID)

	case "set":
		value := k.processChildren(ctx, n, sessionID)
		k.setPredicate(n.Attr("name"), value, sessionID)
		return value

	case "condition":
		return k.processCondition(ctx, n, sessionID)

	case "random":
		items := listItems(n)
		if 0 == len(items) {
			return ""
		}
		return k.processElement(ctx, items[rand.Intn(len(items))], sessionID)

	case "srai":
		return k.respond(ctx, k.processChildren(ctx, n, sessionID), sessionID)

	case "sr":
		return k.respond(ctx, k.star(brain.Pattern, n, sessionID), sessionID)

	case "star":
		return k.star(brain.Pattern, n, sessionID)

	case "thatstar":
		return k.star(brain.That, n, sessionID)

	case "topicstar":
		return k.star(brain.Topic, n, sessionID)

	case "input":
		s := k.findSession(sessionID)
		index := intAttr(n, "index", 1)
		if in, ok := history(s.inputs, index); ok {
			return in
		}
		util.Logf("warning: no such index %d while processing input element", index)
		return ""

	case "that":
		s := k.findSession(sessionID)
		// The index attribute may be "x" or "x,y".  Only the
		// first number selects anything.
		index := 1
		if v := n.Attr("index"); v != "" {
			if i, err := strconv.Atoi(strings.SplitN(v, ",", 2)[0]); err == nil {
				index = i
			}
		}
		if out, ok := history(s.outputs, index); ok {
			return out
		}
		util.Logf("warning: no such index %d while processing that element", index)
		return ""

	case "think", "gossip":
		k.processChildren(ctx, n, sessionID)
		return ""

	case "javascript":
		return k.processJavascript(ctx, n, sessionID)

	case "learn":
		filename := k.processChildren(ctx, n, sessionID)
		if _, err := k.learn(filename); err != nil {
			util.Logf("warning: learn %s: %v", filename, err)
		}
		return ""

	case "formal":
		return subst.Capwords(k.processChildren(ctx, n, sessionID))

	case "sentence":
		return sentenceCase(k.processChildren(ctx, n, sessionID))

	case "lowercase":
		return strings.ToLower(k.processChildren(ctx, n, sessionID))

	case "uppercase":
		return strings.ToUpper(k.processChildren(ctx, n, sessionID))

	case "gender":
		return k.subbers["gender"].Sub(k.processChildren(ctx, n, sessionID))

	case "person":
		return k.subbers["person"].Sub(k.wildcardOrChildren(ctx, n, sessionID))

	case "person2":
		return k.subbers["person2"].Sub(k.wildcardOrChildren(ctx, n, sessionID))

	case "system":
		return k.processSystem(ctx, n, sessionID)

	case "date":
		return time.Now().Format(time.ANSIC)

	case "id":
		return sessionID

	case "size":
		return strconv.Itoa(k.brain.NumTemplates())

	case "version":
		return k.Version()
	}

	util.Logf("warning: no handler found for <%s> element", n.Tag)
	return ""
}

func (k *Kernel) processChildren(ctx context.Context, n *aiml.Node, sessionID string) string {
	response := ""
	for _, c := range n.Children {
		response += k.processElement(ctx, c, sessionID)
	}
	return response
}

// wildcardOrChildren implements the shared shape of "person" and
// "person2": the bare element means "apply to the first wildcard
// span".
func (k *Kernel) wildcardOrChildren(ctx context.Context, n *aiml.Node, sessionID string) string {
	if 0 == len(n.Children) {
		return k.star(brain.Pattern, n, sessionID)
	}
	return k.processChildren(ctx, n, sessionID)
}

func listItems(n *aiml.Node) []*aiml.Node {
	var items []*aiml.Node
	for _, c := range n.Children {
		if c.Tag == "li" {
			items = append(items, c)
		}
	}
	return items
}

func (k *Kernel) processCondition(ctx context.Context, n *aiml.Node, sessionID string) string {
	// Block form: one predicate named right on the element.
	if n.HasAttr("name") && n.HasAttr("value") {
		if k.getPredicate(n.Attr("name"), sessionID) == n.Attr("value") {
			return k.processChildren(ctx, n, sessionID)
		}
		return ""
	}

	// Single-predicate and multi-predicate forms walk the list
	// items in order.
	name := n.Attr("name")
	items := listItems(n)
	if 0 == len(items) {
		return ""
	}

	for _, li := range items {
		if !li.HasAttr("value") {
			// The default item only fires when nothing
			// else did.
			continue
		}
		liName := name
		if liName == "" {
			liName = li.Attr("name")
		}
		if liName == "" {
			util.Logf("warning: skipping malformed list item in condition element")
			continue
		}
		if k.getPredicate(liName, sessionID) == li.Attr("value") {
			return k.processElement(ctx, li, sessionID)
		}
	}

	if last := items[len(items)-1]; !last.HasAttr("name") && !last.HasAttr("value") {
		return k.processElement(ctx, last, sessionID)
	}
	return ""
}

// star answers "star", "thatstar", and "topicstar", and also the bare
// "person", "person2", and "sr" forms, which all need the span some
// wildcard matched in the category currently being processed.
func (k *Kernel) star(dim brain.Dimension, n *aiml.Node, sessionID string) string {
	index := intAttr(n, "index", 1)
	s := k.findSession(sessionID)
	if 0 == len(s.inputStack) {
		return ""
	}
	input := k.subbers["normal"].Sub(s.inputStack[len(s.inputStack)-1])
	that := k.subbers["normal"].Sub(s.lastOutput())
	topic := k.subbers["normal"].Sub(s.predicates["topic"])
	return k.brain.Star(dim, index, input, that, topic)
}

func (k *Kernel) processJavascript(ctx context.Context, n *aiml.Node, sessionID string) string {
	if k.JS == nil {
		// Without an evaluator the element behaves exactly
		// like "think".
		k.processChildren(ctx, n, sessionID)
		return ""
	}

	src := k.processChildren(ctx, n, sessionID)
	s := k.findSession(sessionID)

	env := map[string]interface{}{
		"predicates": s.data().Predicates,
	}
	if 0 < len(s.inputStack) {
		env["input"] = s.inputStack[len(s.inputStack)-1]
	}

	result, err := k.JS.Eval(ctx, src, env)
	if err != nil {
		util.Logf("warning: javascript element: %v", err)
		return ""
	}
	return result
}

func (k *Kernel) processSystem(ctx context.Context, n *aiml.Node, sessionID string) string {
	command := strings.TrimSpace(k.processChildren(ctx, n, sessionID))

	out, err := exec.CommandContext(ctx, "/bin/sh", "-c", command).CombinedOutput()
	if err != nil && 0 == len(out) {
		util.Logf("warning: system element %q: %v", command, err)
		return systemApology
	}

	// Flatten the output to one line.
	return strings.TrimSpace(strings.Join(strings.Split(string(out), "\n"), " "))
}

// intAttr parses a positive-integer attribute, falling back to the
// given default.
func intAttr(n *aiml.Node, name string, def int) int {
	v := n.Attr(name)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return def
	}
	return i
}

// sentenceCase uppercases the first word of trimmed text, lowering
// the rest of that word and leaving everything after it alone.
func sentenceCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	i := strings.Index(s, " ")
	if i < 0 {
		return capitalize(s)
	}
	return capitalize(s[:i]) + s[i:]
}

func capitalize(w string) string {
	rs := []rune(strings.ToLower(w))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
