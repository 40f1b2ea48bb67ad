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

// Package subst provides flat word-for-word substitution tables: the
// pronoun-swapping "gender", "person", and "person2" tables, plus the
// "normal" table applied to every input before matching.
//
// Matching is single-pass and word-bounded: "he" is replaced but
// "help" is not.  It is also case-aware without being case-blind:
// each entry is installed in lowercase, Capitalized, and UPPERCASE
// forms, so the replacement keeps the shape of what it replaced.
package subst

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// WordSub is an all-in-one multiple-string-substitution table.
type WordSub struct {
	subs map[string]string

	// re is rebuilt lazily from the keys after any Add.
	re    *regexp.Regexp
	dirty bool
}

// New creates a WordSub populated with the given entries (which may
// be nil).
func New(defaults map[string]string) *WordSub {
	ws := &WordSub{
		subs:  make(map[string]string, 3*len(defaults)),
		dirty: true,
	}
	for k, v := range defaults {
		ws.Add(k, v)
	}
	return ws
}

// Capwords title-cases each whitespace-separated word, lowering the
// rest of the word.
func Capwords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

// Add installs a before/after pair.  Three entries are actually
// added: lowercase, Capitalized, and UPPERCASE.
func (ws *WordSub) Add(before, after string) {
	if before == "" {
		return
	}
	ws.subs[strings.ToLower(before)] = strings.ToLower(after)
	ws.subs[Capwords(before)] = Capwords(after)
	ws.subs[strings.ToUpper(before)] = strings.ToUpper(after)
	ws.dirty = true
}

// Len returns the number of installed entries (counting the case
// variants).
func (ws *WordSub) Len() int {
	return len(ws.subs)
}

func (ws *WordSub) compile() {
	keys := make([]string, 0, len(ws.subs))
	for k := range ws.subs {
		keys = append(keys, k)
	}
	// Longest first, so "he'd" wins over "he".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[j]) < len(keys[i])
		}
		return keys[i] < keys[j]
	})
	alts := make([]string, len(keys))
	for i, k := range keys {
		alts[i] = `\b` + regexp.QuoteMeta(k) + `\b`
	}
	ws.re = regexp.MustCompile(strings.Join(alts, "|"))
	ws.dirty = false
}

// Sub translates text, returning the modified text.
func (ws *WordSub) Sub(text string) string {
	if len(ws.subs) == 0 {
		return text
	}
	if ws.dirty {
		ws.compile()
	}
	return ws.re.ReplaceAllStringFunc(text, func(m string) string {
		return ws.subs[m]
	})
}
