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

// Package kernel ties the markup parser, the pattern trie, the
// substitution tables, and the session store together into a working
// conversational engine.
//
// A Kernel is safe for concurrent use.  One exchange is processed at
// a time.
package kernel

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/talkshop/golem/aiml"
	"github.com/talkshop/golem/brain"
	"github.com/talkshop/golem/subst"
	"github.com/talkshop/golem/util"
)

const version = "0.1.0"

// Evaluator runs the contents of "javascript" template elements.
//
// Unless one is attached, those elements just process their contents
// silently (exactly like "think").
type Evaluator interface {
	Eval(ctx context.Context, src string, env map[string]interface{}) (string, error)
}

// Kernel is the engine: one brain, one set of substitution tables,
// and any number of sessions.
type Kernel struct {
	sync.Mutex

	brain         *brain.Brain
	sessions      map[string]*session
	botPredicates map[string]string
	subbers       subst.Tables

	// JS, when non-nil, evaluates "javascript" elements.  Attach
	// one before the first Respond.
	JS Evaluator
}

// New creates a Kernel with the stock substitution tables, an empty
// brain, and a bot named "Nameless".
func New() *Kernel {
	k := &Kernel{
		brain:         brain.New(),
		sessions:      make(map[string]*session),
		botPredicates: make(map[string]string),
		subbers:       subst.DefaultTables(),
	}
	k.SetBotPredicate("name", "Nameless")
	k.findSession(GlobalSession)
	return k
}

// Verbose turns the engine's warnings (no match found, history index
// out of range, recursion aborted) on or off.
func (k *Kernel) Verbose(on bool) {
	util.Logging = on
}

// Version identifies this engine.
func (k *Kernel) Version() string {
	return "Golem " + version
}

// NumCategories returns the number of categories the brain holds.
func (k *Kernel) NumCategories() int {
	k.Lock()
	defer k.Unlock()
	return k.brain.NumTemplates()
}

// LoadSubs merges substitution tables from a YAML file into the
// current set.
func (k *Kernel) LoadSubs(filename string) error {
	k.Lock()
	defer k.Unlock()
	return k.subbers.LoadFile(filename)
}

// Learn reads categories from every file matching the given glob
// pattern and adds them to the brain.  Returns the number of
// categories added.
func (k *Kernel) Learn(pattern string) (int, error) {
	k.Lock()
	defer k.Unlock()
	return k.learn(pattern)
}

func (k *Kernel) learn(pattern string) (int, error) {
	filenames, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, filename := range filenames {
		start := time.Now()
		cats, bad, err := aiml.ParseFile(filename)
		if err != nil {
			// One unreadable file doesn't abort the load.
			util.Logf("warning: %s: %v", filename, err)
			continue
		}
		for _, c := range cats {
			k.brain.AddCategory(c)
		}
		added += len(cats)
		util.Logf("loaded %s (%d categories, %d discarded, %v)",
			filename, len(cats), bad, time.Now().Sub(start))
	}
	return added, nil
}

// SaveBrain writes the brain to a file.
func (k *Kernel) SaveBrain(filename string) error {
	k.Lock()
	defer k.Unlock()
	start := time.Now()
	if err := k.brain.SaveFile(filename); err != nil {
		return err
	}
	util.Logf("saved brain to %s (%d categories, %v)",
		filename, k.brain.NumTemplates(), time.Now().Sub(start))
	return nil
}

// LoadBrain replaces the brain with one previously written by
// SaveBrain.  On error the current brain is untouched.
func (k *Kernel) LoadBrain(filename string) error {
	k.Lock()
	defer k.Unlock()
	start := time.Now()
	if err := k.brain.RestoreFile(filename); err != nil {
		return err
	}
	util.Logf("loaded brain from %s (%d categories, %v)",
		filename, k.brain.NumTemplates(), time.Now().Sub(start))
	return nil
}

// ResetBrain discards every loaded category.  Sessions and bot
// predicates survive.
func (k *Kernel) ResetBrain() {
	k.Lock()
	defer k.Unlock()
	k.brain = brain.New()
}

// Bootstrap loads a saved brain (when brainFile is not ""), learns
// each of the given glob patterns, and then runs each command as an
// exchange in the global session, logging the responses.
func (k *Kernel) Bootstrap(ctx context.Context, brainFile string, learn []string, commands []string) error {
	start := time.Now()
	if brainFile != "" {
		if err := k.LoadBrain(brainFile); err != nil {
			return err
		}
	}
	for _, pattern := range learn {
		if _, err := k.Learn(pattern); err != nil {
			return err
		}
	}
	for _, command := range commands {
		util.Logf("%s", k.Respond(ctx, command, GlobalSession))
	}
	util.Logf("bootstrap completed in %v", time.Now().Sub(start))
	return nil
}

// Sentences splits text into sentences at ".", "?", and "!",
// trimming surrounding whitespace from each.  Text with no sentence
// separator at all comes back as a single sentence.
func Sentences(s string) []string {
	var out []string
	for pos, l := 0, len(s); pos < l; {
		end := l
		for _, sep := range []string{".", "?", "!"} {
			if i := strings.Index(s[pos:], sep); 0 <= i && pos+i < end {
				end = pos + i
			}
		}
		out = append(out, strings.TrimSpace(s[pos:end]))
		pos = end + 1
	}
	if 0 == len(out) {
		out = append(out, s)
	}
	return out
}

// Respond answers the given input in the named session (creating the
// session if necessary).  The input is split into sentences, each
// sentence is answered in turn, and the responses are joined.
//
// Respond never fails: problems are logged and contribute "" to the
// result.
func (k *Kernel) Respond(ctx context.Context, input, sessionID string) string {
	if 0 == len(input) {
		return ""
	}

	k.Lock()
	defer k.Unlock()

	s := k.findSession(sessionID)

	final := ""
	for _, sentence := range Sentences(input) {
		// The sentence joins the history before matching, so
		// that an "input" element with index 1 sees it.
		s.addInput(sentence)
		response := k.respond(ctx, sentence, sessionID)
		s.addOutput(response)
		final += response + "  "
	}
	return strings.TrimSpace(final)
}

// respond answers a single sentence.  The caller holds the lock.
func (k *Kernel) respond(ctx context.Context, input, sessionID string) string {
	if 0 == len(input) {
		return ""
	}

	s := k.findSession(sessionID)

	if maxRecursionDepth < len(s.inputStack) {
		util.Logf("warning: maximum recursion depth exceeded (input=%q)", input)
		return ""
	}
	s.inputStack = append(s.inputStack, input)
	defer func() {
		s.inputStack = s.inputStack[:len(s.inputStack)-1]
	}()

	subbed := k.subbers["normal"].Sub(input)
	that := k.subbers["normal"].Sub(s.lastOutput())
	topic := k.subbers["normal"].Sub(s.predicates["topic"])

	elem := k.brain.Match(subbed, that, topic)
	if elem == nil {
		util.Logf("warning: no match found for input: %s", input)
		return ""
	}

	return strings.TrimSpace(k.processElement(ctx, elem, sessionID))
}
