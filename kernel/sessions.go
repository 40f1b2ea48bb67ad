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

// GlobalSession is the session used when a caller doesn't name one.
const GlobalSession = "_global"

const (
	// maxHistorySize bounds the input and output histories.
	maxHistorySize = 10

	// maxRecursionDepth bounds srai chains.
	maxRecursionDepth = 100
)

// session is the per-conversation state: the predicate map, the two
// bounded histories, and the stack of inputs currently being
// answered (which is how srai recursion is detected).
type session struct {
	predicates map[string]string
	inputs     []string
	outputs    []string
	inputStack []string
}

func newSession() *session {
	return &session{
		predicates: make(map[string]string),
	}
}

func (s *session) addInput(sentence string) {
	s.inputs = append(s.inputs, sentence)
	for maxHistorySize < len(s.inputs) {
		s.inputs = s.inputs[1:]
	}
}

func (s *session) addOutput(response string) {
	s.outputs = append(s.outputs, response)
	for maxHistorySize < len(s.outputs) {
		s.outputs = s.outputs[1:]
	}
}

// lastOutput returns the bot's previous response, or "" if there
// isn't one yet.
func (s *session) lastOutput() string {
	if 0 == len(s.outputs) {
		return ""
	}
	return s.outputs[len(s.outputs)-1]
}

// history indexes a history newest-first: index 1 is the most recent
// entry.  An out-of-range index gives ok == false.
func history(h []string, index int) (string, bool) {
	if index < 1 || len(h) < index {
		return "", false
	}
	return h[len(h)-index], true
}

// SessionData is a copy of a session's externally visible state.
type SessionData struct {
	// Predicates maps predicate names to their values.
	Predicates map[string]string

	// Inputs and Outputs are the bounded histories, oldest first.
	Inputs  []string
	Outputs []string
}

func (s *session) data() SessionData {
	d := SessionData{
		Predicates: make(map[string]string, len(s.predicates)),
		Inputs:     make([]string, len(s.inputs)),
		Outputs:    make([]string, len(s.outputs)),
	}
	for k, v := range s.predicates {
		d.Predicates[k] = v
	}
	copy(d.Inputs, s.inputs)
	copy(d.Outputs, s.outputs)
	return d
}

// findSession returns the named session, creating it if necessary.
func (k *Kernel) findSession(sessionID string) *session {
	s, have := k.sessions[sessionID]
	if !have {
		s = newSession()
		k.sessions[sessionID] = s
	}
	return s
}

// GetPredicate returns the value of a session predicate, or "" if the
// predicate (or the session) doesn't exist.
func (k *Kernel) GetPredicate(name, sessionID string) string {
	k.Lock()
	defer k.Unlock()
	return k.getPredicate(name, sessionID)
}

func (k *Kernel) getPredicate(name, sessionID string) string {
	s, have := k.sessions[sessionID]
	if !have {
		return ""
	}
	return s.predicates[name]
}

// SetPredicate sets a session predicate, creating the session if
// necessary.
func (k *Kernel) SetPredicate(name, value, sessionID string) {
	k.Lock()
	defer k.Unlock()
	k.setPredicate(name, value, sessionID)
}

func (k *Kernel) setPredicate(name, value, sessionID string) {
	k.findSession(sessionID).predicates[name] = value
}

// GetBotPredicate returns the value of the named bot predicate, or ""
// if it isn't set.
func (k *Kernel) GetBotPredicate(name string) string {
	k.Lock()
	defer k.Unlock()
	return k.botPredicates[name]
}

// SetBotPredicate sets a bot predicate.  Bot predicates are shared by
// every session.  Setting "name" also renames the bot for pattern
// matching.
func (k *Kernel) SetBotPredicate(name, value string) {
	k.Lock()
	defer k.Unlock()
	k.botPredicates[name] = value
	if name == "name" {
		k.brain.SetBotName(value)
	}
}

// GetSessionData returns a copy of the named session's predicates and
// histories.  Mutating the copy has no effect on the session.
func (k *Kernel) GetSessionData(sessionID string) SessionData {
	k.Lock()
	defer k.Unlock()
	s, have := k.sessions[sessionID]
	if !have {
		return SessionData{Predicates: map[string]string{}}
	}
	return s.data()
}

// PutSessionData replaces the named session's predicates and
// histories, creating the session if necessary.  It's the inverse of
// GetSessionData, for callers that persist sessions somewhere.
func (k *Kernel) PutSessionData(sessionID string, d SessionData) {
	k.Lock()
	defer k.Unlock()
	s := k.findSession(sessionID)
	s.predicates = make(map[string]string, len(d.Predicates))
	for name, value := range d.Predicates {
		s.predicates[name] = value
	}
	s.inputs = append([]string(nil), d.Inputs...)
	s.outputs = append([]string(nil), d.Outputs...)
	for maxHistorySize < len(s.inputs) {
		s.inputs = s.inputs[1:]
	}
	for maxHistorySize < len(s.outputs) {
		s.outputs = s.outputs[1:]
	}
}

// Sessions lists the IDs of the sessions the Kernel knows about.
func (k *Kernel) Sessions() []string {
	k.Lock()
	defer k.Unlock()
	ids := make([]string, 0, len(k.sessions))
	for id := range k.sessions {
		ids = append(ids, id)
	}
	return ids
}

// DeleteSession forgets a session entirely.  Deleting a session that
// doesn't exist is not an error.
func (k *Kernel) DeleteSession(sessionID string) {
	k.Lock()
	defer k.Unlock()
	delete(k.sessions, sessionID)
}
