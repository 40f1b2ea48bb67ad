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
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<aiml version="1.0.1">
<category><pattern>HELLO</pattern><template>Well hi there!</template></category>
<category><pattern>BYE</pattern><template><srai>GOODBYE</srai></template></category>
<category><pattern>GOODBYE</pattern><template>See you later.</template></category>
<category><pattern>LOOP</pattern><template><srai>LOOP</srai></template></category>
<category><pattern>MY NAME IS *</pattern><template>Nice to meet you, <set name="username"><star/></set>.</template></category>
<category><pattern>WHO AM I</pattern><template>You are <get name="username"/>.</template></category>
<category><pattern>WHO ARE YOU</pattern><template>I am <bot name="name"/>.</template></category>
<category><pattern>* TEST STAR BEGIN</pattern><template><star/></template></category>
<category><pattern>TEST STAR * MIDDLE</pattern><template><star/></template></category>
<category><pattern>* LIKES *</pattern><template><star index="2"/> is liked by <star index="1"/></template></category>
<category><pattern>MOOD</pattern><template><condition name="mood"><li value="happy">I am happy.</li><li value="sad">I am sad.</li><li>I feel nothing.</li></condition></template></category>
<category><pattern>SHOUT *</pattern><template><uppercase><star/></uppercase></template></category>
<category><pattern>FORMAL *</pattern><template><formal><star/></formal></template></category>
<category><pattern>SWAP *</pattern><template><person2><star/></person2></template></category>
<category><pattern>THINK</pattern><template><think><set name="seen">yes</set></think>done</template></category>
<category><pattern>ECHO AGAIN</pattern><template><that/></template></category>
<category><pattern>DO I LIKE *</pattern><template>Do you like <star/></template></category>
<category><pattern>YES</pattern><that>DO YOU LIKE *</that><template>I am glad you like <thatstar/></template></category>
<category><pattern>ONE CHOICE</pattern><template><random><li>the only one</li></random></template></category>
<topic name="WEATHER">
<category><pattern>RAIN</pattern><template>Carry an umbrella.</template></category>
</topic>
</aiml>
`

func testKernel(t *testing.T, doc string) *Kernel {
	t.Helper()

	dir, err := ioutil.TempDir("", "kernel-test-")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.RemoveAll(dir)
	})

	filename := filepath.Join(dir, "test.aiml")
	if err = ioutil.WriteFile(filename, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	k := New()
	n, err := k.Learn(filename)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("learned nothing")
	}
	return k
}

func TestRespondBasic(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	cases := []struct {
		in, want string
	}{
		{"hello", "Well hi there!"},
		{"Hello!", "Well hi there!"},
		{"bye", "See you later."},
		{"something nobody taught me about xyzzy", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := k.Respond(ctx, c.in, GlobalSession); got != c.want {
			t.Errorf("Respond(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRespondMultipleSentences(t *testing.T) {
	k := testKernel(t, testDoc)

	got := k.Respond(context.Background(), "Hello. Bye.", GlobalSession)
	want := "Well hi there!  See you later."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRecursionBounded(t *testing.T) {
	k := testKernel(t, testDoc)

	if got := k.Respond(context.Background(), "loop", GlobalSession); got != "" {
		t.Fatalf("got %q, want \"\"", got)
	}
}

func TestSetGetPredicate(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	if got := k.Respond(ctx, "My name is John", GlobalSession); got != "Nice to meet you, John." {
		t.Fatalf("got %q", got)
	}
	if got := k.GetPredicate("username", GlobalSession); got != "John" {
		t.Fatalf("username = %q", got)
	}
	if got := k.Respond(ctx, "who am I", GlobalSession); got != "You are John." {
		t.Fatalf("got %q", got)
	}

	if got := k.GetPredicate("nope", GlobalSession); got != "" {
		t.Fatalf("unset predicate = %q", got)
	}
	if got := k.GetPredicate("username", "stranger"); got != "" {
		t.Fatalf("other session sees %q", got)
	}
}

func TestBotPredicate(t *testing.T) {
	k := testKernel(t, testDoc)

	k.SetBotPredicate("name", "Golem")
	if got := k.Respond(context.Background(), "who are you", GlobalSession); got != "I am Golem." {
		t.Fatalf("got %q", got)
	}
	if got := k.GetBotPredicate("nope"); got != "" {
		t.Fatalf("unset bot predicate = %q", got)
	}
}

func TestStarSpans(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	cases := []struct {
		in, want string
	}{
		{"You should test star begin", "You should"},
		{"test star one two middle", "one two"},
		{"john likes mary", "mary is liked by john"},
	}
	for _, c := range cases {
		if got := k.Respond(ctx, c.in, GlobalSession); got != c.want {
			t.Errorf("Respond(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCondition(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	if got := k.Respond(ctx, "mood", GlobalSession); got != "I feel nothing." {
		t.Fatalf("default: got %q", got)
	}

	k.SetPredicate("mood", "happy", GlobalSession)
	if got := k.Respond(ctx, "mood", GlobalSession); got != "I am happy." {
		t.Fatalf("happy: got %q", got)
	}

	k.SetPredicate("mood", "sad", GlobalSession)
	if got := k.Respond(ctx, "mood", GlobalSession); got != "I am sad." {
		t.Fatalf("sad: got %q", got)
	}

	k.SetPredicate("mood", "confused", GlobalSession)
	if got := k.Respond(ctx, "mood", GlobalSession); got != "I feel nothing." {
		t.Fatalf("fallback: got %q", got)
	}
}

func TestTextOperations(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	cases := []struct {
		in, want string
	}{
		{"shout good grief", "GOOD GRIEF"},
		{"formal john smith", "John Smith"},
		{"swap my cat", "your cat"},
		{"one choice", "the only one"},
	}
	for _, c := range cases {
		if got := k.Respond(ctx, c.in, GlobalSession); got != c.want {
			t.Errorf("Respond(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestThink(t *testing.T) {
	k := testKernel(t, testDoc)

	if got := k.Respond(context.Background(), "think", GlobalSession); got != "done" {
		t.Fatalf("got %q", got)
	}
	if got := k.GetPredicate("seen", GlobalSession); got != "yes" {
		t.Fatalf("seen = %q", got)
	}
}

func TestThatElement(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	if got := k.Respond(ctx, "hello", GlobalSession); got != "Well hi there!" {
		t.Fatalf("got %q", got)
	}
	if got := k.Respond(ctx, "echo again", GlobalSession); got != "Well hi there!" {
		t.Fatalf("that: got %q", got)
	}
}

func TestThatPatternAndThatstar(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	if got := k.Respond(ctx, "do I like cheese", GlobalSession); got != "Do you like cheese" {
		t.Fatalf("setup: got %q", got)
	}
	if got := k.Respond(ctx, "yes", GlobalSession); got != "I am glad you like cheese" {
		t.Fatalf("thatstar: got %q", got)
	}
}

func TestTopic(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	if got := k.Respond(ctx, "rain", GlobalSession); got != "" {
		t.Fatalf("topicless: got %q", got)
	}

	k.SetPredicate("topic", "weather", GlobalSession)
	if got := k.Respond(ctx, "rain", GlobalSession); got != "Carry an umbrella." {
		t.Fatalf("got %q", got)
	}
}

func TestHistoryBounded(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		k.Respond(ctx, "hello", GlobalSession)
	}

	d := k.GetSessionData(GlobalSession)
	if len(d.Inputs) != 10 {
		t.Fatalf("inputs: %d", len(d.Inputs))
	}
	if len(d.Outputs) != 10 {
		t.Fatalf("outputs: %d", len(d.Outputs))
	}
}

func TestSessionIsolation(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	k.Respond(ctx, "My name is John", "a")
	k.Respond(ctx, "My name is Mary", "b")

	if got := k.GetPredicate("username", "a"); got != "John" {
		t.Fatalf("a: %q", got)
	}
	if got := k.GetPredicate("username", "b"); got != "Mary" {
		t.Fatalf("b: %q", got)
	}

	k.DeleteSession("a")
	if got := k.GetPredicate("username", "a"); got != "" {
		t.Fatalf("deleted session still has %q", got)
	}

	// The copy is detached from the live session.
	d := k.GetSessionData("b")
	d.Predicates["username"] = "Sam"
	if got := k.GetPredicate("username", "b"); got != "Mary" {
		t.Fatalf("copy mutated the session: %q", got)
	}
}

func TestSentences(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello", []string{"Hello"}},
		{"Hi. Bye.", []string{"Hi", "Bye"}},
		{"What? No!", []string{"What", "No"}},
		{"One... two", []string{"One", "", "", "two"}},
		{"", []string{""}},
	}
	for _, c := range cases {
		if got := Sentences(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Sentences(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestBrainRoundTrip(t *testing.T) {
	k := testKernel(t, testDoc)
	ctx := context.Background()

	n := k.NumCategories()
	if n == 0 {
		t.Fatal("no categories")
	}

	dir, err := ioutil.TempDir("", "kernel-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	filename := filepath.Join(dir, "test.brn")

	if err = k.SaveBrain(filename); err != nil {
		t.Fatal(err)
	}

	k2 := New()
	if err = k2.LoadBrain(filename); err != nil {
		t.Fatal(err)
	}
	if got := k2.NumCategories(); got != n {
		t.Fatalf("restored %d categories, want %d", got, n)
	}
	if got := k2.Respond(ctx, "hello", GlobalSession); got != "Well hi there!" {
		t.Fatalf("restored brain: got %q", got)
	}

	k2.ResetBrain()
	if got := k2.NumCategories(); got != 0 {
		t.Fatalf("after reset: %d categories", got)
	}
}

func TestVersionAndSize(t *testing.T) {
	k := testKernel(t, testDoc)

	if got := k.Version(); got == "" {
		t.Fatal("empty version")
	}
	if got, want := k.NumCategories(), 20; got != want {
		t.Fatalf("NumCategories() = %d, want %d", got, want)
	}
}
