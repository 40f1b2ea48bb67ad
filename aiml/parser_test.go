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

package aiml

import (
	"reflect"
	"strings"
	"testing"
)

func parse(t *testing.T, doc string) ([]Category, int) {
	t.Helper()
	cats, errs, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	return cats, errs
}

func TestParseBasic(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<aiml version="1.0.1">
<category><pattern>HELLO</pattern><template>Hi!</template></category>
<category><pattern>YES</pattern><that>DO YOU LIKE *</that><template>Good</template></category>
<topic name="WEATHER">
<category><pattern>RAIN</pattern><template>Wet</template></category>
</topic>
<category><pattern>AFTER TOPIC</pattern><template>x</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 0 {
		t.Fatalf("%d errors", errs)
	}
	if len(cats) != 4 {
		t.Fatalf("%d categories", len(cats))
	}

	c := cats[0]
	if c.Pattern != "HELLO" || c.That != "*" || c.Topic != "*" {
		t.Fatalf("category 0: %q %q %q", c.Pattern, c.That, c.Topic)
	}
	if c.Template == nil || c.Template.Tag != "template" {
		t.Fatalf("category 0 template: %#v", c.Template)
	}
	if len(c.Template.Children) != 1 || c.Template.Children[0].Text != "Hi!" {
		t.Fatalf("category 0 template children: %#v", c.Template.Children)
	}

	if c = cats[1]; c.That != "DO YOU LIKE *" || c.Topic != "*" {
		t.Fatalf("category 1: %q %q", c.That, c.Topic)
	}
	if c = cats[2]; c.Topic != "WEATHER" {
		t.Fatalf("category 2 topic: %q", c.Topic)
	}
	// A topic wrapper ends with its element.
	if c = cats[3]; c.Topic != "*" {
		t.Fatalf("category 3 topic: %q", c.Topic)
	}
}

func TestParseBotNameReference(t *testing.T) {
	doc := `<aiml version="1.0.1">
<category><pattern>DO YOU KNOW <bot name="name"/></pattern><template>x</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 0 || len(cats) != 1 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}

	want := []string{"DO", "YOU", "KNOW", BotNameToken}
	if got := strings.Fields(cats[0].Pattern); !reflect.DeepEqual(got, want) {
		t.Fatalf("pattern tokens %#v, want %#v", got, want)
	}
}

func TestParseNestedTemplate(t *testing.T) {
	doc := `<aiml version="1.0.1">
<category><pattern>X</pattern><template>a <think><set name="p">v</set></think>b</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 0 || len(cats) != 1 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}

	kids := cats[0].Template.Children
	if len(kids) != 3 {
		t.Fatalf("children: %#v", kids)
	}
	if kids[0].Text != "a " || kids[2].Text != "b" {
		t.Fatalf("text children: %q %q", kids[0].Text, kids[2].Text)
	}
	think := kids[1]
	if think.Tag != "think" || len(think.Children) != 1 {
		t.Fatalf("think: %#v", think)
	}
	set := think.Children[0]
	if set.Tag != "set" || set.Attr("name") != "p" {
		t.Fatalf("set: %#v", set)
	}
	if len(set.Children) != 1 || set.Children[0].Text != "v" {
		t.Fatalf("set children: %#v", set.Children)
	}
}

func TestParseRecoversPerCategory(t *testing.T) {
	doc := `<aiml version="1.0.1">
<category><pattern>GOOD ONE</pattern><template>a</template></category>
<category><pattern>BAD</pattern><template><star index="minus one"/></template></category>
<category><pattern>GOOD TWO</pattern><template>b</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 1 {
		t.Fatalf("%d errors", errs)
	}
	if len(cats) != 2 {
		t.Fatalf("%d categories", len(cats))
	}
	if cats[0].Pattern != "GOOD ONE" || cats[1].Pattern != "GOOD TWO" {
		t.Fatalf("kept %q and %q", cats[0].Pattern, cats[1].Pattern)
	}
}

func TestParseRejectsUnknownElement(t *testing.T) {
	doc := `<aiml version="1.0.1">
<category><pattern>X</pattern><template><frobnicate>junk</frobnicate></template></category>
<category><pattern>Y</pattern><template>ok</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 1 || len(cats) != 1 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}
	if cats[0].Pattern != "Y" {
		t.Fatalf("kept %q", cats[0].Pattern)
	}
}

func TestParseForwardCompatible(t *testing.T) {
	// Any version other than 1.0.1 relaxes unknown-element and
	// unknown-attribute errors.
	doc := `<aiml version="1.0">
<category><pattern>X</pattern><template>before <frobnicate>junk</frobnicate>after</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 0 || len(cats) != 1 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}

	kids := cats[0].Template.Children
	if len(kids) != 1 || kids[0].Tag != TextTag {
		t.Fatalf("children: %#v", kids)
	}
	if kids[0].Text != "before after" {
		t.Fatalf("text: %q", kids[0].Text)
	}
}

func TestParseMissingVersionIsForwardCompatible(t *testing.T) {
	doc := `<aiml>
<category><pattern>X</pattern><template><newthing/>kept</template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 0 || len(cats) != 1 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}
}

func TestParseWhitespaceModes(t *testing.T) {
	doc := `<aiml version="1.0.1">
<category><pattern>A</pattern><template xml:space="preserve">  kept   intact  </template></category>
<category><pattern>B</pattern><template>  collapsed   later  </template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 0 || len(cats) != 2 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}

	a := cats[0].Template.Children[0]
	if !a.Preserve || a.Text != "  kept   intact  " {
		t.Fatalf("preserve: %#v", a)
	}
	b := cats[1].Template.Children[0]
	if b.Preserve {
		t.Fatalf("default mode marked preserve: %#v", b)
	}
}

func TestParseConditionShapes(t *testing.T) {
	good := `<aiml version="1.0.1">
<category><pattern>A</pattern><template><condition name="mood"><li value="happy">x</li><li>y</li></condition></template></category>
<category><pattern>B</pattern><template><condition><li name="mood" value="happy">x</li><li>y</li></condition></template></category>
<category><pattern>C</pattern><template><condition name="mood" value="happy">x</condition></template></category>
</aiml>`

	cats, errs := parse(t, good)
	if errs != 0 || len(cats) != 3 {
		t.Fatalf("good doc: %d categories, %d errors", len(cats), errs)
	}

	bad := `<aiml version="1.0.1">
<category><pattern>A</pattern><template><condition name="mood"><li>x</li><li>y</li></condition></template></category>
<category><pattern>B</pattern><template><condition name="mood">no text allowed<li value="v">x</li></condition></template></category>
<category><pattern>C</pattern><template><li>stray</li></template></category>
</aiml>`

	cats, errs = parse(t, bad)
	if errs != 3 {
		t.Fatalf("bad doc: %d errors", errs)
	}
	if len(cats) != 0 {
		t.Fatalf("bad doc: kept %d categories", len(cats))
	}
}

func TestParseAtomicElementsStayEmpty(t *testing.T) {
	doc := `<aiml version="1.0.1">
<category><pattern>A</pattern><template><date>text inside</date></template></category>
</aiml>`

	cats, errs := parse(t, doc)
	if errs != 1 || len(cats) != 0 {
		t.Fatalf("%d categories, %d errors", len(cats), errs)
	}
}

func TestParseBadXML(t *testing.T) {
	if _, _, err := Parse(strings.NewReader("<aiml version=\"1.0.1\"><category>")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseError(t *testing.T) {
	e := &ParseError{Msg: "boom", Line: 3, Column: 7}
	if got := e.Error(); got != "boom (line 3, column 7)" {
		t.Fatalf("got %q", got)
	}
}
