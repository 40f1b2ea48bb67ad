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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/talkshop/golem/util"
)

// BotNameToken is the placeholder that the parser writes into a
// pattern or that string for a <bot name="name"/> reference.  The
// pattern index later matches this token against the configured bot
// name.
const BotNameToken = "BOT_NAME"

// BaselineVersion is assumed when an <aiml> element has no version
// attribute.  A missing version is not an error: too many AIML sets
// in the wild omit it.
const BaselineVersion = "1.0"

// currentVersion is the AIML version this parser fully validates.
// Any other version triggers forward-compatibility mode, which turns
// unknown-element and unknown-attribute errors into silent ignores.
const currentVersion = "1.0.1"

// The parser states.  Order matters: every state from stCategory on
// is "inside a category", which decides whether an error skips the
// category or just the offending construct.
type parserState int

const (
	stOutside parserState = iota
	stAIML
	stCategory
	stPattern
	stAfterPattern
	stThat
	stAfterThat
	stTemplate
	stAfterTemplate
)

// ParseError is a recoverable structural error in an AIML document.
type ParseError struct {
	Msg    string
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Column)
}

type parser struct {
	dec *xml.Decoder

	state             parserState
	version           string
	forwardCompatible bool

	pattern     strings.Builder
	that        strings.Builder
	topic       string
	insideTopic bool

	// unknown is the name of the unknown element currently being
	// ignored (forward-compatibility mode), or "".
	unknown string

	// skipCategory discards the remainder of the current category
	// after a structural error.
	skipCategory bool

	errs int

	elemStack []*Node

	// foundDefaultLi tracks, per <condition> nesting level,
	// whether an attribute-less default <li> has been seen.
	foundDefaultLi []bool

	// whitespace is a stack of modes, true meaning "preserve".
	// Entering any element pushes a mode (inherited unless the
	// element carries xml:space); leaving pops it.
	whitespace []bool

	// wsDepth is the whitespace stack depth at the current
	// category's start, so a skipped category can unwind cleanly.
	wsDepth int

	categories []Category
}

func (p *parser) errorf(format string, args ...interface{}) error {
	line, col := p.dec.InputPos()
	return &ParseError{
		Msg:    fmt.Sprintf(format, args...),
		Line:   line,
		Column: col,
	}
}

// Parse reads one AIML document and returns its categories in
// document order, along with the number of recoverable errors.
//
// A non-nil error means the document itself was unreadable (bad XML);
// recoverable structural errors are logged, counted, and never stop
// the parse.
func Parse(r io.Reader) ([]Category, int, error) {
	p := &parser{
		dec:        xml.NewDecoder(r),
		whitespace: []bool{false},
	}

	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p.categories, p.errs, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.startElement(t.Name.Local, attrMap(t.Attr))
		case xml.EndElement:
			p.endElement(t.Name.Local)
		case xml.CharData:
			p.characters(string(t))
		}
	}

	return p.categories, p.errs, nil
}

// ParseFile parses the named AIML file.
func ParseFile(filename string) ([]Category, int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return Parse(f)
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		k := a.Name.Local
		switch a.Name.Space {
		case "":
		case "xml", "http://www.w3.org/XML/1998/namespace":
			k = "xml:" + k
		default:
			k = a.Name.Space + ":" + k
		}
		m[k] = a.Value
	}
	return m
}

// report logs a recoverable error, counts it, and (if we're inside a
// category) arranges for the rest of that category to be discarded.
func (p *parser) report(err error) {
	util.Logf("parse error: %v", err)
	p.errs++
	if p.state >= stCategory {
		p.skipCategory = true
	}
}

func (p *parser) pushWhitespace(attrs map[string]string) error {
	mode, have := attrs["xml:space"]
	if !have {
		p.whitespace = append(p.whitespace, p.whitespace[len(p.whitespace)-1])
		return nil
	}
	switch mode {
	case "default":
		p.whitespace = append(p.whitespace, false)
	case "preserve":
		p.whitespace = append(p.whitespace, true)
	default:
		return p.errorf("invalid value for xml:space attribute")
	}
	return nil
}

func (p *parser) popWhitespace() {
	if len(p.whitespace) > 1 {
		p.whitespace = p.whitespace[:len(p.whitespace)-1]
	}
}

func (p *parser) startElement(name string, attrs map[string]string) {
	if p.unknown != "" {
		return
	}
	if p.skipCategory {
		return
	}
	if err := p.start(name, attrs); err != nil {
		p.report(err)
	}
}

func (p *parser) start(name string, attrs map[string]string) error {
	switch {
	case name == "aiml":
		if p.state != stOutside {
			return p.errorf("unexpected <aiml> tag")
		}
		p.state = stAIML
		p.insideTopic = false
		p.topic = ""
		if v, have := attrs["version"]; have {
			p.version = v
		} else {
			p.version = BaselineVersion
		}
		p.forwardCompatible = p.version != currentVersion
		return p.pushWhitespace(attrs)

	case p.state == stOutside:
		// Outside the root element, all tags are ignored.
		return nil

	case name == "topic":
		if p.state != stAIML || p.insideTopic {
			return p.errorf("unexpected <topic> tag")
		}
		topic, have := attrs["name"]
		if !have {
			return p.errorf("required \"name\" attribute missing in <topic> element")
		}
		p.topic = topic
		p.insideTopic = true
		return nil

	case name == "category":
		if p.state != stAIML {
			return p.errorf("unexpected <category> tag")
		}
		p.state = stCategory
		p.pattern.Reset()
		p.that.Reset()
		if !p.insideTopic {
			p.topic = "*"
		}
		p.elemStack = nil
		// A skipped category can leave condition bookkeeping behind.
		p.foundDefaultLi = nil
		p.wsDepth = len(p.whitespace)
		return p.pushWhitespace(attrs)

	case name == "pattern":
		if p.state != stCategory {
			return p.errorf("unexpected <pattern> tag")
		}
		p.state = stPattern
		return nil

	case name == "that" && p.state == stAfterPattern:
		// A category-level <that>, between <pattern> and
		// <template>.  (The template element of the same name is
		// handled below.)
		p.state = stThat
		return nil

	case name == "template":
		if p.state != stAfterPattern && p.state != stAfterThat {
			return p.errorf("unexpected <template> tag")
		}
		if p.state == stAfterPattern {
			// No <that> section: it is implicitly "*".
			p.that.Reset()
			p.that.WriteString("*")
		}
		p.state = stTemplate
		p.elemStack = append(p.elemStack, &Node{Tag: "template", Attrs: map[string]string{}})
		return p.pushWhitespace(attrs)

	case p.state == stPattern:
		// Only a bot-name reference may nest inside <pattern>.
		if name == "bot" && attrs["name"] == "name" {
			p.pattern.WriteString(" " + BotNameToken + " ")
			return nil
		}
		return p.errorf("unexpected <%s> tag", name)

	case p.state == stThat:
		if name == "bot" && attrs["name"] == "name" {
			p.that.WriteString(" " + BotNameToken + " ")
			return nil
		}
		return p.errorf("unexpected <%s> tag", name)

	case p.state == stTemplate:
		if _, known := validElements[name]; known {
			if err := p.validateStart(name, attrs); err != nil {
				return err
			}
			p.elemStack = append(p.elemStack, &Node{Tag: name, Attrs: attrs})
			if err := p.pushWhitespace(attrs); err != nil {
				return err
			}
			if name == "condition" {
				p.foundDefaultLi = append(p.foundDefaultLi, false)
			}
			return nil
		}
		fallthrough

	default:
		if p.forwardCompatible {
			// Ignore the unknown element and its contents.
			p.unknown = name
			return nil
		}
		return p.errorf("unexpected <%s> tag", name)
	}
}

func (p *parser) characters(text string) {
	if p.state == stOutside {
		return
	}
	if p.unknown != "" || p.skipCategory {
		return
	}
	if err := p.chars(text); err != nil {
		p.report(err)
	}
}

func (p *parser) chars(text string) error {
	switch p.state {
	case stPattern:
		p.pattern.WriteString(text)
	case stThat:
		p.that.WriteString(text)
	case stTemplate:
		if len(p.elemStack) == 0 {
			return p.errorf("element stack is empty while validating text")
		}
		parent := p.elemStack[len(p.elemStack)-1]
		spec := validElements[parent.Tag]
		nonBlock := nonBlockCondition(parent.Tag, parent.Attrs)
		if !spec.parent {
			return p.errorf("unexpected text inside <%s> element", parent.Tag)
		}
		if parent.Tag == "random" || nonBlock {
			// These elements hold only <li> children, but there's
			// invariably whitespace around the <li>s to ignore.
			if strings.TrimSpace(text) == "" {
				return nil
			}
			return p.errorf("unexpected text inside <%s> element", parent.Tag)
		}

		// Append to a trailing text node if there is one;
		// otherwise start a new text node recording the
		// whitespace mode in effect.
		if n := len(parent.Children); 0 < n && parent.Children[n-1].Tag == TextTag {
			parent.Children[n-1].Text += text
			return nil
		}
		parent.Children = append(parent.Children, &Node{
			Tag:      TextTag,
			Text:     text,
			Preserve: p.whitespace[len(p.whitespace)-1],
		})
	}
	// All other text is ignored.
	return nil
}

func (p *parser) endElement(name string) {
	if p.state == stOutside {
		return
	}
	if p.unknown != "" {
		if name == p.unknown {
			p.unknown = ""
		}
		return
	}
	if p.skipCategory {
		// We stop skipping at any </category>, since we don't
		// track state in ignore mode.
		if name == "category" {
			p.skipCategory = false
			p.state = stAIML
			p.whitespace = p.whitespace[:p.wsDepth]
		}
		return
	}
	if err := p.end(name); err != nil {
		p.report(err)
	}
}

func (p *parser) end(name string) error {
	switch {
	case name == "aiml":
		if p.state != stAIML {
			return p.errorf("unexpected </aiml> tag")
		}
		p.state = stOutside
		p.popWhitespace()
		return nil

	case name == "topic":
		if p.state != stAIML || !p.insideTopic {
			return p.errorf("unexpected </topic> tag")
		}
		p.insideTopic = false
		p.topic = ""
		return nil

	case name == "category":
		if p.state != stAfterTemplate {
			return p.errorf("unexpected </category> tag")
		}
		p.state = stAIML
		p.categories = append(p.categories, Category{
			Pattern:  strings.TrimSpace(p.pattern.String()),
			That:     strings.TrimSpace(p.that.String()),
			Topic:    strings.TrimSpace(p.topic),
			Template: p.elemStack[len(p.elemStack)-1],
		})
		p.popWhitespace()
		return nil

	case name == "pattern":
		if p.state != stPattern {
			return p.errorf("unexpected </pattern> tag")
		}
		p.state = stAfterPattern
		return nil

	case name == "that" && p.state == stThat:
		p.state = stAfterThat
		return nil

	case name == "template":
		if p.state != stTemplate {
			return p.errorf("unexpected </template> tag")
		}
		p.state = stAfterTemplate
		p.popWhitespace()
		return nil

	case p.state == stPattern, p.state == stThat:
		// Only the bot-name reference may close inside these.
		if name != "bot" {
			return p.errorf("unexpected </%s> tag", name)
		}
		return nil

	case p.state == stTemplate:
		// Close an element inside the template: pop it and
		// attach it to the element beneath.
		elem := p.elemStack[len(p.elemStack)-1]
		p.elemStack = p.elemStack[:len(p.elemStack)-1]
		parent := p.elemStack[len(p.elemStack)-1]
		parent.Children = append(parent.Children, elem)
		p.popWhitespace()
		if elem.Tag == "condition" {
			p.foundDefaultLi = p.foundDefaultLi[:len(p.foundDefaultLi)-1]
		}
		return nil

	default:
		return p.errorf("unexpected </%s> tag", name)
	}
}
