package aiml

import (
	"strconv"
)

// elemSpec is the validation record for one AIML template element.
type elemSpec struct {
	// required and optional are attribute names.
	required []string
	optional []string

	// parent reports whether the element may contain child
	// elements or text at all.  Atomic elements (<date/>, <sr/>,
	// <size/>, ...) must be empty.
	parent bool
}

// validElements describes the AIML 1.0.1 template grammar.
//
// <condition> and <random> additionally restrict their children to
// <li> elements; see validateStart.
var validElements = map[string]elemSpec{
	"bot":        {required: []string{"name"}},
	"condition":  {optional: []string{"name", "value"}, parent: true},
	"date":       {},
	"formal":     {parent: true},
	"gender":     {parent: true},
	"get":        {required: []string{"name"}},
	"gossip":     {parent: true},
	"id":         {},
	"input":      {optional: []string{"index"}},
	"javascript": {parent: true},
	"learn":      {parent: true},
	"li":         {optional: []string{"name", "value"}, parent: true},
	"lowercase":  {parent: true},
	"person":     {parent: true},
	"person2":    {parent: true},
	"random":     {parent: true},
	"sentence":   {parent: true},
	"set":        {required: []string{"name"}, parent: true},
	"size":       {},
	"sr":         {},
	"srai":       {parent: true},
	"star":       {optional: []string{"index"}},
	"system":     {parent: true},
	"template":   {parent: true},
	"that":       {optional: []string{"index"}},
	"thatstar":   {optional: []string{"index"}},
	"think":      {parent: true},
	"topicstar":  {optional: []string{"index"}},
	"uppercase":  {parent: true},
	"version":    {},
}

// nonBlockCondition reports whether an element is a <condition>
// lacking either its "name" or its "value" attribute.  Such
// conditions may only contain <li> children.
func nonBlockCondition(tag string, attrs map[string]string) bool {
	if tag != "condition" {
		return false
	}
	return attrs["name"] == "" || attrs["value"] == ""
}

func hasKey(m map[string]string, k string) bool {
	_, have := m[k]
	return have
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// validateStart checks an element that is starting inside a
// <template>: its attribute set, whether its parent may contain it,
// and the special shapes of <li> under <condition> and <random>.
func (p *parser) validateStart(name string, attrs map[string]string) error {
	spec := validElements[name]

	for _, a := range spec.required {
		if _, have := attrs[a]; !have && !p.forwardCompatible {
			return p.errorf("required %q attribute missing in <%s> element", a, name)
		}
	}
	for a := range attrs {
		if contains(spec.required, a) {
			continue
		}
		if len(a) >= 4 && a[:4] == "xml:" {
			// Attributes in the "xml" namespace can appear anywhere.
			continue
		}
		if !contains(spec.optional, a) && !p.forwardCompatible {
			return p.errorf("unexpected %q attribute in <%s> element", a, name)
		}
	}

	// The "index" attribute of the star elements must be a
	// positive integer.
	switch name {
	case "star", "thatstar", "topicstar":
		if v, have := attrs["index"]; have {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p.errorf("bad type for \"index\" attribute (expected integer, found %q)", v)
			}
			if n < 1 {
				return p.errorf("\"index\" attribute must have positive value")
			}
		}
	}

	if len(p.elemStack) == 0 {
		// Shouldn't happen: <template> is pushed first.
		return p.errorf("element stack is empty while validating <%s>", name)
	}
	parent := p.elemStack[len(p.elemStack)-1]
	parentSpec := validElements[parent.Tag]
	nonBlock := nonBlockCondition(parent.Tag, parent.Attrs)

	if !parentSpec.parent {
		return p.errorf("<%s> elements cannot have any contents", parent.Tag)
	}
	if (parent.Tag == "random" || nonBlock) && name != "li" {
		return p.errorf("<%s> elements can only contain <li> subelements", parent.Tag)
	}

	if name == "li" {
		if !(parent.Tag == "random" || nonBlock) {
			return p.errorf("unexpected <li> element contained by <%s> element", parent.Tag)
		}
		if !nonBlock {
			return nil
		}
		if p.foundDefaultLi[len(p.foundDefaultLi)-1] {
			// A default was already seen; it has to be last.
			return p.errorf("default <li> element must be the last <li> inside <condition>")
		}
		switch {
		case parent.Attr("name") != "":
			// Single-predicate condition: each <li> carries a
			// "value", except the optional trailing default.
			switch {
			case len(attrs) == 0:
				p.foundDefaultLi[len(p.foundDefaultLi)-1] = true
			case len(attrs) == 1 && hasKey(attrs, "value"):
				// The valid case.
			default:
				return p.errorf("invalid <li> inside single-predicate <condition>")
			}
		case len(parent.Attrs) == 0:
			// Multi-predicate condition: each <li> carries both
			// "name" and "value", except the optional trailing
			// default.
			switch {
			case len(attrs) == 0:
				p.foundDefaultLi[len(p.foundDefaultLi)-1] = true
			case len(attrs) == 2 && attrs["value"] != "" && attrs["name"] != "":
				// The valid case.
			default:
				return p.errorf("invalid <li> inside multi-predicate <condition>")
			}
		}
	}

	return nil
}
