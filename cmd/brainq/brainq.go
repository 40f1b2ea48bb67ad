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

// Package main is a little command-line utility to query a rule index
// directly, without running a full bot.
//
//	brainq -a 'standard/*.aiml' -i 'do you like cheese' -t 'yes'
//
// It prints the matched template (if any) and the captured wildcard
// spans.  -bench reports match timing.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/talkshop/golem/aiml"
	"github.com/talkshop/golem/brain"
)

func main() {
	var (
		aimlGlob  = flag.String("a", "", "glob of AIML files to learn")
		brainFile = flag.String("brain", "", "saved brain snapshot to load")
		botName   = flag.String("name", "", "bot name (for <bot name=\"name\"/> in patterns)")

		input = flag.String("i", "", "input to match")
		that  = flag.String("t", "", "previous bot response")
		topic = flag.String("topic", "", "conversation topic")

		bench = flag.Int("bench", 0, "number of times to run (and report time)")
	)

	flag.Parse()

	b := brain.New()

	if *brainFile != "" {
		if err := b.RestoreFile(*brainFile); err != nil {
			log.Fatal(err)
		}
	}
	if *botName != "" {
		b.SetBotName(*botName)
	}

	if *aimlGlob != "" {
		filenames, err := filepath.Glob(*aimlGlob)
		if err != nil {
			log.Fatal(err)
		}
		sort.Strings(filenames)
		for _, filename := range filenames {
			cats, discarded, err := aiml.ParseFile(filename)
			if err != nil {
				log.Fatal(err)
			}
			if 0 < discarded {
				log.Printf("%s: discarded %d bad categories", filename, discarded)
			}
			for _, c := range cats {
				b.AddCategory(c)
			}
		}
	}

	if 0 == b.NumTemplates() {
		log.Fatal("no categories (need -a or -brain)")
	}
	log.Printf("%d categories", b.NumTemplates())

	if 0 < *bench {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		allocs := stats.TotalAlloc
		then := time.Now()
		for i := 0; i < *bench; i++ {
			b.Match(*input, *that, *topic)
		}
		elapsed := time.Now().Sub(then)
		meanNanos := elapsed.Nanoseconds() / int64(*bench)

		runtime.ReadMemStats(&stats)
		allocated := (stats.TotalAlloc - allocs) / uint64(*bench)

		log.Printf("%d iterations, %d mean ns/Match, %d mean bytes allocated per Match", *bench, meanNanos, allocated)
	}

	template := b.Match(*input, *that, *topic)
	if template == nil {
		fmt.Printf("no match\n")
		return
	}

	fmt.Printf("template: %s\n", sketch(template))

	for _, dim := range []brain.Dimension{brain.Pattern, brain.That, brain.Topic} {
		for index := 1; ; index++ {
			span := b.Star(dim, index, *input, *that, *topic)
			if span == "" {
				break
			}
			fmt.Printf("%s %d: %q\n", dim, index, span)
		}
	}
}

// sketch renders a template tree as one line of XML-ish text.
func sketch(n *aiml.Node) string {
	if n.Tag == aiml.TextTag {
		return n.Text
	}
	var acc strings.Builder
	acc.WriteString("<" + n.Tag)
	for name, value := range n.Attrs {
		fmt.Fprintf(&acc, " %s=%q", name, value)
	}
	if 0 == len(n.Children) {
		acc.WriteString("/>")
		return acc.String()
	}
	acc.WriteString(">")
	for _, kid := range n.Children {
		acc.WriteString(sketch(kid))
	}
	acc.WriteString("</" + n.Tag + ">")
	return acc.String()
}
