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

package main

import (
	"io/ioutil"

	"github.com/jsccast/yaml"
)

// Config is the optional YAML configuration for a golem process.
//
//	botName: Golem
//	predicates:
//	  master: somebody
//	learn:
//	  - standard/*.aiml
//	commands:
//	  - load aiml b
//	sessionDB: sessions.db
//	relearn: "0 3 * * *"
type Config struct {
	// BotName becomes the "name" bot predicate (and so what
	// bot-name pattern references match).
	BotName string `yaml:"botName,omitempty"`

	// Predicates are additional bot predicates.
	Predicates map[string]string `yaml:"predicates,omitempty"`

	// Brain is a saved brain to load before learning.
	Brain string `yaml:"brain,omitempty"`

	// Learn are glob patterns for AIML files.
	Learn []string `yaml:"learn,omitempty"`

	// Subs names a YAML file of substitution tables.
	Subs string `yaml:"subs,omitempty"`

	// Commands are exchanges run in the global session after
	// learning.
	Commands []string `yaml:"commands,omitempty"`

	// SessionDB names a BoltDB file for session persistence.
	SessionDB string `yaml:"sessionDB,omitempty"`

	// Relearn is a cron schedule for re-learning the Learn globs.
	Relearn string `yaml:"relearn,omitempty"`
}

// LoadConfig reads a YAML Config.
func LoadConfig(filename string) (*Config, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	conf := &Config{}
	if err = yaml.Unmarshal(bs, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
