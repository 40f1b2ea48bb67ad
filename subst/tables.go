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

package subst

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// Tables is the standard set of substitution tables, keyed by name
// ("gender", "person", "person2", "normal").
type Tables map[string]*WordSub

// DefaultTables builds the stock set.
func DefaultTables() Tables {
	return Tables{
		"gender":  New(DefaultGender),
		"person":  New(DefaultPerson),
		"person2": New(DefaultPerson2),
		"normal":  New(DefaultNormal),
	}
}

// LoadFile reads substitution tables from a YAML file and merges them
// into ts.  The file maps table names to before/after pairs:
//
//	normal:
//	  btw: by the way
//	gender:
//	  zie: zir
//
// Entries land on top of whatever the named table already holds; a
// name not already in ts gets a fresh table.
func (ts Tables) LoadFile(filename string) error {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var raw map[string]map[string]string
	if err = yaml.Unmarshal(bs, &raw); err != nil {
		return err
	}

	for name, subs := range raw {
		ws, have := ts[name]
		if !have {
			ws = New(nil)
			ts[name] = ws
		}
		for before, after := range subs {
			ws.Add(before, after)
		}
	}

	return nil
}
