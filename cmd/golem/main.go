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

// Package main is the golem chatbot process.
//
// By default it learns the AIML files named as arguments and chats on
// stdin/stdout:
//
//	golem -bot-name Golem standard/*.aiml
//
// -http serves a web console (with a WebSocket endpoint) instead, and
// -mq connects to an MQTT broker.  -session-db persists sessions to a
// BoltDB file across restarts.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/talkshop/golem/ecma"
	"github.com/talkshop/golem/kernel"
)

func main() {
	var (
		configFile = flag.String("c", "", "optional YAML config file")
		botName    = flag.String("bot-name", "", "bot name (overrides the config file)")
		brainIn    = flag.String("brain-in", "", "saved brain to load before learning")
		brainOut   = flag.String("brain-out", "", "save the brain here after learning")
		subsFile   = flag.String("subs", "", "optional YAML file of substitution tables")
		sessionDB  = flag.String("session-db", "", "optional BoltDB file for session persistence")
		httpAddr   = flag.String("http", "", `serve an HTTP chat console (e.g. ":8080")`)
		broker     = flag.String("mq", "", `connect to an MQTT broker (e.g. "tcp://localhost:1883")`)
		mqClientID = flag.String("mq-id", "golem", "MQTT client id")
		mqUser     = flag.String("mq-user", "", "MQTT username")
		mqPass     = flag.String("mq-pass", "", "MQTT password")
		mqIn       = flag.String("mq-in", "golem/in", "MQTT topic to listen on")
		mqOut      = flag.String("mq-out", "golem/out", "MQTT topic to respond on")
		relearnAt  = flag.String("relearn", "", `cron schedule for re-learning (e.g. "0 3 * * *")`)
		enableJS   = flag.Bool("js", false, "evaluate javascript template elements")
		verbose    = flag.Bool("v", false, "verbose")
	)

	flag.Parse()

	conf := &Config{}
	if *configFile != "" {
		var err error
		if conf, err = LoadConfig(*configFile); err != nil {
			log.Fatal(err)
		}
	}

	// Flags win over the config file.
	if *botName != "" {
		conf.BotName = *botName
	}
	if *brainIn != "" {
		conf.Brain = *brainIn
	}
	if *subsFile != "" {
		conf.Subs = *subsFile
	}
	if *sessionDB != "" {
		conf.SessionDB = *sessionDB
	}
	if *relearnAt != "" {
		conf.Relearn = *relearnAt
	}
	conf.Learn = append(conf.Learn, flag.Args()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	k := kernel.New()
	k.Verbose(*verbose)
	if *enableJS {
		k.JS = ecma.NewEvaluator()
	}
	if conf.BotName != "" {
		k.SetBotPredicate("name", conf.BotName)
	}
	for name, value := range conf.Predicates {
		k.SetBotPredicate(name, value)
	}
	if conf.Subs != "" {
		if err := k.LoadSubs(conf.Subs); err != nil {
			log.Fatal(err)
		}
	}

	if err := k.Bootstrap(ctx, conf.Brain, conf.Learn, conf.Commands); err != nil {
		log.Fatal(err)
	}
	log.Printf("%s ready (%d categories)", k.Version(), k.NumCategories())

	if *brainOut != "" {
		if err := k.SaveBrain(*brainOut); err != nil {
			log.Fatal(err)
		}
	}

	var store *Storage
	if conf.SessionDB != "" {
		var err error
		if store, err = NewStorage(conf.SessionDB); err != nil {
			log.Fatal(err)
		}
		if err = store.Open(ctx); err != nil {
			log.Fatal(err)
		}
		defer store.Close(ctx)

		if err = store.RestoreInto(ctx, k); err != nil {
			log.Fatal(err)
		}
	}

	if conf.Relearn != "" {
		go Relearn(ctx, k, conf.Relearn, conf.Learn, *brainOut)
	}

	switch {
	case *httpAddr != "":
		if err := ServeHTTP(ctx, k, store, *httpAddr); err != nil {
			log.Fatal(err)
		}
	case *broker != "":
		opts := MQTTOptions{
			Broker:   *broker,
			ClientID: *mqClientID,
			Username: *mqUser,
			Password: *mqPass,
			InTopic:  *mqIn,
			OutTopic: *mqOut,
		}
		if err := ServeMQTT(ctx, k, store, opts); err != nil {
			log.Fatal(err)
		}
	default:
		if err := Stdio(ctx, k, store); err != nil {
			log.Fatal(err)
		}
	}
}
