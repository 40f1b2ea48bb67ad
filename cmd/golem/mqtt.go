/* Copyright 2019 Comcast Cable Communications Management, LLC
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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/talkshop/golem/kernel"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTOptions configures the broker connection for ServeMQTT.
type MQTTOptions struct {
	Broker   string
	ClientID string
	Username string
	Password string

	// InTopic is subscribed to for inputs; responses go to
	// OutTopic.  Either can carry a QoS suffix ("golem/in:1").
	InTopic  string
	OutTopic string

	// Quiesce is the disconnection quiescence in milliseconds.
	Quiesce uint
}

// ServeMQTT chats over an MQTT broker.  Messages on InTopic are
// either bare text (answered in the global session) or JSON exchanges
// ({"session":...,"input":...}); each response is published to
// OutTopic as a JSON exchange.
func ServeMQTT(ctx context.Context, k *kernel.Kernel, store *Storage, o MQTTOptions) error {
	mqtt.ERROR = log.New(os.Stderr, "mqtt.error", 0)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID(o.ClientID)
	opts.SetKeepAlive(10 * time.Second)
	opts.Username = o.Username
	opts.Password = o.Password
	opts.AutoReconnect = true

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost")
	}

	outTopic, outQoS := parseTopic(o.OutTopic)

	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		log.Printf("incoming: %s %s", msg.Topic(), msg.Payload())

		var ex wsExchange
		if err := json.Unmarshal(msg.Payload(), &ex); err != nil {
			ex = wsExchange{Input: string(msg.Payload())}
		}
		if ex.Session == "" {
			ex.Session = kernel.GlobalSession
		}

		ex.Response = k.Respond(ctx, ex.Input, ex.Session)

		if err := store.SaveSession(ctx, ex.Session, k.GetSessionData(ex.Session)); err != nil {
			log.Println("session save error", err)
		}

		js, err := json.Marshal(&ex)
		if err != nil {
			log.Printf("failed to marshal %#v", ex)
			return
		}
		token := client.Publish(outTopic, outQoS, false, js)
		token.Wait()
		if token.Error() != nil {
			log.Printf("publish error: %s", token.Error())
		}
	}

	client := mqtt.NewClient(opts)

	log.Printf("attempting to connect to broker %s", o.Broker)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to broker")

	inTopic, inQoS := parseTopic(o.InTopic)
	log.Printf("subscribing to %s (%d)", inTopic, inQoS)
	if t := client.Subscribe(inTopic, inQoS, nil); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	<-ctx.Done()

	log.Printf("disconnecting")
	quiesce := o.Quiesce
	if quiesce == 0 {
		quiesce = 100
	}
	client.Disconnect(quiesce)
	return nil
}

// parseTopic can extract QoS from a topic name of the form TOPIC:QOS.
func parseTopic(s string) (string, byte) {
	var topic string
	var qos byte
	if _, err := fmt.Sscanf(strings.Replace(s, ":", " ", 1), "%s %d", &topic, &qos); err == nil {
		return topic, qos
	}
	return s, 0
}
