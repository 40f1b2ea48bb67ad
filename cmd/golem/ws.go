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
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/talkshop/golem/kernel"

	"github.com/gorilla/websocket"
)

// wsExchange is one message in either direction on the WebSocket.  A
// client may also send a bare text line, which is treated as input
// for the connection's default session.
type wsExchange struct {
	Session  string `json:"session,omitempty"`
	Input    string `json:"input"`
	Response string `json:"response,omitempty"`
}

// WebSocketHandler answers chat exchanges over a WebSocket at /ws.
//
// The default session for a connection is taken from the "session"
// query parameter, falling back to the client's address.
func WebSocketHandler(ctx context.Context, k *kernel.Kernel, store *Storage) http.HandlerFunc {
	var upgrader = websocket.Upgrader{} // use default options

	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error", err)
			return
		}
		defer c.Close()

		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = r.RemoteAddr
		}
		log.Printf("ws connection (session %q)", sessionID)

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				log.Println("read error", err)
				break
			}

			var ex wsExchange
			if err = json.Unmarshal(message, &ex); err != nil {
				// Not JSON: the whole message is the input.
				ex = wsExchange{Input: string(message)}
			}
			if ex.Session == "" {
				ex.Session = sessionID
			}

			ex.Response = k.Respond(ctx, ex.Input, ex.Session)

			if err = store.SaveSession(ctx, ex.Session, k.GetSessionData(ex.Session)); err != nil {
				log.Println("session save error", err)
			}

			js, err := json.Marshal(&ex)
			if err != nil {
				log.Println("marshal error", err)
				continue
			}
			if err = c.WriteMessage(mt, js); err != nil {
				log.Println("write error", err)
				break
			}
		}
	}
}
