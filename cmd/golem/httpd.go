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
	"html"
	"log"
	"net/http"

	"github.com/talkshop/golem/kernel"

	md "github.com/russross/blackfriday/v2"
)

const consolePage = `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
<div id="log" style="white-space: pre-wrap; font-family: monospace;"></div>
<form id="f"><input id="in" size="60" autofocus/><button>Send</button></form>
<script>
var log = document.getElementById("log");
var ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = function (e) {
  var m = JSON.parse(e.data);
  log.textContent += "> " + m.input + "\n" + m.response + "\n";
};
document.getElementById("f").onsubmit = function (e) {
  e.preventDefault();
  var i = document.getElementById("in");
  ws.send(JSON.stringify({input: i.value}));
  i.value = "";
};
</script>
</body>
</html>
`

// ServeHTTP runs the web chat console: the page at /, the WebSocket
// at /ws, a plain POST API at /respond, and a transcript at /history.
func ServeHTTP(ctx context.Context, k *kernel.Kernel, store *Storage, addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name := html.EscapeString(k.GetBotPredicate("name"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, consolePage, name, name)
	})

	mux.HandleFunc("/ws", WebSocketHandler(ctx, k, store))

	mux.HandleFunc("/respond", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		input := r.FormValue("input")
		sessionID := r.FormValue("session")
		if sessionID == "" {
			sessionID = kernel.GlobalSession
		}

		ex := wsExchange{
			Session:  sessionID,
			Input:    input,
			Response: k.Respond(ctx, input, sessionID),
		}
		if err := store.SaveSession(ctx, sessionID, k.GetSessionData(sessionID)); err != nil {
			log.Println("session save error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&ex)
	})

	// The transcript is rendered as Markdown, so templates are free
	// to emit emphasis, links, and the like.
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.FormValue("session")
		if sessionID == "" {
			sessionID = kernel.GlobalSession
		}
		d := k.GetSessionData(sessionID)

		doc := fmt.Sprintf("# %s\n\n", k.GetBotPredicate("name"))
		for i, in := range d.Inputs {
			doc += fmt.Sprintf("**%s**\n\n", in)
			if i < len(d.Outputs) {
				doc += d.Outputs[i] + "\n\n"
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(md.Run([]byte(doc)))
	})

	log.Printf("listening on %s", addr)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	return server.ListenAndServe()
}
