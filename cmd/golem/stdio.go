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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/talkshop/golem/kernel"
)

// Stdio chats on stdin/stdout until EOF.
//
// A few slash commands are understood:
//
//	/session ID   switch to another session
//	/save FILE    save the brain to FILE
//	/quit         exit
func Stdio(ctx context.Context, k *kernel.Kernel, store *Storage) error {
	in := bufio.NewScanner(os.Stdin)
	sessionID := kernel.GlobalSession

	for {
		fmt.Printf("> ")
		if !in.Scan() {
			break
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			args := strings.Fields(line)
			switch args[0] {
			case "/quit":
				return nil
			case "/session":
				if len(args) < 2 {
					fmt.Printf("session is %q\n", sessionID)
					continue
				}
				sessionID = args[1]
				fmt.Printf("now talking in session %q\n", sessionID)
			case "/save":
				if len(args) < 2 {
					fmt.Println("usage: /save FILE")
					continue
				}
				if err := k.SaveBrain(args[1]); err != nil {
					fmt.Println("error:", err)
				}
			default:
				fmt.Printf("unknown command %q\n", args[0])
			}
			continue
		}

		fmt.Println(k.Respond(ctx, line, sessionID))

		if err := store.SaveSession(ctx, sessionID, k.GetSessionData(sessionID)); err != nil {
			fmt.Println("session save error:", err)
		}
	}

	return in.Err()
}
