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
	"log"
	"time"

	"github.com/talkshop/golem/kernel"

	"github.com/gorhill/cronexpr"
)

// Relearn reloads the given markup globs on a cron schedule, so a bot
// can pick up rule edits without a restart.  If brainOut is not
// empty, each successful reload also rewrites that snapshot file.
//
// A bad cron expression or an empty one just disables the loop.
func Relearn(ctx context.Context, k *kernel.Kernel, cronLine string, globs []string, brainOut string) {
	if cronLine == "" || 0 == len(globs) {
		return
	}

	expr, err := cronexpr.Parse(cronLine)
	if err != nil {
		log.Printf("bad relearn schedule %#v: %s", cronLine, err)
		return
	}

	for {
		next := expr.Next(time.Now())
		if next.IsZero() {
			log.Printf("relearn schedule %#v has no next time", cronLine)
			return
		}

		t := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		log.Printf("relearning %v", globs)
		for _, glob := range globs {
			if _, err := k.Learn(glob); err != nil {
				log.Printf("relearn error for %#v: %s", glob, err)
			}
		}
		if brainOut != "" {
			if err := k.SaveBrain(brainOut); err != nil {
				log.Printf("relearn brain save error: %s", err)
			}
		}
	}
}
