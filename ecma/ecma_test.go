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

package ecma

import (
	"context"
	"testing"
	"time"
)

func TestEvalBasic(t *testing.T) {
	e := NewEvaluator()
	ctx := context.Background()

	got, err := e.Eval(ctx, `return "hello, " + _.input;`, map[string]interface{}{
		"input": "world",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello, world" {
		t.Fatalf("got %q", got)
	}
}

func TestEvalNonString(t *testing.T) {
	e := NewEvaluator()
	ctx := context.Background()

	got, err := e.Eval(ctx, `return 1 + 2;`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "3" {
		t.Fatalf("got %q", got)
	}

	if got, err = e.Eval(ctx, `var x = 42;`, nil); err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestEvalBadSource(t *testing.T) {
	e := NewEvaluator()
	if _, err := e.Eval(context.Background(), `return ) nope;`, nil); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestEvalTimeout(t *testing.T) {
	e := &Evaluator{
		Timeout: 20 * time.Millisecond,
	}
	_, err := e.Eval(context.Background(), `for (;;) {}`, nil)
	if err != Interrupted {
		t.Fatalf("expected Interrupted; got %v", err)
	}
}
