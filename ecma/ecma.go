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

// Package ecma provides an optional ECMAScript evaluator for
// "javascript" template elements, backed by Goja, which is a Go
// implementation of ECMAScript 5.1+.
//
// See https://github.com/dop251/goja.
//
// The engine does not require this package.  Unless an Evaluator is
// attached explicitly, "javascript" elements just process their
// contents silently.
package ecma

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Eval if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)

	// DefaultTimeout limits each Eval unless the Evaluator says
	// otherwise.
	DefaultTimeout = time.Second
)

// Evaluator runs template script against a fresh Goja runtime per
// call.
type Evaluator struct {

	// Timeout, when positive, bounds each Eval.
	Timeout time.Duration
}

// NewEvaluator makes an Evaluator with the DefaultTimeout.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		Timeout: DefaultTimeout,
	}
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// Eval runs the given source and returns the string form of its
// value.
//
// The following properties are available from the runtime at _.
//
//	predicates: the calling session's predicate map (a copy, so
//	  writes have no effect).
//	input: the sentence that led here.
//
// A value of null or undefined gives "".
func (e *Evaluator) Eval(ctx context.Context, src string, env map[string]interface{}) (string, error) {
	p, err := goja.Compile("", wrapSrc(src), true)
	if err != nil {
		return "", err
	}

	o := goja.New()
	if env == nil {
		env = map[string]interface{}{}
	}
	o.Set("_", env)

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithTimeout(ctx, timeout)
	go func() {
		<-ictx.Done()
		// If Eval calls cancel() after runProgram returns,
		// then we'll never see this InterruptedMessage, which
		// is actually the behavior we want.  In this case, we
		// weren't actually interrupted.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := runProgram(o, p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return "", Interrupted
		}
		return "", err
	}

	x := v.Export()

	switch vv := x.(type) {
	case nil:
		return "", nil
	case string:
		return vv, nil
	default:
		return fmt.Sprintf("%v", vv), nil
	}
}

func runProgram(o *goja.Runtime, p *goja.Program) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s", r)
		}
	}()
	return o.RunProgram(p)
}
