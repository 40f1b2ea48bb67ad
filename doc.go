// Package golem provides an AIML 1.0.1 chatbot engine.
//
// Package 'aiml' parses rule documents, package 'brain' indexes them
// for wildcard pattern matching, and package 'kernel' runs
// conversations.  The command-line bot is in 'cmd/golem'.
package golem
