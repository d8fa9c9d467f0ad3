package lexer

import (
	"strings"

	"github.com/walteh/codehl/pkg/token"
)

/*
XState Reclassification:
-----------------------

The dialect runs the base scanner unchanged, then makes one pass over the
finished stream:

	createMachine({ states: { idle: { on: { FETCH: 'loading' } } } })
	|             |  |        |        |     |      |
	xstateKeyword |  |        stateName|     |      stateName (subType string)
	              |  |                 |     eventName
	              |  +- sets InStates  +- sets InEvents
	              +- depth 1

Each token is written at most once, to a copy of the input. Context comes
from two sources:

  - XStateContext flags, set when a '{' opens the value of a states/on/
    actions/guards/services key and cleared when nesting returns to depth 1.
  - bounded backward scans over the last few tokens (getMachineContext,
    getObjectContext). Anything beyond the window is not seen, so deeply
    nested configurations can be misclassified.
*/

const (
	// machineLookback bounds the receiver/call scan in getMachineContext.
	machineLookback = 3
	// objectLookback bounds the enclosing-key scan in getObjectContext.
	objectLookback = 10
)

// XState returns the state-machine dialect.
func XState() Language {
	return Language{
		Name:       "xstate",
		Reclassify: ReclassifyXState,
	}
}

// XStateContext is the brace-nesting state of the reclassification pass.
type XStateContext struct {
	InStates   bool
	InEvents   bool
	InActions  bool
	InGuards   bool
	InServices bool
	Depth      int
}

func (c *XStateContext) enter(key string) {
	c.Depth++
	switch key {
	case "states":
		c.InStates = true
	case "on":
		c.InEvents = true
	case "actions":
		c.InActions = true
	case "guards":
		c.InGuards = true
	case "services":
		c.InServices = true
	}
}

func (c *XStateContext) exit() {
	c.Depth--
	if c.Depth <= 1 {
		*c = XStateContext{Depth: c.Depth}
	}
}

// xstateCalls become xstateKeyword when called.
var xstateCalls = map[string]bool{
	"assign": true, "send": true, "sendTo": true, "raise": true,
	"choose": true, "pure": true, "log": true,
	"createMachine": true, "setup": true, "createActor": true,
	"interpret": true, "spawn": true,
}

// configKeys are machine configuration properties; they are never state names.
var configKeys = map[string]bool{
	"id": true, "initial": true, "states": true, "on": true, "entry": true,
	"exit": true, "always": true, "after": true, "invoke": true, "type": true,
	"context": true, "actions": true, "guards": true, "services": true,
	"actors": true, "delays": true, "target": true, "cond": true, "guard": true,
	"src": true, "onDone": true, "onError": true, "meta": true, "tags": true,
	"description": true, "history": true, "data": true, "input": true,
	"output": true, "schema": true, "tsTypes": true, "systemId": true,
	"reenter": true, "internal": true, "predictableActionArguments": true,
	"preserveActionOrder": true,
}

// ReclassifyXState returns a copy of tokens with state-machine names
// reclassified. The input slice is not modified.
func ReclassifyXState(tokens []token.Token) []token.Token {
	out := make([]token.Token, len(tokens))
	copy(out, tokens)

	var ctx XStateContext
	for i := range out {
		switch {
		case out[i].IsPunct("{"):
			ctx.enter(keyBefore(out, i))
		case out[i].IsPunct("}"):
			ctx.exit()
		case out[i].Type == token.Identifier:
			if typ, ok := classifyXStateIdentifier(out, i, &ctx); ok {
				out[i].Type = typ
			}
		case out[i].Type == token.String:
			if typ, ok := classifyXStateString(out, i, &ctx); ok {
				out[i] = out[i].WithMeta(token.MetaSubType, "string")
				out[i].Type = typ
			}
		}
	}
	return out
}

func classifyXStateIdentifier(tokens []token.Token, i int, ctx *XStateContext) (token.Type, bool) {
	word := tokens[i].Value

	if next := at(tokens, i+1); next != nil && next.IsPunct("(") && xstateCalls[word] {
		return token.XStateKeyword, true
	}

	switch getMachineContext(tokens, i) {
	case "context":
		return token.ContextProperty, true
	case "event":
		return token.EventProperty, true
	}

	next := at(tokens, i+1)
	if next == nil || !next.IsPunct(":") {
		return "", false
	}

	switch getObjectContext(tokens, i) {
	case "on":
		if isUpperSnake(word) {
			return token.EventName, true
		}
		return "", false
	case "states":
		if looksLikeState(word) && !configKeys[word] {
			return token.StateName, true
		}
		return "", false
	case "services", "actors":
		return token.ServiceName, true
	case "actions", "guards":
		return token.Function, true
	case "context":
		return token.ContextProperty, true
	case "":
		if ctx.InEvents && isUpperSnake(word) {
			return token.EventName, true
		}
		if ctx.InStates && looksLikeState(word) && !configKeys[word] {
			return token.StateName, true
		}
	}
	return "", false
}

func classifyXStateString(tokens []token.Token, i int, ctx *XStateContext) (token.Type, bool) {
	prev := at(tokens, i-1)
	if prev == nil {
		return "", false
	}

	if prev.IsPunct("(") {
		if call := at(tokens, i-2); call != nil && (call.Value == "send" || call.Value == "raise") {
			return token.EventName, true
		}
		return "", false
	}

	if !prev.IsPunct(":") {
		return "", false
	}
	key := at(tokens, i-2)
	if key == nil {
		return "", false
	}

	switch keyName(*key) {
	case "target", "initial":
		return token.StateName, true
	case "src":
		return token.ServiceName, true
	}

	// shorthand transition: on: { EVENT: 'target' }
	if isUpperSnake(keyName(*key)) {
		obj := getObjectContext(tokens, i-2)
		if obj == "on" || (obj == "" && ctx.InEvents) {
			return token.StateName, true
		}
	}
	return "", false
}

// getMachineContext looks a few tokens back for a receiver the token is a
// member of: "context" for context.x, "event" for event.x, else "".
func getMachineContext(tokens []token.Token, i int) string {
	for k := 1; k <= machineLookback && i-k >= 0; k++ {
		t := tokens[i-k]
		if t.IsPunct(".") || t.Is(token.Operator, "?.") {
			continue
		}
		if k == 1 {
			// not a member access
			return ""
		}
		switch t.Value {
		case "context", "event":
			return t.Value
		}
		return ""
	}
	return ""
}

// getObjectContext returns the key whose object value encloses token i, by
// walking back at most objectLookback tokens over balanced braces. It returns
// "" when the enclosing '{' is outside the window or is not a key's value.
func getObjectContext(tokens []token.Token, i int) string {
	depth := 0
	for k := 1; k <= objectLookback && i-k >= 0; k++ {
		j := i - k
		switch {
		case tokens[j].IsPunct("}"):
			depth++
		case tokens[j].IsPunct("{"):
			if depth > 0 {
				depth--
				continue
			}
			return keyBefore(tokens, j)
		}
	}
	return ""
}

// keyBefore returns the property name when tokens[i] follows "key:".
func keyBefore(tokens []token.Token, i int) string {
	colon := at(tokens, i-1)
	key := at(tokens, i-2)
	if colon == nil || key == nil || !colon.IsPunct(":") {
		return ""
	}
	return keyName(*key)
}

// keyName returns the property name a key token spells, unquoting strings.
func keyName(t token.Token) string {
	switch t.Type {
	case token.String:
		return strings.Trim(t.Value, `"'`)
	case token.Punctuation, token.Operator, token.Comment:
		return ""
	}
	return t.Value
}

func at(tokens []token.Token, i int) *token.Token {
	if i < 0 || i >= len(tokens) {
		return nil
	}
	return &tokens[i]
}

func isUpperSnake(word string) bool {
	if word == "" || word[0] < 'A' || word[0] > 'Z' {
		return false
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '_' {
			return false
		}
	}
	return true
}

func isCamelCase(word string) bool {
	if word == "" || word[0] < 'a' || word[0] > 'z' {
		return false
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func looksLikeState(word string) bool {
	return isCamelCase(word) || isUpperSnake(word)
}
