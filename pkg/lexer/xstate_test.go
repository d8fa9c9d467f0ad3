package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/codehl/pkg/diff"
	"github.com/walteh/codehl/pkg/lexer"
	"github.com/walteh/codehl/pkg/token"
)

const machine = `createMachine({
  initial: 'idle',
  context: { count: 0 },
  states: {
    idle: {
      on: { FETCH: 'loading' }
    },
    loading: {
      entry: () => send('RESOLVE'),
      on: { DONE: { target: 'idle' } }
    }
  },
  guards: { isReady: (context, event) => context.ready && event.ok }
})`

func typesOf(tokens []token.Token, value string) []token.Type {
	var out []token.Type
	for _, t := range tokens {
		if t.Value == value {
			out = append(out, t.Type)
		}
	}
	return out
}

func TestTokenizeXState(t *testing.T) {
	got := lexer.Tokenize(machine, lexer.XState())
	require.NoError(t, token.Validate(got, machine))

	tests := []struct {
		name     string
		value    string
		expected []token.Type
	}{
		{name: "machine_factory", value: "createMachine", expected: []token.Type{token.XStateKeyword}},
		{name: "send_call", value: "send", expected: []token.Type{token.XStateKeyword}},
		{name: "initial_and_target_strings", value: "'idle'", expected: []token.Type{token.StateName, token.StateName}},
		{name: "shorthand_transition", value: "'loading'", expected: []token.Type{token.StateName}},
		{name: "sent_event", value: "'RESOLVE'", expected: []token.Type{token.EventName}},
		{name: "state_keys", value: "idle", expected: []token.Type{token.StateName}},
		{name: "state_key_after_sibling", value: "loading", expected: []token.Type{token.StateName}},
		{name: "event_key", value: "FETCH", expected: []token.Type{token.EventName}},
		{name: "event_key_with_object", value: "DONE", expected: []token.Type{token.EventName}},
		{name: "context_key", value: "count", expected: []token.Type{token.ContextProperty}},
		{name: "guard_key", value: "isReady", expected: []token.Type{token.Function}},
		{name: "context_member", value: "ready", expected: []token.Type{token.ContextProperty}},
		{name: "event_member", value: "ok", expected: []token.Type{token.EventProperty}},
		{name: "config_keys_untouched", value: "entry", expected: []token.Type{token.Identifier}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, typesOf(got, tt.value))
		})
	}

	for _, tok := range got {
		if tok.Type == token.StateName && tok.Value[0] == '\'' {
			assert.Equal(t, "string", tok.Metadata[token.MetaSubType])
		}
	}
}

func TestTokenizeXState_StatesContext(t *testing.T) {
	src := `states: { idle: {} }`
	got := lexer.Tokenize(src, lexer.XState())

	expected := lexer.Tokenize(src, lexer.Base())
	for i := range expected {
		if expected[i].Value == "idle" {
			expected[i].Type = token.StateName
		}
	}
	assert.Empty(t, diff.Tokens(expected, got), "only idle is reclassified")
}

func TestReclassifyXState_DoesNotModifyInput(t *testing.T) {
	src := `on: { GO: 'next' }`
	base := lexer.Tokenize(src, lexer.Base())
	before := collect(base)

	got := lexer.ReclassifyXState(base)

	assert.Equal(t, before, collect(base))
	assert.Equal(t, []token.Type{token.EventName}, typesOf(got, "GO"))
	assert.Equal(t, []token.Type{token.StateName}, typesOf(got, "'next'"))
	assert.Nil(t, base[len(base)-2].Metadata)
}
