package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easeaico/her-line/internal/persona"
	"github.com/easeaico/her-line/internal/storage"
	"github.com/easeaico/her-line/internal/types"
)

func newTestHandler(t *testing.T) (*CommandHandler, *persona.Registry, *storage.UserStore) {
	t.Helper()
	personas, err := persona.Builtin()
	require.NoError(t, err)
	store := storage.NewUserStore(4)
	registry, err := persona.NewRegistry(personas, "muryi", store)
	require.NoError(t, err)
	return NewCommandHandler(registry, store), registry, store
}

func TestPing(t *testing.T) {
	h, _, store := newTestHandler(t)

	reply, ok := h.TryDispatch("/ping", "u1")
	require.True(t, ok)
	assert.Equal(t, "(system) pong", reply)
	assert.Equal(t, 0, store.Len())
}

func TestDebugToggle(t *testing.T) {
	h, _, store := newTestHandler(t)

	reply, ok := h.TryDispatch("/debug on", "u1")
	require.True(t, ok)
	assert.Equal(t, "(system) debug: ON", reply)
	state, _ := store.Get("u1")
	assert.True(t, state.Debug)

	reply, ok = h.TryDispatch("/DEBUG　OFF", "u1")
	require.True(t, ok)
	assert.Equal(t, "(system) debug: OFF", reply)
	state, _ = store.Get("u1")
	assert.False(t, state.Debug)
}

func TestPersonaSwitchIsCaseAndWidthInsensitive(t *testing.T) {
	for _, input := range []string{"/SET PIONA", "ｓｅｔ：ｐｉｏｎａ", "/piona", "／ＰＩＯＮＡ", "set:piona"} {
		t.Run(input, func(t *testing.T) {
			h, registry, _ := newTestHandler(t)

			reply, ok := h.TryDispatch(input, "u1")
			require.True(t, ok)
			assert.Equal(t, "(system) ピオナに切替えたよ！", reply)

			p, err := registry.Current("u1")
			require.NoError(t, err)
			assert.Equal(t, "piona", p.Name)
		})
	}
}

func TestSwitchBack(t *testing.T) {
	h, registry, _ := newTestHandler(t)

	_, ok := h.TryDispatch("/piona", "u1")
	require.True(t, ok)
	reply, ok := h.TryDispatch("/set muryi", "u1")
	require.True(t, ok)
	assert.Equal(t, "(system) ミュリィに切替えたよ！", reply)

	p, err := registry.Current("u1")
	require.NoError(t, err)
	assert.Equal(t, "muryi", p.Name)
}

func TestWho(t *testing.T) {
	h, _, store := newTestHandler(t)

	reply, ok := h.TryDispatch("/who", "u1")
	require.True(t, ok)
	assert.Equal(t, "(system) 現在は「ミュリィ」です", reply)

	_, _ = h.TryDispatch("/piona", "u1")
	reply, ok = h.TryDispatch("WHO？", "u1")
	require.True(t, ok)
	assert.Equal(t, "(system) 現在は「ピオナ」です", reply)

	store.Update("u2", func(state *types.UserState) { state.Persona = "retired" })
	reply, ok = h.TryDispatch("who?", "u2")
	require.True(t, ok)
	assert.Equal(t, "(system) 現在は「ミュリィ」です", reply)
}

func TestNotACommand(t *testing.T) {
	h, _, store := newTestHandler(t)

	for _, input := range []string{"ありがとう", "/set nobody", "/debug", "set piona", ""} {
		reply, ok := h.TryDispatch(input, "u1")
		assert.False(t, ok, input)
		assert.Empty(t, reply)
	}
	assert.Equal(t, 0, store.Len())
}

func TestCommands(t *testing.T) {
	h, _, _ := newTestHandler(t)
	assert.Contains(t, h.Commands(), "/set piona")
	assert.Contains(t, h.Commands(), "/muryi")
	assert.Contains(t, h.Commands(), "who?")
}

func TestConfirmationsAreSystemPrefixed(t *testing.T) {
	h, _, _ := newTestHandler(t)

	for _, cmd := range h.Commands() {
		reply, ok := h.TryDispatch(cmd, "u1")
		require.True(t, ok, cmd)
		assert.True(t, strings.HasPrefix(reply, "(system) "), "%s -> %q", cmd, reply)
	}
}
