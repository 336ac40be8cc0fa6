package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easeaico/her-line/internal/storage"
	"github.com/easeaico/her-line/internal/types"
)

func newTestRegistry(t *testing.T) (*Registry, *storage.UserStore) {
	t.Helper()
	personas, err := Builtin()
	require.NoError(t, err)
	store := storage.NewUserStore(4)
	registry, err := NewRegistry(personas, "muryi", store)
	require.NoError(t, err)
	return registry, store
}

func TestRegistryDefaults(t *testing.T) {
	registry, store := newTestRegistry(t)

	p, err := registry.Current("new-user")
	require.NoError(t, err)
	assert.Equal(t, "muryi", p.Name)
	assert.Equal(t, []string{"muryi", "piona"}, registry.Names())
	assert.Equal(t, 0, store.Len(), "reading the persona must not create state")
}

func TestRegistrySet(t *testing.T) {
	registry, _ := newTestRegistry(t)

	p, err := registry.Set("u1", "piona")
	require.NoError(t, err)
	assert.Equal(t, "ピオナ", p.DisplayName)

	current, err := registry.Current("u1")
	require.NoError(t, err)
	assert.Equal(t, "piona", current.Name)

	other, err := registry.Current("u2")
	require.NoError(t, err)
	assert.Equal(t, "muryi", other.Name)
}

func TestRegistrySetUnknown(t *testing.T) {
	registry, store := newTestRegistry(t)

	_, err := registry.Set("u1", "nobody")
	assert.ErrorIs(t, err, ErrUnknownPersona)
	assert.Equal(t, 0, store.Len())
}

func TestRegistryCurrentWithStaleName(t *testing.T) {
	registry, store := newTestRegistry(t)
	store.Update("u1", func(state *types.UserState) { state.Persona = "retired" })

	_, err := registry.Current("u1")
	assert.ErrorIs(t, err, ErrUnknownPersona)
}

func TestNewRegistryErrors(t *testing.T) {
	personas, err := Builtin()
	require.NoError(t, err)
	store := storage.NewUserStore(1)

	_, err = NewRegistry(nil, "", store)
	assert.Error(t, err)

	_, err = NewRegistry(personas, "", nil)
	assert.Error(t, err)

	_, err = NewRegistry(personas, "nobody", store)
	assert.ErrorIs(t, err, ErrUnknownPersona)

	_, err = NewRegistry(append(personas, personas[0]), "", store)
	assert.ErrorContains(t, err, "registered twice")

	registry, err := NewRegistry(personas, "", store)
	require.NoError(t, err)
	assert.Equal(t, "muryi", registry.Default().Name)
}
