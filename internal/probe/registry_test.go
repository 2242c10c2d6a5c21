package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Unregistered(t *testing.T) {
	r := NewRegistry()
	err := r.Resolve(context.Background(), "app")
	require.True(t, IsNotFound(err))
}

func TestRegistry_InitRunsOnce(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("app", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, r.Resolve(context.Background(), "app"))
	require.NoError(t, r.Resolve(context.Background(), "app"))
	require.Equal(t, 1, calls)
}

func TestRegistry_InitFailureIsBroken(t *testing.T) {
	r := NewRegistry()
	initErr := errors.New("connection refused")
	r.Register("app", func(context.Context) error { return initErr })

	err := r.Resolve(context.Background(), "app")
	require.ErrorIs(t, err, initErr)
	require.False(t, IsNotFound(err))
	require.Contains(t, err.Error(), `initializing "app"`)
}

func TestRegistry_NilInit(t *testing.T) {
	r := NewRegistry()
	r.Register("app", nil)
	require.NoError(t, r.Resolve(context.Background(), "app"))
}

func TestRegistry_RegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.Register("app", nil)

	require.Panics(t, func() { r.Register("app", nil) })
	require.Panics(t, func() { r.Register("", nil) })
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("worker", nil)
	r.Register("app", nil)

	require.Equal(t, []string{"app", "worker"}, r.Names())
}
