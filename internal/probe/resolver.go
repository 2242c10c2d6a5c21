// Package probe resolves named collaborator modules and turns the result
// into a PASS-or-SKIP check.
package probe

//go:generate go tool mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks

import (
	"context"
	"errors"
)

// ErrNotFound is wrapped by resolvers when a module cannot be located at
// all. Any other resolution error means the module exists but is broken.
var ErrNotFound = errors.New("module not found")

// Resolver attempts to resolve a module identifier.
type Resolver interface {
	Resolve(ctx context.Context, id string) error
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, id string) error

func (f ResolverFunc) Resolve(ctx context.Context, id string) error {
	return f(ctx, id)
}

// IsNotFound reports whether err means the module could not be located.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
