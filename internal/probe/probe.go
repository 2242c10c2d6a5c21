package probe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spboyer/smoke/internal/checks"
)

// KindImport is the suite type of import probes.
const KindImport = "import"

// NotAvailableMessage is the SKIP diagnostic used when a module cannot be
// located.
const NotAvailableMessage = "module not available"

// Option configures an import probe.
type Option func(*options)

type options struct {
	name    string
	lenient bool
}

// WithName overrides the default "import:<id>" check name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLenient makes every resolution error a SKIP, not just ErrNotFound.
// This matches a catch-all import guard, which cannot tell an absent module
// from one that fails while initializing.
func WithLenient(lenient bool) Option {
	return func(o *options) {
		o.lenient = lenient
	}
}

// New returns a check that resolves id with r. A resolved module passes,
// an unlocatable module skips with NotAvailableMessage, and any other error
// is returned unchanged so the runner records it as a failure.
func New(id string, r Resolver, opts ...Option) checks.Check {
	o := options{name: "import:" + id}
	for _, opt := range opts {
		opt(&o)
	}

	return checks.Check{
		Name:        o.name,
		Kind:        KindImport,
		Description: fmt.Sprintf("resolve module %q", id),
		Procedure: func(ctx context.Context) error {
			err := r.Resolve(ctx, id)
			switch {
			case err == nil:
				return nil
			case IsNotFound(err):
				slog.Debug("Module not located", "module", id, "error", err)
				return checks.Skip(NotAvailableMessage)
			case o.lenient:
				slog.Debug("Module failed to resolve, skipping (lenient)", "module", id, "error", err)
				return checks.Skipf("%s: %v", NotAvailableMessage, err)
			default:
				return fmt.Errorf("resolving module %q: %w", id, err)
			}
		},
	}
}
