package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Executable resolves a module identifier as a program on PATH.
type Executable struct{}

func (Executable) Resolve(_ context.Context, id string) error {
	if _, err := exec.LookPath(id); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%q is not on PATH: %w", id, ErrNotFound)
		}
		return fmt.Errorf("looking up %q: %w", id, err)
	}
	return nil
}
