package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/spboyer/smoke/internal/checks"
)

// FilterChecks returns the subset of list whose Name or Kind matches at
// least one of the given glob patterns. An empty patterns slice returns all
// checks unchanged.
func FilterChecks(list []checks.Check, patterns []string) ([]checks.Check, error) {
	if len(patterns) == 0 {
		return list, nil
	}

	var matched []checks.Check
	for _, c := range list {
		ok, err := matchesAny(c, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func matchesAny(c checks.Check, patterns []string) (bool, error) {
	for _, p := range patterns {
		nameMatch, err := filepath.Match(p, c.Name)
		if err != nil {
			return false, fmt.Errorf("invalid check filter pattern %q: %w", p, err)
		}
		if nameMatch {
			return true, nil
		}
		kindMatch, err := filepath.Match(p, c.Kind)
		if err != nil {
			return false, fmt.Errorf("invalid check filter pattern %q: %w", p, err)
		}
		if kindMatch {
			return true, nil
		}
	}
	return false, nil
}
