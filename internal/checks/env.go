package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// KindEnv is the suite type of Env.
const KindEnv = "env"

// EnvArgs configures an environment check.
type EnvArgs struct {
	Name     string
	Vars     []string
	Required bool
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Env returns a check that verifies every variable in args.Vars is set to a
// non-empty value. Missing variables skip the check unless Required is set,
// in which case they fail it.
func Env(args EnvArgs) Check {
	lookup := args.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return Check{
		Name:        args.Name,
		Kind:        KindEnv,
		Description: "environment: " + strings.Join(args.Vars, ", "),
		Procedure: func(context.Context) error {
			var missing []string
			for _, v := range args.Vars {
				if val, ok := lookup(v); !ok || val == "" {
					missing = append(missing, v)
				}
			}
			if len(missing) == 0 {
				return nil
			}

			msg := fmt.Sprintf("environment variables not set: %s", strings.Join(missing, ", "))
			if args.Required {
				return errors.New(msg)
			}
			return Skip(msg)
		},
	}
}
