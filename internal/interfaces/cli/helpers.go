package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

// requireClient returns the CLI context and fails if no API client was
// initialized. Commands that talk to the server call this first so a bad
// --server flag fails with one clear message instead of a nil dereference.
func requireClient(cmd *cobra.Command) (*CLIContext, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	if cliCtx.Client == nil {
		return nil, errors.New(errors.CodeServiceUnavailable,
			"no API client available: check the --server address")
	}
	return cliCtx, nil
}

// commandContext derives a request context bounded by the --timeout flag.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	timeout := cliCtx.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout)
}
