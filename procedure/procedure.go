//go:generate mockgen -destination=mock_procedure/procedure.go . Procedure
package procedure

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrdunski/subscription-updater/model"
)

const (
	BlockedUsersEnv = "BLOCKED_USERS"
	FastModeEnv     = "FAST_MODE"
)

var ErrProcedureFailed = errors.New("update procedure failed")

// Procedure rewrites subscription files of the working tree. Its internals are
// opaque to the orchestrator.
type Procedure interface {
	Run(ctx context.Context, env model.UpdateEnv) error
}

type ExitError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: command %q exited with code %d: %v", ErrProcedureFailed, e.Command, e.ExitCode, e.Err)
}

func (e *ExitError) Unwrap() []error {
	return []error{ErrProcedureFailed, e.Err}
}

// Environ returns the variables added to the procedure environment.
func Environ(env model.UpdateEnv) []string {
	var result []string
	if env.BlockedUsers != "" {
		result = append(result, BlockedUsersEnv+"="+env.BlockedUsers)
	}
	if env.FastMode {
		result = append(result, FastModeEnv+"=true")
	}

	return result
}
