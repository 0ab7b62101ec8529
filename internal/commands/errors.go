package commands

import (
	"errors"
	"fmt"
	"io"

	"todocli/internal/api"
	"todocli/internal/exitcode"
	"todocli/internal/tasksync"
)

// writeError prints err to errOut and maps it to an exit code.
// Credential and profile failures are auth errors; transport failures and
// unexpected statuses are backend errors; precondition failures are user
// errors.
func writeError(errOut io.Writer, err error) int {
	var regErr *api.RegistrationRejectedError
	var profErr *api.ProfileUnavailableError
	var netErr *api.NetworkError
	var statusErr *api.StatusError

	switch {
	case errors.Is(err, api.ErrWeakPassword),
		errors.Is(err, tasksync.ErrTaskNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, api.ErrInvalidCredentials),
		errors.As(err, &regErr),
		errors.As(err, &profErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.As(err, &statusErr):
		if statusErr.Unauthorized() {
			fmt.Fprintln(errOut, "error: not authorized (run: todocli login)")
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	case errors.As(err, &netErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
}
