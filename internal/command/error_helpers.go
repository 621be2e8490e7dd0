// Where: cli/internal/command/error_helpers.go
// What: Shared CLI error output.
package command

import (
	"io"

	"github.com/poruru/fnsdk/cli/internal/infra/ui"
)

// exitWithError prints an error message to the error writer and returns
// exit code 1 for CLI error handling.
func exitWithError(errOut io.Writer, err error) int {
	console := ui.NewWithOptions(errOut, false, ui.ColorAllowed(errOut))
	console.Error(err.Error())
	return 1
}
