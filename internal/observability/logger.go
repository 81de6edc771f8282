package observability

import (
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
)

// CLILogger is the process-wide logger for CLI commands (SIMPLE profile).
var CLILogger *logging.Logger

// InitCLILogger initializes the CLI logger. verbose lowers the level to
// DEBUG.
func InitCLILogger(serviceName string, verbose bool) {
	logger, err := logging.NewCLI(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize CLI logger: %v\n", err)
		os.Exit(int(foundry.ExitConfigInvalid))
	}

	if verbose {
		logger.SetLevel(logging.DEBUG)
	}

	CLILogger = logger
}
