package errors

import (
	"os"

	log "github.com/cloudposse/monarch/pkg/logger"
)

// OsExit is a variable for testing, so we can mock os.Exit.
var OsExit = os.Exit

// verbose controls whether PrintError renders the context table and stack trace.
var verbose bool

// SetVerbose toggles verbose error output.
func SetVerbose(v bool) {
	verbose = v
}

// PrintError formats err and writes it to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	config := DefaultFormatterConfig()
	config.Verbose = verbose
	if _, printErr := os.Stderr.WriteString(Format(err, config) + "\n"); printErr != nil {
		log.Error("failed to print error", "error", printErr)
		log.Error(err.Error())
	}
}

// Exit exits the program with the specified exit code.
func Exit(exitCode int) {
	OsExit(exitCode)
}
