package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/ordiaa/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix. Errors
// from the remote API get a hint on what to do next.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return fmt.Sprintf("Error: %v\nYour session is no longer valid. Run 'ordiaa login' to sign in again.", err)
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Error: the server rejected the request: %s", apiErr.Message)
	case errors.Is(err, ErrTransport):
		return fmt.Sprintf("Error: %v\nThe server could not be reached. Local changes are kept.", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
