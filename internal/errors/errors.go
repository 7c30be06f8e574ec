// Package errors holds the user-facing errors repokit prints when a run
// cannot finish. Each error carries a category, which selects the exit
// status, and remediation lines telling the user which flag, frontmatter
// key, or config value to change.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory groups errors by what the user has to fix.
type ErrorCategory int

const (
	// Argument covers flags and frontmatter values that cannot be used as given.
	Argument ErrorCategory = iota
	// Configuration covers config files, environment overrides, and repository identity.
	Configuration
	// Prerequisite covers files or directories that must exist before a run.
	Prerequisite
	// Runtime covers failures while reading history or writing the changelog.
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Runtime:       "Runtime Error",
}

func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is an error printed to stderr with its remediation lines.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Remediation lines are printed as a bulleted list under the message.
	Remediation []string
	// Usage is an example invocation, shown for argument errors.
	Usage string
	Cause error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WithUsage sets the example invocation and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

// New returns a CLIError with no cause.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// Wrap keeps err's message and records err as the cause. A nil err gives nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Cause: err}
}

// WrapWithMessage prefixes err's message with message. A nil err gives nil.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Cause:       err,
	}
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
