package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

// Exit codes returned by Execute.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInvalidInput = 2
	ExitCalculation  = 3
	ExitViolations   = 4
	ExitInterrupted  = 130
)

// exitError carries a specific process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// withExitCode attaches an exit code to err.
func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
//
//   - nil: 0
//   - context cancellation (SIGINT): 130
//   - invalid input: 2
//   - calculation failure, including an out-of-range mid-landing: 3
//   - violations under check --strict: 4
//   - anything else: 1
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.IsInvalidInput(err):
		return ExitInvalidInput
	case errors.IsCalculationFailure(err):
		return ExitCalculation
	}
	return ExitError
}

// Execute runs the spiralstair CLI with args and returns the process exit
// code. Errors are printed to stderr.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the command context and is available to all
// commands via loggerFromContext.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var verbose bool

	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		return preRun(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	code := ExitCode(err)
	if err != nil && code != ExitInterrupted {
		var ee *exitError
		if !stderrors.As(err, &ee) || ee.err != nil {
			fmt.Fprintln(stderr, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
		}
	}
	return code
}
