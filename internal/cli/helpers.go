package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Global flags (will be set from cmd package)
var (
	quiet       bool
	noColor     bool
	skipConfirm bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// SetGlobalFlags sets the global flag values from the cmd package
func SetGlobalFlags(q, nc, sc bool) {
	quiet = q
	noColor = nc
	skipConfirm = sc
}

// SetOutput redirects messages, used by command tests
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
}

// Quiet reports whether informational output is suppressed
func Quiet() bool {
	return quiet
}

// Confirm prompts the user for confirmation
func Confirm(prompt string, defaultYes bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}
	fmt.Fprint(stdout, prompt+suffix)

	response, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	if response == "" {
		return defaultYes, nil
	}
	return response == "y" || response == "yes", nil
}

func message(w io.Writer, symbol, label, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if noColor {
		fmt.Fprintf(w, "%s: %s\n", label, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", symbol, msg)
}

// PrintSuccess prints a success message unless quiet mode is enabled
func PrintSuccess(format string, args ...interface{}) {
	if !quiet {
		message(stdout, "✓", "OK", format, args...)
	}
}

// PrintInfo prints an info message unless quiet mode is enabled
func PrintInfo(format string, args ...interface{}) {
	if !quiet {
		message(stdout, "ℹ", "INFO", format, args...)
	}
}

// PrintWarning prints a warning message to stderr
func PrintWarning(format string, args ...interface{}) {
	message(stderr, "⚠", "WARNING", format, args...)
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...interface{}) {
	message(stderr, "✗", "ERROR", format, args...)
}
