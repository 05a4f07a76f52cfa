package apperrors

import (
	"fmt"
	"io"
	"time"

	"github.com/agbru/kroncalc/internal/ui"
)

// HandleVerificationError prints a colored, human-readable explanation of
// err and returns the matching exit code. A nil error prints nothing.
//
// Parameters:
//   - err: The error to report.
//   - duration: The elapsed time, shown for timeouts and cancellations when non-zero.
//   - out: The writer for the message.
//
// Returns:
//   - int: The exit code from ExitCodeFor.
func HandleVerificationError(err error, duration time.Duration, out io.Writer) int {
	code := ExitCodeFor(err)
	if err == nil {
		return code
	}

	elapsed := ""
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s%s%s", ui.ColorYellow(), duration.Round(time.Millisecond), ui.ColorReset())
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sTimeout:%s the run exceeded its time limit%s.\n", ui.ColorRed(), ui.ColorReset(), elapsed)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sCanceled:%s the run was interrupted%s.\n", ui.ColorYellow(), ui.ColorReset(), elapsed)
	case ExitErrorMismatch:
		fmt.Fprintf(out, "%sMismatch:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
	default:
		fmt.Fprintf(out, "%sError:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
	}
	return code
}
