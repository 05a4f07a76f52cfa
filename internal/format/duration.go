package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a duration for display in the largest unit
// below it: nanoseconds under a microsecond, microseconds under a
// millisecond, milliseconds under a second, and the default representation
// otherwise. A single symbol on small operands finishes in nanoseconds.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatNsPerOp formats a mean per-operation time given in nanoseconds.
// Fractions are kept since kernels on short operands differ by less than a
// nanosecond.
func FormatNsPerOp(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.1fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	}
	return fmt.Sprintf("%.2fms", ns/1e6)
}
