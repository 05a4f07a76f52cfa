// Package kernel holds the low-level word-vector routines that the
// multi-precision integer type is built on: trailing-zero count of a single
// word, multi-word logical right shift, and multi-word subtraction without
// final borrow.
//
// Each routine exists in several interchangeable implementations grouped
// into an immutable Backend. A Registry stores the available backends and
// checks every candidate against the portable reference implementation
// before it becomes selectable, so all reachable backends are observably
// equivalent.
//
// Typical use is to select a backend once at start-up:
//
//	b, err := kernel.Select(kernel.VersionAuto)
//	if err != nil {
//		return err
//	}
//	ops := mpint.NewOps(b)
package kernel
