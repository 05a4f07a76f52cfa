// Package logging provides the logging interface of kroncalc and its
// zerolog and standard library adapters. Library packages such as kernel
// take a zerolog.Logger directly; the application layers use Logger.
package logging
