// Package orchestration runs verification checks for several kernel
// backends concurrently and aggregates the outcome. It is decoupled from
// presentation through the ProgressReporter and ResultPresenter interfaces.
package orchestration
