// Package types defines the Counter entity, its events and progress view,
// the persisted Snapshot, the Store interface, and the standard errors for
// the mala tally.
package types
