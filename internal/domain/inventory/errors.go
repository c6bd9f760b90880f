package inventory

import "errors"

// Inventory errors
var (
	// ErrNetworkNotFound means the network identifier does not resolve to a
	// network. Fatal for the run, never retried by the collector.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrTransientQuery means an inventory read failed for a recoverable
	// reason (timeout, throttling, connectivity). The collector does not
	// retry locally; the invoking scheduler recovers on its next tick.
	ErrTransientQuery = errors.New("transient inventory query failure")
)
