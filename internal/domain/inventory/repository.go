package inventory

import "context"

// Provider is the read-only inventory query interface the collector consumes.
// Implementations must return ErrNetworkNotFound when the network does not
// exist and wrap every other failure (timeouts, throttling, connectivity)
// with ErrTransientQuery so callers can tell the two apart.
type Provider interface {
	ListSubnets(ctx context.Context, networkID string) ([]*SubnetRecord, error)
	ListInterfaces(ctx context.Context, networkID string) ([]*InterfaceRecord, error)
}
