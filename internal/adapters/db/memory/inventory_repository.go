package memory

import (
	"context"
	"fmt"
	"sync"

	"ipwatch/internal/domain/inventory"

	"github.com/google/uuid"
	goipam "github.com/metal-stack/go-ipam"
)

// InventoryRepository is an in-memory implementation of inventory.Provider
// backed by go-ipam: networks are root prefixes, subnets are child prefixes
// carved from them and interface addresses are acquired IPs. It serves demo
// deployments and tests; real deployments read the Postgres inventory.
type InventoryRepository struct {
	engine goipam.Ipamer

	mu       sync.RWMutex
	networks map[string]*networkState
}

type networkState struct {
	network    inventory.Network
	subnets    map[string]*inventory.SubnetRecord
	interfaces map[string]*inventory.InterfaceRecord
}

// NewInventoryRepository creates an empty in-memory inventory.
func NewInventoryRepository(ctx context.Context) *InventoryRepository {
	return &InventoryRepository{
		engine:   goipam.New(ctx),
		networks: make(map[string]*networkState),
	}
}

// CreateNetwork registers a network and its root prefix.
func (r *InventoryRepository) CreateNetwork(ctx context.Context, id, name, cidr string) error {
	if _, err := r.engine.NewPrefix(ctx, cidr); err != nil {
		return fmt.Errorf("create network prefix: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.networks[id] = &networkState{
		network:    inventory.Network{ID: id, Name: name, CIDR: cidr},
		subnets:    make(map[string]*inventory.SubnetRecord),
		interfaces: make(map[string]*inventory.InterfaceRecord),
	}
	return nil
}

// AddSubnet carves cidr out of the network's root prefix and records it.
// The returned record carries the generated subnet ID.
func (r *InventoryRepository) AddSubnet(ctx context.Context, networkID, name, cidr string) (*inventory.SubnetRecord, error) {
	r.mu.RLock()
	state, exists := r.networks[networkID]
	r.mu.RUnlock()
	if !exists {
		return nil, inventory.ErrNetworkNotFound
	}

	if _, err := r.engine.AcquireSpecificChildPrefix(ctx, state.network.CIDR, cidr); err != nil {
		return nil, fmt.Errorf("acquire subnet prefix: %w", err)
	}
	block, err := inventory.ParseAddressBlock(cidr)
	if err != nil {
		return nil, err
	}

	rec := &inventory.SubnetRecord{
		ID:        uuid.New().String(),
		NetworkID: networkID,
		Name:      name,
		Block:     block,
	}
	r.mu.Lock()
	state.subnets[rec.ID] = rec
	r.mu.Unlock()
	return rec, nil
}

// AttachInterface acquires one address from the subnet and records the
// interface consuming it.
func (r *InventoryRepository) AttachInterface(ctx context.Context, networkID, subnetID string) (*inventory.InterfaceRecord, error) {
	r.mu.RLock()
	state, exists := r.networks[networkID]
	var subnet *inventory.SubnetRecord
	if exists {
		subnet = state.subnets[subnetID]
	}
	r.mu.RUnlock()
	if !exists {
		return nil, inventory.ErrNetworkNotFound
	}
	if subnet == nil {
		return nil, fmt.Errorf("subnet %s not found in network %s", subnetID, networkID)
	}

	ip, err := r.engine.AcquireIP(ctx, subnet.CIDR())
	if err != nil {
		return nil, fmt.Errorf("acquire interface address: %w", err)
	}

	rec := &inventory.InterfaceRecord{
		ID:        uuid.New().String(),
		NetworkID: networkID,
		SubnetID:  subnetID,
		Address:   ip.IP.String(),
	}
	r.mu.Lock()
	state.interfaces[rec.ID] = rec
	r.mu.Unlock()
	return rec, nil
}

// DetachInterface releases the interface's address back to its subnet.
func (r *InventoryRepository) DetachInterface(ctx context.Context, networkID, interfaceID string) error {
	r.mu.Lock()
	state, exists := r.networks[networkID]
	if !exists {
		r.mu.Unlock()
		return inventory.ErrNetworkNotFound
	}
	rec, ok := state.interfaces[interfaceID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("interface %s not found in network %s", interfaceID, networkID)
	}
	subnet := state.subnets[rec.SubnetID]
	delete(state.interfaces, interfaceID)
	r.mu.Unlock()

	if subnet != nil {
		return r.engine.ReleaseIPFromPrefix(ctx, subnet.CIDR(), rec.Address)
	}
	return nil
}

// ListSubnets implements inventory.Provider.
func (r *InventoryRepository) ListSubnets(ctx context.Context, networkID string) ([]*inventory.SubnetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, exists := r.networks[networkID]
	if !exists {
		return nil, inventory.ErrNetworkNotFound
	}
	out := make([]*inventory.SubnetRecord, 0, len(state.subnets))
	for _, sn := range state.subnets {
		cp := *sn
		out = append(out, &cp)
	}
	return out, nil
}

// ListInterfaces implements inventory.Provider.
func (r *InventoryRepository) ListInterfaces(ctx context.Context, networkID string) ([]*inventory.InterfaceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, exists := r.networks[networkID]
	if !exists {
		return nil, inventory.ErrNetworkNotFound
	}
	out := make([]*inventory.InterfaceRecord, 0, len(state.interfaces))
	for _, iface := range state.interfaces {
		cp := *iface
		out = append(out, &cp)
	}
	return out, nil
}
