package inventory

import "time"

// Network is a monitored virtual network (address space).
type Network struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CIDR      string    `json:"cidr"`
	CreatedAt time.Time `json:"created_at"`
}

// SubnetRecord is one address-block allocation inside a network.
// Records are fetched fresh on every collection pass and never cached.
type SubnetRecord struct {
	ID        string       `json:"id"`
	NetworkID string       `json:"network_id"`
	Name      string       `json:"name"`
	Block     AddressBlock `json:"-"`
}

// CIDR returns the subnet block in CIDR notation.
func (s SubnetRecord) CIDR() string {
	if s.Block == nil {
		return ""
	}
	return s.Block.String()
}

// InterfaceRecord is one attached network interface inside a network.
// Each attached interface is counted as one consumed address.
type InterfaceRecord struct {
	ID        string `json:"id"`
	NetworkID string `json:"network_id"`
	SubnetID  string `json:"subnet_id"`
	Address   string `json:"address"`
}
