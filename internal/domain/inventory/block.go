package inventory

import (
	"fmt"
	"math"
	"net/netip"
)

// AddressBlock is a contiguous address allocation sized by its prefix length.
// Capacity computation depends on the address family, so callers must go
// through this interface instead of assuming 32-bit address space.
type AddressBlock interface {
	Prefix() netip.Prefix
	Capacity() uint64
	String() string
}

// IPv4Block is an IPv4 CIDR block.
type IPv4Block struct {
	prefix netip.Prefix
}

// IPv6Block is an IPv6 CIDR block.
type IPv6Block struct {
	prefix netip.Prefix
}

// ParseAddressBlock parses a CIDR string into the family-specific block type.
func ParseAddressBlock(cidr string) (AddressBlock, error) {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("parse address block %q: %w", cidr, err)
	}
	p = p.Masked()
	if p.Addr().Is4() {
		return IPv4Block{prefix: p}, nil
	}
	return IPv6Block{prefix: p}, nil
}

func (b IPv4Block) Prefix() netip.Prefix { return b.prefix }

func (b IPv4Block) String() string { return b.prefix.String() }

// Capacity returns the total address count of the block: 2^(32-prefix).
// This counts every address in the block, including network and broadcast.
func (b IPv4Block) Capacity() uint64 {
	return 1 << (32 - b.prefix.Bits())
}

func (b IPv6Block) Prefix() netip.Prefix { return b.prefix }

func (b IPv6Block) String() string { return b.prefix.String() }

// Capacity returns 2^(128-prefix), saturated to MaxUint64 for blocks wider
// than /64 since the true count does not fit in 64 bits.
func (b IPv6Block) Capacity() uint64 {
	bits := 128 - b.prefix.Bits()
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1 << bits
}
