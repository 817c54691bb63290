// Package link holds the link-layer vocabulary shared by the medium and the
// devices: 48-bit addresses, destination classification and the link tag
// that travels next to every frame.
package link

import (
	"fmt"
	"net"
)

// Address is a 48-bit link-layer address.
type Address [6]byte

// BroadcastAddress is ff:ff:ff:ff:ff:ff.
var BroadcastAddress = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ParseAddress parses the colon-separated hexadecimal notation.
func ParseAddress(s string) (Address, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return Address{}, err
	}

	if len(hw) != 6 {
		return Address{}, fmt.Errorf("link: %q is not a 48-bit address", s)
	}

	var a Address
	copy(a[:], hw)

	return a, nil
}

// MustParseAddress is ParseAddress that panics on malformed input.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}

	return a
}

// AddressFromHardware converts a net.HardwareAddr of length 6.
func AddressFromHardware(hw net.HardwareAddr) Address {
	var a Address
	copy(a[:], hw)

	return a
}

// HardwareAddr returns the address as a net.HardwareAddr.
func (a Address) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, 6)
	copy(hw, a[:])

	return hw
}

// IsZero tells if the address is 00:00:00:00:00:00, which marks a missing
// neighbor.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsBroadcast tells if the address is the broadcast address.
func (a Address) IsBroadcast() bool {
	return a == BroadcastAddress
}

// IsGroup tells if the group bit of the address is set.
func (a Address) IsGroup() bool {
	return a[0]&0x01 == 0x01
}

func (a Address) String() string {
	return a.HardwareAddr().String()
}

// An Allocator hands out sequential unicast addresses, starting from
// 00:00:00:00:00:01.
type Allocator struct {
	next uint64
}

// Allocate returns the next address.
func (al *Allocator) Allocate() Address {
	al.next++
	if al.next >= 1<<47 {
		panic("link: address space exhausted")
	}

	var a Address
	v := al.next
	for i := 5; i >= 0; i-- {
		a[i] = byte(v)
		v >>= 8
	}

	return a
}
