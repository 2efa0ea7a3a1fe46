package common

import (
	"encoding/binary"
	"net"
	"strconv"
	"strings"

	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
)

var log = logger.GetPpaassLogger()

// AddressKind identifies the shape of an Address host.
type AddressKind byte

const (
	IPv4   AddressKind = 1
	IPv6   AddressKind = 2
	Domain AddressKind = 3
)

const (
	IPv4HostLen = 4
	IPv6HostLen = 16

	addressTagLen    = 1
	addressPortLen   = 2
	domainLengthSize = 8
)

// AddressKindFromByte validates a wire tag.
func AddressKindFromByte(tag byte) (AddressKind, error) {
	switch AddressKind(tag) {
	case IPv4, IPv6, Domain:
		return AddressKind(tag), nil
	default:
		return 0, &AddressKindError{Tag: tag}
	}
}

// ParseAddressKind maps a name such as "ipv4" or "domain" to its kind.
func ParseAddressKind(s string) (AddressKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ipv4", "ip4":
		return IPv4, nil
	case "ipv6", "ip6":
		return IPv6, nil
	case "domain", "dns":
		return Domain, nil
	default:
		return 0, oops.With("kind", s).Wrapf(ErrInvalidAddressKind, "unknown address kind %q", s)
	}
}

func (k AddressKind) String() string {
	switch k {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	case Domain:
		return "domain"
	default:
		return "AddressKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Address is a proxy endpoint. Host holds 4 raw bytes for IPv4, 16 for IPv6
// and the name bytes for Domain.
type Address struct {
	Host []byte
	Port uint16
	Kind AddressKind
}

func NewAddress(host []byte, port uint16, kind AddressKind) Address {
	h := make([]byte, len(host))
	copy(h, host)
	return Address{Host: h, Port: port, Kind: kind}
}

// NewIPAddress picks IPv4 or IPv6 based on the form of ip.
func NewIPAddress(ip net.IP, port uint16) (Address, error) {
	if v4 := ip.To4(); v4 != nil {
		return NewAddress(v4, port, IPv4), nil
	}
	if v6 := ip.To16(); v6 != nil {
		return NewAddress(v6, port, IPv6), nil
	}
	return Address{}, oops.With("ip", ip.String()).Wrapf(ErrInvalidHostLength, "not an IP address")
}

func NewDomainAddress(name string, port uint16) Address {
	return Address{Host: []byte(name), Port: port, Kind: Domain}
}

// Validate checks the host length against the kind.
func (a Address) Validate() error {
	switch a.Kind {
	case IPv4:
		if len(a.Host) != IPv4HostLen {
			return oops.With("kind", a.Kind.String(), "host_len", len(a.Host)).
				Wrapf(ErrInvalidHostLength, "ipv4 host must be %d bytes", IPv4HostLen)
		}
	case IPv6:
		if len(a.Host) != IPv6HostLen {
			return oops.With("kind", a.Kind.String(), "host_len", len(a.Host)).
				Wrapf(ErrInvalidHostLength, "ipv6 host must be %d bytes", IPv6HostLen)
		}
	case Domain:
	default:
		return &AddressKindError{Tag: byte(a.Kind)}
	}
	return nil
}

func (a Address) String() string {
	port := strconv.Itoa(int(a.Port))
	switch a.Kind {
	case IPv4, IPv6:
		return net.JoinHostPort(net.IP(a.Host).String(), port)
	default:
		return net.JoinHostPort(string(a.Host), port)
	}
}

// EncodedLen is the size of the address frame.
func (a Address) EncodedLen() int {
	n := addressTagLen + len(a.Host) + addressPortLen
	if a.Kind == Domain {
		n += domainLengthSize
	}
	return n
}

// Bytes encodes the address frame. IPv4/IPv6 hosts are written raw; a
// Domain host is preceded by its 8-byte length.
func (a Address) Bytes() []byte {
	return AppendAddress(make([]byte, 0, a.EncodedLen()), a)
}

// AppendAddress appends the encoded frame of a to dst.
func AppendAddress(dst []byte, a Address) []byte {
	dst = append(dst, byte(a.Kind))
	if a.Kind == Domain {
		dst = binary.BigEndian.AppendUint64(dst, uint64(len(a.Host)))
	}
	dst = append(dst, a.Host...)
	return binary.BigEndian.AppendUint16(dst, a.Port)
}

// ReadAddress decodes one address frame at the cursor and leaves the cursor
// immediately after it.
func ReadAddress(c *Cursor) (Address, error) {
	start := c.Offset()
	tag, err := c.ReadByte()
	if err != nil {
		return Address{}, addressError(err, start)
	}
	kind, err := AddressKindFromByte(tag)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":     "ReadAddress",
			"reason": "invalid_kind",
			"tag":    tag,
			"offset": start,
		}).Debug("rejecting address frame")
		return Address{}, addressError(err, start)
	}

	var host []byte
	switch kind {
	case IPv4:
		host, err = c.ReadN(IPv4HostLen)
	case IPv6:
		host, err = c.ReadN(IPv6HostLen)
	case Domain:
		host, err = c.ReadLengthPrefixed()
	}
	if err != nil {
		return Address{}, addressError(err, start)
	}

	port, err := c.ReadUint16()
	if err != nil {
		return Address{}, addressError(err, start)
	}
	return Address{Host: host, Port: port, Kind: kind}, nil
}

// DecodeAddress decodes an address frame from the front of b and returns the
// bytes that follow it.
func DecodeAddress(b []byte) (Address, []byte, error) {
	c := NewCursor(b)
	a, err := ReadAddress(c)
	if err != nil {
		return Address{}, b, err
	}
	return a, c.Rest(), nil
}

func addressError(err error, start int) error {
	return oops.In("address").With("frame_offset", start).Wrap(err)
}
