package util

import (
	"net"

	"github.com/regginator/omniwordlist/errors"
)

// LookupAddr resolves the host part of addr, keeping any port. Hosts that
// are already IPs are returned without a lookup.
func LookupAddr(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr // no port
	}

	if ip := net.ParseIP(host); ip != nil {
		if port == "" {
			return host, nil
		}
		return net.JoinHostPort(host, port), nil
	}

	ips, err := net.LookupHost(host)
	if err != nil {
		return "", errors.WrapKindf(err, errors.ErrStorage, "resolving %s", host)
	} else if len(ips) == 0 {
		return "", errors.Storagef("host %q didn't return any addresses", host)
	}

	// First addr in the response
	if port == "" {
		return ips[0], nil
	}
	return net.JoinHostPort(ips[0], port), nil
}

// AddrWithDefaultPort appends defaultPort when addr names none.
func AddrWithDefaultPort(addr string, defaultPort string) string {
	// An error here means no port was given; malformed addrs fail later on lookup
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return net.JoinHostPort(addr, defaultPort)
	}
	return addr
}
