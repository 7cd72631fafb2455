package api

import (
	"net"

	"github.com/sqlc-dev/pqtype"
)

// Finds the first non-loopback IPv4 address of this host. Fleet
// submissions are tagged with it so replicas can be told apart.
func ServerIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			var ip net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip != nil && ip.To4() != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip.To4(), Mask: net.CIDRMask(32, 32)}, nil
			}
		}
	}

	return loopbackIpNet(), nil
}

func loopbackIpNet() net.IPNet {
	return net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}
}

func ServerInet() (pqtype.Inet, error) {
	ipnet, err := ServerIpNet()
	if err != nil {
		return pqtype.Inet{}, err
	}
	return pqtype.Inet{IPNet: ipnet, Valid: true}, nil
}
