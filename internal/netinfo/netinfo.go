// Package netinfo lists the node's addresses for the rotating IP strip.
package netinfo

import (
	"fmt"
	"net"
	"slices"

	"github.com/rs/zerolog/log"
)

// Placeholder is shown when no usable address exists.
const Placeholder = "---.---.---.---"

type ifaceAddr struct {
	iface string
	ip    net.IP
}

// Addresses returns the sorted, deduplicated addresses of all interfaces
// except loopback. IPv4 is preferred; IPv6 is used only when there is no
// IPv4 address. Link-local IPv6 addresses are skipped.
func Addresses() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Debug().Err(err).Msg("list interfaces failed")
		return []string{Placeholder}
	}
	var all []ifaceAddr
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok {
				all = append(all, ifaceAddr{iface: ifc.Name, ip: ipn.IP})
			}
		}
	}
	return selectAddresses(all)
}

func selectAddresses(all []ifaceAddr) []string {
	var v4, v6 []string
	for _, a := range all {
		if a.iface == "lo" || a.ip == nil {
			continue
		}
		if ip4 := a.ip.To4(); ip4 != nil {
			v4 = append(v4, ip4.String())
			continue
		}
		if a.ip.IsLinkLocalUnicast() {
			continue
		}
		v6 = append(v6, a.ip.String())
	}
	ips := v4
	if len(ips) == 0 {
		ips = v6
	}
	if len(ips) == 0 {
		return []string{Placeholder}
	}
	slices.Sort(ips)
	return slices.Compact(ips)
}

// Label picks the address for the given second of the minute. With several
// addresses each one gets an equal share of the minute and a "(i/n)" suffix.
func Label(ips []string, second int) string {
	if len(ips) == 0 {
		return Placeholder
	}
	perIP := 60.0 / float64(len(ips))
	idx := min(int(float64(second)/perIP), len(ips)-1)
	if len(ips) == 1 {
		return ips[idx]
	}
	return fmt.Sprintf("%s (%d/%d)", ips[idx], idx+1, len(ips))
}
