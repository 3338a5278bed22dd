package utils

import (
	"net"
	"strings"
)

// LANURLs lists the addresses other desks in the shop can reach this
// server on. Link-local addresses are only returned when nothing else is up.
func LANURLs(port string) []string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return lanURLs(addrs, port)
}

func lanURLs(addrs []net.Addr, port string) []string {
	var routable, linkLocal []string
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.To4() == nil {
			continue
		}
		url := "http://" + net.JoinHostPort(ipnet.IP.String(), port)
		if strings.HasPrefix(ipnet.IP.String(), "169.254") {
			linkLocal = append(linkLocal, url)
			continue
		}
		routable = append(routable, url)
	}
	if len(routable) > 0 {
		return routable
	}
	return linkLocal
}
