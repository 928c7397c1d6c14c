package utils

import "net"

// GetOutboundIP returns the preferred outbound IP of this host. No packet
// is actually sent; the dial only resolves the local address.
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}
