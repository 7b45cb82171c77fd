package network

import (
	"fmt"
	"net"
	"runtime"
	"strings"
)

// Interface is the subset of [net.Interface] the resolver inspects.
type Interface struct {
	Name  string
	Up    bool
	Addrs []net.Addr
}

var getRuntime = func() string { return runtime.GOOS }

// listInterfaces enumerates host interfaces with their addresses.
var listInterfaces = func() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(ifaces))
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Interface{Name: ifc.Name, Up: ifc.Flags&net.FlagUp != 0, Addrs: addrs})
	}
	return out, nil
}

// IsWiFiName reports whether name is the conventional Wi-Fi interface name on goos.
func IsWiFiName(goos, name string) bool {
	switch goos {
	case "darwin", "ios":
		return name == "en0"
	case "linux", "android", "freebsd":
		return strings.HasPrefix(name, "wl")
	case "windows":
		lower := strings.ToLower(name)
		return strings.HasPrefix(lower, "wi-fi") || strings.HasPrefix(lower, "wlan") || strings.Contains(lower, "wireless")
	default:
		return false
	}
}

// WiFiIPv4 returns the IPv4 address of the Wi-Fi interface in dotted-quad form.
//
// An explicit name selects that interface instead of the platform default.
// The boolean is false when no matching interface carries an IPv4 address.
func WiFiIPv4(name string) (string, bool) {
	ifaces, err := listInterfaces()
	if err != nil {
		return "", false
	}

	goos := getRuntime()
	for _, ifc := range ifaces {
		if name != "" && ifc.Name != name {
			continue
		}
		if name == "" && (!ifc.Up || !IsWiFiName(goos, ifc.Name)) {
			continue
		}
		if ip := firstIPv4(ifc.Addrs); ip != "" {
			return ip, true
		}
	}
	return "", false
}

func firstIPv4(addrs []net.Addr) string {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
			return ip4.String()
		}
	}
	return ""
}

// CompleteAddress returns "http://{ip}:{port}" for the Wi-Fi interface, or "" when it has no IPv4 address.
func CompleteAddress(name string, port int) string {
	ip, ok := WiFiIPv4(name)
	if !ok {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", ip, port)
}

// Names lists interface names that carry an IPv4 address, for diagnostics.
func Names() []string {
	ifaces, err := listInterfaces()
	if err != nil {
		return nil
	}

	var names []string
	for _, ifc := range ifaces {
		if firstIPv4(ifc.Addrs) != "" {
			names = append(names, ifc.Name)
		}
	}
	return names
}
