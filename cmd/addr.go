package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/desertthunder/droplet/internal/network"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/urfave/cli/v3"
)

// Addr prints the shareable address for the configured interface and port.
func (r *Runner) Addr(ctx context.Context, cmd *cli.Command) error {
	iface := r.config.Server.Interface
	if cmd.IsSet("interface") {
		iface = cmd.String("interface")
	}
	port := r.config.Server.Port
	if cmd.IsSet("port") {
		port = cmd.Int("port")
	}

	if cmd.Bool("all") {
		names := network.Names()
		if len(names) == 0 {
			r.writePlain("No interfaces with an IPv4 address.\n")
		}
		for _, name := range names {
			ip, _ := network.WiFiIPv4(name)
			marker := ""
			if network.IsWiFiName(runtime.GOOS, name) {
				marker = "  (wi-fi)"
			}
			r.writePlain("%-12s %s%s\n", name, ip, marker)
		}
		return nil
	}

	address := r.resolve(iface, port)
	if address == "" {
		if iface != "" {
			return fmt.Errorf("%w on interface %s", shared.ErrAddressUnavailable, iface)
		}
		return shared.ErrAddressUnavailable
	}

	r.writePlain("%s\n", address)
	if cmd.Bool("qr") {
		code, err := shared.QRTerminal(address)
		if err != nil {
			return err
		}
		r.writePlain("%s", code)
	}
	return nil
}
