//go:build darwin

package scanner

import (
	"os/exec"
)

type darwinScanner struct{}

func newPlatformScanner() Scanner {
	return &darwinScanner{}
}

func (s *darwinScanner) Scan() ([]Port, error) {
	output, err := exec.Command("ioreg", "-a", "-r", "-c", "IOSerialBSDClient").Output()
	if err != nil {
		return nil, err
	}

	clients, err := parseSerialClients(output)
	if err != nil {
		return nil, err
	}

	if len(clients) == 0 {
		return []Port{}, nil
	}

	// USB details are optional; ports are still reported without them
	usb := map[string]usbInfo{}
	if usbOutput, err := exec.Command("ioreg", "-a", "-l", "-r", "-c", "IOUSBHostDevice").Output(); err == nil {
		if parsed, err := parseUSBTree(usbOutput); err == nil {
			usb = parsed
		}
	}

	return mergeDarwinPorts(clients, usb), nil
}
