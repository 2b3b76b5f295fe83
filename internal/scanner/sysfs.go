package scanner

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Device name patterns probed under /dev, in enumeration order.
var sysfsPatterns = []string{
	"ttyS*",
	"ttyUSB*",
	"ttyXRUSB*",
	"ttyACM*",
	"ttyAMA*",
	"rfcomm*",
	"ttyAP*",
	"ttyGS*",
}

// sysfsScanner enumerates tty devices and describes them from the sysfs tree.
type sysfsScanner struct {
	devDir string
	sysDir string
}

func newSysfsScanner(devDir, sysDir string) *sysfsScanner {
	return &sysfsScanner{devDir: devDir, sysDir: sysDir}
}

func (s *sysfsScanner) Scan() ([]Port, error) {
	var ports []Port

	for _, pattern := range sysfsPatterns {
		matches, err := filepath.Glob(filepath.Join(s.devDir, pattern))
		if err != nil {
			return nil, err
		}

		for _, dev := range matches {
			if port, ok := s.describe(dev); ok {
				ports = append(ports, port)
			}
		}
	}

	return ports, nil
}

// describe fills in the sysfs attributes of dev. Devices on the platform bus are
// reported as not present: those are the unused 8250 placeholders every kernel creates.
func (s *sysfsScanner) describe(dev string) (Port, bool) {
	name := filepath.Base(dev)
	port := Port{Device: dev, Description: name}

	devicePath, err := filepath.EvalSymlinks(filepath.Join(s.sysDir, "class", "tty", name, "device"))
	if err != nil {
		return port, true
	}

	var subsystem string
	if target, err := filepath.EvalSymlinks(filepath.Join(devicePath, "subsystem")); err == nil {
		subsystem = filepath.Base(target)
	}

	var usbInterface string
	switch subsystem {
	case "platform":
		return Port{}, false
	case "usb-serial":
		usbInterface = filepath.Dir(devicePath)
	case "usb":
		usbInterface = devicePath
	default:
		return port, true
	}

	usbDevice := filepath.Dir(usbInterface)
	port.VID = readHexAttr(usbDevice, "idVendor")
	port.PID = readHexAttr(usbDevice, "idProduct")
	port.SerialNumber = readAttr(usbDevice, "serial")
	port.Manufacturer = readAttr(usbDevice, "manufacturer")

	if product := readAttr(usbDevice, "product"); product != "" {
		port.Description = product
	} else if iface := readAttr(usbInterface, "interface"); iface != "" {
		port.Description = iface
	}

	return port, true
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

func readHexAttr(dir, name string) *uint16 {
	raw := readAttr(dir, name)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return nil
	}

	return uint16Ptr(uint16(v))
}
