//go:build windows

package scanner

import (
	"errors"
	"strings"

	"golang.org/x/sys/windows/registry"
)

const serialCommKey = `HARDWARE\DEVICEMAP\SERIALCOMM`

// Enum roots searched for the device instance owning a COM name.
var enumRoots = []string{
	`SYSTEM\CurrentControlSet\Enum\USB`,
	`SYSTEM\CurrentControlSet\Enum\FTDIBUS`,
}

type windowsScanner struct{}

func newPlatformScanner() Scanner {
	return &windowsScanner{}
}

type comDetails struct {
	hw           hardwareID
	friendlyName string
	manufacturer string
}

func (s *windowsScanner) Scan() ([]Port, error) {
	names, err := readSerialComm()
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return []Port{}, nil
	}

	details := readComDetails()

	ports := make([]Port, 0, len(names))
	for _, com := range names {
		port := Port{
			Device:      com,
			Description: com,
		}

		if d, ok := details[strings.ToUpper(com)]; ok {
			port.VID = d.hw.vid
			port.PID = d.hw.pid
			port.SerialNumber = d.hw.serial
			port.Manufacturer = d.manufacturer
			if d.friendlyName != "" {
				port.Description = d.friendlyName
			}
		}

		ports = append(ports, port)
	}

	return ports, nil
}

func readSerialComm() ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, serialCommKey, registry.QUERY_VALUE)
	if err != nil {
		// The key only exists while at least one serial driver is loaded
		if errors.Is(err, registry.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer k.Close()

	valueNames, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, v := range valueNames {
		com, _, err := k.GetStringValue(v)
		if err != nil || com == "" {
			continue
		}
		names = append(names, com)
	}

	return names, nil
}

// readComDetails maps upper-cased COM names to the USB instance that owns them.
func readComDetails() map[string]comDetails {
	details := make(map[string]comDetails)

	for _, root := range enumRoots {
		rootKey, err := registry.OpenKey(registry.LOCAL_MACHINE, root, registry.ENUMERATE_SUB_KEYS)
		if err != nil {
			continue
		}

		devices, _ := rootKey.ReadSubKeyNames(-1)
		rootKey.Close()

		for _, device := range devices {
			devicePath := root + `\` + device
			devKey, err := registry.OpenKey(registry.LOCAL_MACHINE, devicePath, registry.ENUMERATE_SUB_KEYS)
			if err != nil {
				continue
			}

			instances, _ := devKey.ReadSubKeyNames(-1)
			devKey.Close()

			for _, instance := range instances {
				instancePath := devicePath + `\` + instance
				com := readPortName(instancePath)
				if com == "" {
					continue
				}

				d := comDetails{hw: parseHardwareID(device + `\` + instance)}
				if k, err := registry.OpenKey(registry.LOCAL_MACHINE, instancePath, registry.QUERY_VALUE); err == nil {
					name, _, _ := k.GetStringValue("FriendlyName")
					mfg, _, _ := k.GetStringValue("Mfg")
					k.Close()
					d.friendlyName = cleanRegistryString(name)
					d.manufacturer = cleanRegistryString(mfg)
				}

				details[strings.ToUpper(com)] = d
			}
		}
	}

	return details
}

func readPortName(instancePath string) string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, instancePath+`\Device Parameters`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()

	name, _, err := k.GetStringValue("PortName")
	if err != nil {
		return ""
	}
	return name
}
