package scanner

import (
	"bytes"
	"fmt"

	"howett.net/plist"
)

// serialClient is one IOSerialBSDClient node from the I/O registry.
type serialClient struct {
	callout string
	name    string
}

// usbInfo holds the identifying properties of the USB device owning a serial node.
type usbInfo struct {
	vid     *uint16
	pid     *uint16
	serial  string
	vendor  string
	product string
}

// parseSerialClients decodes `ioreg -a -r -c IOSerialBSDClient` output.
func parseSerialClients(data []byte) ([]serialClient, error) {
	entries, err := decodeIoreg(data)
	if err != nil {
		return nil, err
	}

	clients := make([]serialClient, 0, len(entries))
	for _, entry := range entries {
		callout := stringValue(entry, "IOCalloutDevice")
		if callout == "" {
			continue
		}

		clients = append(clients, serialClient{
			callout: callout,
			name:    stringValue(entry, "IOTTYDevice"),
		})
	}

	return clients, nil
}

// parseUSBTree decodes `ioreg -a -l -r -c IOUSBHostDevice` output and maps every
// callout device found below a USB device to that device's properties.
func parseUSBTree(data []byte) (map[string]usbInfo, error) {
	entries, err := decodeIoreg(data)
	if err != nil {
		return nil, err
	}

	out := make(map[string]usbInfo)
	for _, entry := range entries {
		walkUSB(entry, nil, out)
	}

	return out, nil
}

func walkUSB(node map[string]interface{}, owner *usbInfo, out map[string]usbInfo) {
	if _, ok := node["idVendor"]; ok {
		info := usbInfo{
			vid:     uint16Value(node, "idVendor"),
			pid:     uint16Value(node, "idProduct"),
			serial:  firstString(node, "USB Serial Number", "kUSBSerialNumberString"),
			vendor:  firstString(node, "USB Vendor Name", "kUSBVendorString"),
			product: firstString(node, "USB Product Name", "kUSBProductString"),
		}
		owner = &info
	}

	if callout := stringValue(node, "IOCalloutDevice"); callout != "" && owner != nil {
		out[callout] = *owner
	}

	children, _ := node["IORegistryEntryChildren"].([]interface{})
	for _, c := range children {
		if child, ok := c.(map[string]interface{}); ok {
			walkUSB(child, owner, out)
		}
	}
}

func mergeDarwinPorts(clients []serialClient, usb map[string]usbInfo) []Port {
	ports := make([]Port, 0, len(clients))

	for _, c := range clients {
		port := Port{
			Device:      c.callout,
			Description: c.name,
		}

		if info, ok := usb[c.callout]; ok {
			port.VID = info.vid
			port.PID = info.pid
			port.SerialNumber = info.serial
			port.Manufacturer = info.vendor
			if info.product != "" {
				port.Description = info.product
			}
		}

		ports = append(ports, port)
	}

	return ports
}

func decodeIoreg(data []byte) ([]map[string]interface{}, error) {
	// ioreg prints nothing at all when no object matches the class
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []map[string]interface{}
	if _, err := plist.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode ioreg plist: %w", err)
	}

	return entries, nil
}

func stringValue(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := stringValue(m, k); s != "" {
			return s
		}
	}
	return ""
}

func uint16Value(m map[string]interface{}, key string) *uint16 {
	switch v := m[key].(type) {
	case uint64:
		if v <= 0xFFFF {
			return uint16Ptr(uint16(v))
		}
	case int64:
		if v >= 0 && v <= 0xFFFF {
			return uint16Ptr(uint16(v))
		}
	}
	return nil
}
