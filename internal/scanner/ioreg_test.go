package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serialClientsPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<array>
	<dict>
		<key>IOCalloutDevice</key>
		<string>/dev/cu.Bluetooth-Incoming-Port</string>
		<key>IODialinDevice</key>
		<string>/dev/tty.Bluetooth-Incoming-Port</string>
		<key>IOTTYDevice</key>
		<string>Bluetooth-Incoming-Port</string>
	</dict>
	<dict>
		<key>IOCalloutDevice</key>
		<string>/dev/cu.usbmodem1101</string>
		<key>IOTTYDevice</key>
		<string>usbmodem1101</string>
	</dict>
	<dict>
		<key>IOTTYDevice</key>
		<string>orphan</string>
	</dict>
</array>
</plist>
`

const usbTreePlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<array>
	<dict>
		<key>idVendor</key>
		<integer>9025</integer>
		<key>idProduct</key>
		<integer>67</integer>
		<key>USB Serial Number</key>
		<string>85736323838351F0E1D1</string>
		<key>USB Vendor Name</key>
		<string>Arduino (www.arduino.cc)</string>
		<key>USB Product Name</key>
		<string>Arduino Uno</string>
		<key>IORegistryEntryChildren</key>
		<array>
			<dict>
				<key>IORegistryEntryName</key>
				<string>IOUSBHostInterface</string>
				<key>IORegistryEntryChildren</key>
				<array>
					<dict>
						<key>IOCalloutDevice</key>
						<string>/dev/cu.usbmodem1101</string>
					</dict>
				</array>
			</dict>
		</array>
	</dict>
</array>
</plist>
`

func TestParseSerialClients(t *testing.T) {
	clients, err := parseSerialClients([]byte(serialClientsPlist))
	require.NoError(t, err)

	assert.Equal(t, []serialClient{
		{callout: "/dev/cu.Bluetooth-Incoming-Port", name: "Bluetooth-Incoming-Port"},
		{callout: "/dev/cu.usbmodem1101", name: "usbmodem1101"},
	}, clients)
}

func TestParseSerialClients_EmptyOutput(t *testing.T) {
	clients, err := parseSerialClients([]byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestParseSerialClients_Malformed(t *testing.T) {
	_, err := parseSerialClients([]byte("<plist><array><dict>"))
	require.Error(t, err)
}

func TestMergeDarwinPorts(t *testing.T) {
	clients, err := parseSerialClients([]byte(serialClientsPlist))
	require.NoError(t, err)

	usb, err := parseUSBTree([]byte(usbTreePlist))
	require.NoError(t, err)
	require.Contains(t, usb, "/dev/cu.usbmodem1101")

	ports := mergeDarwinPorts(clients, usb)
	require.Len(t, ports, 2)

	assert.Equal(t, Port{
		Device:      "/dev/cu.Bluetooth-Incoming-Port",
		Description: "Bluetooth-Incoming-Port",
	}, ports[0])

	assert.Equal(t, Port{
		Device:       "/dev/cu.usbmodem1101",
		Description:  "Arduino Uno",
		VID:          uint16Ptr(0x2341),
		PID:          uint16Ptr(0x0043),
		SerialNumber: "85736323838351F0E1D1",
		Manufacturer: "Arduino (www.arduino.cc)",
	}, ports[1])
}
