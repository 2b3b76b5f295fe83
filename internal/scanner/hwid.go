package scanner

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches USB\VID_2341&PID_0043\<serial> and FTDIBUS\VID_0403+PID_6001+<serial>\0000.
var hardwareIDPattern = regexp.MustCompile(`(?i)VID_([0-9A-F]{4})[&+]PID_([0-9A-F]{4})(?:[+\\]([^\\]+))?`)

type hardwareID struct {
	vid    *uint16
	pid    *uint16
	serial string
}

// parseHardwareID extracts vendor, product and serial from a Windows device
// instance path. Instance ids generated by Windows contain '&' and are not serials.
func parseHardwareID(id string) hardwareID {
	m := hardwareIDPattern.FindStringSubmatch(id)
	if m == nil {
		return hardwareID{}
	}

	var hw hardwareID
	if v, err := strconv.ParseUint(m[1], 16, 16); err == nil {
		hw.vid = uint16Ptr(uint16(v))
	}
	if v, err := strconv.ParseUint(m[2], 16, 16); err == nil {
		hw.pid = uint16Ptr(uint16(v))
	}
	if serial := m[3]; serial != "" && !strings.Contains(serial, "&") {
		hw.serial = serial
	}

	return hw
}

// cleanRegistryString strips the INF indirection prefix from values such as
// "@oem12.inf,%mfgname%;Arduino LLC".
func cleanRegistryString(s string) string {
	if i := strings.LastIndex(s, ";"); i >= 0 && strings.HasPrefix(s, "@") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
