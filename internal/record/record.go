// Package record turns raw scanner output into the flat rows written to reports.
package record

import (
	"fmt"

	"github.com/productdevbook/serial-logger/internal/scanner"
)

// NoDevicesDescription is the description of the placeholder row written when
// no serial device is connected.
const NoDevicesDescription = "No devices found"

// PortRecord is one report row.
type PortRecord struct {
	Hostname     string  `json:"hostname"`
	Port         string  `json:"port"`
	Description  string  `json:"description"`
	VID          *string `json:"vid"`
	PID          *string `json:"pid"`
	SerialNumber string  `json:"serial_number"`
	Manufacturer string  `json:"manufacturer"`
}

// Fields lists the report columns in order.
var Fields = []string{"hostname", "port", "description", "vid", "pid", "serial_number", "manufacturer"}

// Normalize converts ports into records for hostname, keeping the enumeration
// order. The result is never empty: no ports yields a single placeholder record.
func Normalize(ports []scanner.Port, hostname string) []PortRecord {
	if len(ports) == 0 {
		return []PortRecord{{
			Hostname:    hostname,
			Description: NoDevicesDescription,
		}}
	}

	records := make([]PortRecord, 0, len(ports))
	for _, p := range ports {
		records = append(records, PortRecord{
			Hostname:     hostname,
			Port:         p.Device,
			Description:  p.Description,
			VID:          FormatID(p.VID),
			PID:          FormatID(p.PID),
			SerialNumber: p.SerialNumber,
			Manufacturer: p.Manufacturer,
		})
	}

	return records
}

// FormatID renders a USB vendor or product id as four uppercase hex digits.
func FormatID(id *uint16) *string {
	if id == nil {
		return nil
	}

	s := fmt.Sprintf("%04X", *id)
	return &s
}

// Row returns the record's values in Fields order. Absent ids become empty strings.
func (r PortRecord) Row() []string {
	return []string{
		r.Hostname,
		r.Port,
		r.Description,
		deref(r.VID),
		deref(r.PID),
		r.SerialNumber,
		r.Manufacturer,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
