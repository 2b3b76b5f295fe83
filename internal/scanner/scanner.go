package scanner

// Port represents a serial device as reported by the operating system.
// Optional strings are empty when the OS does not expose them.
type Port struct {
	Device       string  `json:"device"`
	Description  string  `json:"description"`
	VID          *uint16 `json:"vid,omitempty"`
	PID          *uint16 `json:"pid,omitempty"`
	SerialNumber string  `json:"serial_number,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
}

// Scanner interface for platform-specific implementations
type Scanner interface {
	Scan() ([]Port, error)
}

// New returns a platform-specific scanner
func New() Scanner {
	return newPlatformScanner()
}

func uint16Ptr(v uint16) *uint16 {
	return &v
}
