//go:build linux

package scanner

func newPlatformScanner() Scanner {
	return newSysfsScanner("/dev", "/sys")
}
