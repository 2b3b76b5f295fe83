//go:build !linux && !darwin && !windows

package scanner

import "path/filepath"

// BSD callout and USB serial nodes.
var bsdPatterns = []string{
	"/dev/cuaU*",
	"/dev/cuad*",
	"/dev/ttyU*",
}

type globScanner struct {
	patterns []string
}

func newPlatformScanner() Scanner {
	return &globScanner{patterns: bsdPatterns}
}

func (s *globScanner) Scan() ([]Port, error) {
	var ports []Port

	for _, pattern := range s.patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}

		for _, dev := range matches {
			ports = append(ports, Port{
				Device:      dev,
				Description: filepath.Base(dev),
			})
		}
	}

	return ports, nil
}
