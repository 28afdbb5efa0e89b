package dns

import (
	"strings"
)

// TrimDot returns the zone name without its trailing root dot.
// e.g. "example.com." -> "example.com"
func TrimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
