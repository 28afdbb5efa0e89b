package importer

import (
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// registrable reports whether domain is a registrable domain (eTLD+1).
// Hosted providers usually refuse to import a sub-zone unless its parent
// is already hosted with them. Reverse zones are always accepted.
func registrable(domain string) bool {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	if domain == "arpa" || strings.HasSuffix(domain, ".arpa") {
		return true
	}
	apex, err := publicsuffix.Domain(domain)
	if err != nil {
		return false
	}
	return apex == domain
}
