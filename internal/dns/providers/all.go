// Package providers imports all DNS provider packages to trigger their init() registration.
package providers

import (
	_ "github.com/yuriy-kovalchuk/zone-importer/internal/dns/clouddns"
	_ "github.com/yuriy-kovalchuk/zone-importer/internal/dns/dryrun"
)
