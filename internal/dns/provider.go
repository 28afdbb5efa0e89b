package dns

import (
	"context"
	"time"
)

// Domain is the provider's record of an imported zone.
type Domain struct {
	ID      string // provider-assigned identifier, empty if the provider has none
	Name    string // zone apex, without trailing dot
	Serial  uint32 // SOA serial as accepted by the provider, 0 if unknown
	Records int    // number of records imported, 0 if unknown
}

// Provider is the interface that DNS providers must implement.
type Provider interface {
	// ImportDomain submits a complete zone in BIND format and returns the
	// resulting domain once the provider has accepted it.
	ImportDomain(ctx context.Context, zone string) (*Domain, error)
	// SetTimeout bounds every subsequent remote call, replacing the
	// provider's default.
	SetTimeout(d time.Duration)
}

// ReadOnly is implemented by providers that never change remote state.
// Zone files handled by a read-only provider stay in the input directory.
type ReadOnly interface {
	ReadOnly() bool
}

// IsReadOnly reports whether p is a read-only provider.
func IsReadOnly(p Provider) bool {
	ro, ok := p.(ReadOnly)
	return ok && ro.ReadOnly()
}
