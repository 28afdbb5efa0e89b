package zonefile

import (
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/yuriy-kovalchuk/zone-importer/internal/config"
)

// SOATemplate holds everything needed to generate the replacement SOA
// record for any domain of a run.
type SOATemplate struct {
	PrimaryNS string // primary nameserver host, qualified on output
	Mailbox   string // contact in RNAME form, e.g. "it.example.com."
	Serial    uint32
	TTL       uint32
	Refresh   uint32
	Retry     uint32
	Expire    uint32
	Minimum   uint32
}

// NewSOATemplate builds the template for a run started at the given time.
// The serial is the run's UTC epoch second and is shared by every domain.
func NewSOATemplate(cfg *config.Config, started time.Time) SOATemplate {
	return SOATemplate{
		PrimaryNS: cfg.PrimaryNS,
		Mailbox:   EncodeMailbox(cfg.ContactEmail),
		Serial:    uint32(started.UTC().Unix()),
		TTL:       cfg.SOA.TTL,
		Refresh:   cfg.SOA.Refresh,
		Retry:     cfg.SOA.Retry,
		Expire:    cfg.SOA.Expire,
		Minimum:   cfg.SOA.Minimum,
	}
}

// Record returns the SOA record for domain.
func (t SOATemplate) Record(domain string) *dns.SOA {
	return &dns.SOA{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(domain),
			Rrtype: dns.TypeSOA,
			Class:  dns.ClassINET,
			Ttl:    t.TTL,
		},
		Ns:      dns.Fqdn(t.PrimaryNS),
		Mbox:    t.Mailbox,
		Serial:  t.Serial,
		Refresh: t.Refresh,
		Retry:   t.Retry,
		Expire:  t.Expire,
		Minttl:  t.Minimum,
	}
}

// Text renders the SOA record for domain in presentation format:
//
//	example.com.	300	IN	SOA	dns1.stabletransit.com. it.example.com. 1700000000 21600 3600 1814400 300
func (t SOATemplate) Text(domain string) string {
	return t.Record(domain).String()
}

// EncodeMailbox converts a contact address into the SOA RNAME form:
// the "@" becomes a label separator and the name is made fully qualified.
// e.g. "it@example.com" → "it.example.com."
// Values already in mailbox form are only qualified.
func EncodeMailbox(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return dns.Fqdn(strings.Replace(email, "@", ".", 1))
}
