// Package dryrun provides a DNS provider that writes rewritten zones to a
// local directory instead of importing them, so a migration can be
// reviewed before it is run against the real provider.
package dryrun

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	miekgdns "github.com/miekg/dns"

	"github.com/yuriy-kovalchuk/zone-importer/internal/dns"
)

func init() {
	dns.Register("dryrun", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements dns.Provider by saving zones to disk.
type Provider struct {
	outputDir string
	timeout   time.Duration
	log       logr.Logger
}

// New creates a dry-run provider.
// Required settings: output_dir (created if missing).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	outputDir := settings["output_dir"]
	if outputDir == "" {
		return nil, fmt.Errorf("dryrun: missing required setting 'output_dir'")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("dryrun: create output dir: %w", err)
	}
	return &Provider{outputDir: outputDir, log: log}, nil
}

// SetTimeout bounds parsing and saving of each zone. Zero means no bound.
func (p *Provider) SetTimeout(d time.Duration) {
	p.timeout = d
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// ReadOnly marks the provider as leaving zone files in place.
func (p *Provider) ReadOnly() bool {
	return true
}

// ImportDomain parses the zone, then saves it as <output_dir>/<zone>.zone.
func (p *Provider) ImportDomain(ctx context.Context, zone string) (*dns.Domain, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		soa     *miekgdns.SOA
		records int
	)
	zp := miekgdns.NewZoneParser(strings.NewReader(zone), ".", "")
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dryrun: parse zone: %w", err)
		}
		records++
		if s, isSOA := rr.(*miekgdns.SOA); isSOA && soa == nil {
			soa = s
		}
	}
	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("dryrun: parse zone: %w", err)
	}
	if soa == nil {
		return nil, fmt.Errorf("dryrun: zone has no SOA record")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dryrun: save zone: %w", err)
	}

	name := dns.TrimDot(soa.Hdr.Name)
	path := filepath.Join(p.outputDir, name+".zone")
	if err := save(path, zone); err != nil {
		return nil, fmt.Errorf("dryrun: %w", err)
	}

	p.log.Info("zone saved", "zone", name, "path", path, "records", records, "serial", soa.Serial)
	return &dns.Domain{Name: name, Serial: soa.Serial, Records: records}, nil
}

// save writes data to a temporary file next to path and renames it into
// place, so readers never see a partial zone.
func save(path, data string) error {
	tmp := fmt.Sprintf("%s.tmp", path)
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
