// Package importer moves zone files from the input directory into the
// DNS provider, one file at a time.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/yuriy-kovalchuk/zone-importer/internal/config"
	"github.com/yuriy-kovalchuk/zone-importer/internal/dns"
	"github.com/yuriy-kovalchuk/zone-importer/internal/runlog"
	"github.com/yuriy-kovalchuk/zone-importer/internal/zonefile"
)

// Stage is the last step a zone file reached while being processed.
type Stage int

const (
	StageRead Stage = iota
	StageRewrite
	StageImport
	StageMove
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageRewrite:
		return "rewrite"
	case StageImport:
		return "import"
	case StageMove:
		return "move"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Result is the outcome of processing one zone file. Err is nil only when
// Stage is StageDone.
type Result struct {
	File     ZoneFile
	Stage    Stage
	Imported *dns.Domain // set once the provider accepted the zone
	Err      error
}

// Unreconciled reports whether the provider accepted the zone but the file
// was left in the input directory.
func (r Result) Unreconciled() bool {
	return r.Imported != nil && r.Err != nil
}

// Summary collects the results of a run.
type Summary struct {
	Results      []Result
	Succeeded    int
	Failed       int
	Unreconciled int
}

// Processed returns the number of zone files handled.
func (s *Summary) Processed() int {
	return len(s.Results)
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch {
	case r.Err == nil:
		s.Succeeded++
	case r.Unreconciled():
		s.Unreconciled++
	default:
		s.Failed++
	}
}

// Importer runs one import batch.
type Importer struct {
	cfg      *config.Config
	provider dns.Provider
	rewriter *zonefile.Rewriter
	run      *runlog.Logger
	log      logr.Logger
	seen     sets.Set[string]
}

// New returns an Importer for a single run. The run log receives one
// Processing line and one outcome line per zone file; log receives
// operational detail.
func New(cfg *config.Config, provider dns.Provider, rewriter *zonefile.Rewriter, run *runlog.Logger, log logr.Logger) *Importer {
	return &Importer{
		cfg:      cfg,
		provider: provider,
		rewriter: rewriter,
		run:      run,
		log:      log,
		seen:     sets.New[string](),
	}
}

// Run processes every zone file in the input directory. Per-file failures
// are recorded in the run log and the summary; only setup failures and
// context cancellation are returned as errors.
func (i *Importer) Run(ctx context.Context) (*Summary, error) {
	files, err := ListZoneFiles(i.cfg.InputDir(), i.cfg.ZoneSuffix)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(i.cfg.ProcessedDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating processed directory: %w", err)
	}

	i.log.Info("starting import", "input", i.cfg.InputDir(), "files", len(files), "serial", i.rewriter.Serial(), "runlog", i.run.Path())

	summary := &Summary{}
	for n, f := range files {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import interrupted after %d of %d files: %w", n, len(files), err)
		}
		summary.add(i.ProcessFile(ctx, f))
	}

	i.log.Info("import finished", "processed", summary.Processed(), "succeeded", summary.Succeeded,
		"failed", summary.Failed, "unreconciled", summary.Unreconciled)
	return summary, nil
}

// ProcessFile reads, rewrites, imports and moves a single zone file and
// records the outcome in the run log.
func (i *Importer) ProcessFile(ctx context.Context, f ZoneFile) Result {
	i.run.Processing(f.Domain)

	res := i.process(ctx, f)
	switch {
	case res.Err == nil:
		i.run.Success(f.Domain)
		i.log.Info("zone imported", "domain", f.Domain, "id", res.Imported.ID, "records", res.Imported.Records)
	case res.Unreconciled():
		i.run.Unreconciled(f.Domain, res.Err)
		i.log.Error(res.Err, "zone imported but file not moved, it will be imported again by the next run", "domain", f.Domain)
	default:
		i.run.Failure(f.Domain, res.Err)
		i.log.Info("zone skipped", "domain", f.Domain, "stage", res.Stage.String(), "error", res.Err.Error())
	}
	return res
}

func (i *Importer) process(ctx context.Context, f ZoneFile) Result {
	res := Result{File: f, Stage: StageRead}
	if i.seen.Has(f.Domain) {
		res.Err = ErrDuplicateDomain
		return res
	}
	i.seen.Insert(f.Domain)

	if !registrable(f.Domain) {
		i.log.Info("zone is not a registrable domain, the provider may reject it", "domain", f.Domain)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		res.Err = &ReadError{Path: f.Path, Err: err}
		return res
	}

	res.Stage = StageRewrite
	zone, err := i.rewriter.Rewrite(string(data), f.Domain)
	if err != nil {
		res.Err = err
		return res
	}
	i.log.V(1).Info("zone rewritten", "domain", f.Domain, "bytes", len(zone))

	res.Stage = StageImport
	imported, err := i.provider.ImportDomain(ctx, zone)
	if err != nil {
		res.Err = &ImportError{Domain: f.Domain, Err: err}
		return res
	}
	if imported == nil {
		imported = &dns.Domain{Name: f.Domain}
	}
	res.Imported = imported

	if dns.IsReadOnly(i.provider) {
		res.Stage = StageDone
		return res
	}

	res.Stage = StageMove
	dest := filepath.Join(i.cfg.ProcessedDir(), f.Name)
	if err := os.Rename(f.Path, dest); err != nil {
		res.Err = &MoveError{From: f.Path, To: dest, Err: err}
		return res
	}

	res.Stage = StageDone
	return res
}
