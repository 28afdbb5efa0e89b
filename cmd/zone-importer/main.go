package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	ctrllog "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/manager/signals"

	"github.com/yuriy-kovalchuk/zone-importer/internal/config"
	"github.com/yuriy-kovalchuk/zone-importer/internal/dns"
	_ "github.com/yuriy-kovalchuk/zone-importer/internal/dns/providers"
	"github.com/yuriy-kovalchuk/zone-importer/internal/importer"
	"github.com/yuriy-kovalchuk/zone-importer/internal/runlog"
	"github.com/yuriy-kovalchuk/zone-importer/internal/zonefile"
)

var Version = "dev"

func main() {
	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrllog.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := ctrllog.Log.WithName("setup")

	log.Info("starting zone-importer", "version", Version)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}
	log.Info("loaded config", "base_dir", cfg.BaseDir, "provider", cfg.Provider)

	started := time.Now().UTC()

	provider, err := dns.NewProvider(cfg.Provider, ctrllog.Log.WithName("dns-"+cfg.Provider), cfg.Settings)
	if err != nil {
		return fmt.Errorf("unable to create DNS provider: %w", err)
	}
	provider.SetTimeout(cfg.Timeout)

	runLog, err := runlog.Open(cfg.BaseDir, started)
	if err != nil {
		return fmt.Errorf("unable to create run log: %w", err)
	}
	log.Info("writing run log", "path", runLog.Path())

	rewriter := zonefile.NewRewriter(zonefile.NewSOATemplate(cfg, started))
	imp := importer.New(cfg, provider, rewriter, runLog, ctrllog.Log.WithName("importer"))

	summary, runErr := imp.Run(signals.SetupSignalHandler())
	if err := runLog.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return fmt.Errorf("import run: %w", runErr)
	}

	if summary.Unreconciled > 0 {
		log.Info("some zones were imported but not moved, check the run log before the next run",
			"unreconciled", summary.Unreconciled, "runlog", runLog.Path())
	}
	return nil
}
