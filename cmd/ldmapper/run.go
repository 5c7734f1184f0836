package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ldmapper"
	"github.com/carbocation/ldmapper/bqexport"
	"github.com/carbocation/ldmapper/config"
	"github.com/carbocation/ldmapper/ldproxy"
	"github.com/carbocation/ldmapper/participant"
	"github.com/carbocation/ldmapper/proxyfilter"
	"github.com/carbocation/pfx"
)

func run(ctx context.Context, cfg config.Config, targets []string, verbose, showHistogram bool) error {
	var gcs *storage.Client
	if needsStorage(cfg.Participants.File, cfg.Filter.Blocklist) {
		var err error
		gcs, err = storage.NewClient(ctx)
		if err != nil {
			return pfx.Err(err)
		}
		defer gcs.Close()
	}

	// Required inputs are read before any rate-limited query is spent.
	mopts, err := cfg.MapperOptions()
	if err != nil {
		return err
	}
	mopts.Storage = gcs
	mopts.Verbose = verbose

	mapper, err := participant.NewMapper(cfg.Participants.File, mopts)
	if err != nil {
		return err
	}
	log.Println("Loaded", len(mapper.Participants()), "participants from", cfg.Participants.File)

	filter := proxyfilter.New(cfg.Filter.MinR2, nil)
	if cfg.Filter.Blocklist != "" {
		filter, err = proxyfilter.NewFromBlocklistFile(cfg.Filter.Blocklist, cfg.Filter.MinR2, gcs)
		if err != nil {
			return err
		}
		log.Println("Loaded", len(filter.Blocklist), "blocklisted rsIDs from", cfg.Filter.Blocklist)
	}

	popts := cfg.ProxyOptions()
	popts.Verbose = verbose
	if cfg.LDlink.Cache != "" {
		cache, err := ldproxy.OpenCache(ldmapper.ExpandHome(cfg.LDlink.Cache))
		if err != nil {
			return err
		}
		defer cache.Close()
		popts.Cache = cache
	}
	if popts.Token == "" {
		log.Println("No LDlink token was provided; targets will be mapped without proxies")
	}

	log.Println("Querying LDlink for", len(targets), "targets")
	results, err := ldproxy.New(popts).QueryBatch(ctx, targets)
	if err != nil {
		return err
	}

	filtered := filter.FilterBatch(results)

	summaries, err := proxyfilter.Summarize(results, filtered)
	if err != nil {
		return err
	}
	if err := printSummary(os.Stderr, summaries); err != nil {
		return err
	}
	if showHistogram {
		if err := printHistogram(os.Stderr, results); err != nil {
			return err
		}
	}

	mapping, err := mapper.Map(filtered)
	if err != nil {
		return err
	}
	if err := participant.ExportCSV(mapping, cfg.Output.Matrix); err != nil {
		return err
	}
	log.Println("Wrote availability for", mapping.ParticipantCount, "participants to", cfg.Output.Matrix)

	if cfg.Output.Proxies != "" {
		if err := writeFile(cfg.Output.Proxies, func(w *bufio.Writer) error {
			return proxyfilter.WriteProxies(w, filtered)
		}); err != nil {
			return err
		}
		log.Println("Wrote filtered proxies to", cfg.Output.Proxies)
	}

	if cfg.Output.Long == "" && cfg.BigQuery.Project == "" {
		return nil
	}

	obs, err := mapper.Observations(filtered)
	if err != nil {
		return err
	}

	if cfg.Output.Long != "" {
		if err := writeFile(cfg.Output.Long, func(w *bufio.Writer) error {
			return participant.WriteObservations(w, obs)
		}); err != nil {
			return err
		}
		log.Println("Wrote", len(obs), "participant/target records to", cfg.Output.Long)
	}

	if cfg.BigQuery.Project != "" {
		if err := bqexport.Upload(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset, cfg.BigQuery.Table, obs); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(w *bufio.Writer) error) error {
	f, err := os.Create(ldmapper.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return pfx.Err(err)
	}

	return f.Close()
}
