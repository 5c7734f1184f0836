// ldmapper finds LD proxies for a list of target variants via LDlink, keeps the
// trustworthy ones, and reports which participants carry each target or one of
// its proxies.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	_ "github.com/carbocation/ldmapper/compileinfoprint"
	"github.com/carbocation/ldmapper/config"
	"github.com/carbocation/pfx"
)

func main() {
	var configPath, rsids, targetsPath string
	var verbose, showHistogram bool

	cfg := config.Default()

	flag.StringVar(&configPath, "config", "", "Optional TOML configuration file. Flags override its values.")
	flag.StringVar(&rsids, "rsids", "", "Comma-delimited target rsIDs.")
	flag.StringVar(&targetsPath, "targets", "", "File with one target rsID per line. Combined with -rsids.")

	flag.StringVar(&cfg.LDlink.Token, "token", "", "LDlink API token. Without one, no queries are made and every target is mapped on its own rsID only.")
	flag.StringVar(&cfg.LDlink.Population, "population", cfg.LDlink.Population, "LDlink reference population.")
	flag.StringVar(&cfg.LDlink.GenomeBuild, "build", cfg.LDlink.GenomeBuild, "Genome build: grch37, grch38 or grch38_high_coverage.")
	flag.IntVar(&cfg.LDlink.Window, "window", cfg.LDlink.Window, "Search window around each target, in base pairs.")
	flag.Float64Var(&cfg.LDlink.RateLimitSeconds, "rate_limit", cfg.LDlink.RateLimitSeconds, "Seconds to wait after each successful LDlink call.")
	flag.StringVar(&cfg.LDlink.Cache, "cache", "", "Optional SQLite file caching LDlink responses across runs.")

	flag.Float64Var(&cfg.Filter.MinR2, "min_r2", cfg.Filter.MinR2, "Minimum R2 for a proxy to be trusted.")
	flag.StringVar(&cfg.Filter.Blocklist, "blocklist", "", "Optional file of rsIDs (one per line) to never use as proxies.")

	flag.StringVar(&cfg.Participants.File, "participants", "", "Delimited file with one participant/variant observation per row. May be compressed or on gs://.")
	flag.StringVar(&cfg.Participants.ParticipantCol, "participant_col", cfg.Participants.ParticipantCol, "Participant ID column.")
	flag.StringVar(&cfg.Participants.VariantCol, "variant_col", cfg.Participants.VariantCol, "Variant ID column.")
	flag.StringVar(&cfg.Participants.Delimiter, "delimiter", "", "Participant file delimiter (e.g., comma, tab, |). Detected from the header if unset.")

	flag.StringVar(&cfg.Output.Matrix, "out", cfg.Output.Matrix, "Output path for the participant x target Yes/No matrix.")
	flag.StringVar(&cfg.Output.Long, "long_out", "", "Optional output path for the long-format (participant, target, proxy used) table.")
	flag.StringVar(&cfg.Output.Proxies, "proxies_out", "", "Optional output path for the table of proxies that survived filtering.")

	flag.StringVar(&cfg.BigQuery.Project, "bq_project", "", "Optional BigQuery project to upload the long-format table to.")
	flag.StringVar(&cfg.BigQuery.Dataset, "bq_dataset", "", "BigQuery dataset. Required with -bq_project.")
	flag.StringVar(&cfg.BigQuery.Table, "bq_table", "", "BigQuery table. Required with -bq_project.")

	flag.BoolVar(&showHistogram, "histogram", false, "Print a histogram of the R2 of every proxy returned.")
	flag.BoolVar(&verbose, "verbose", false, "Log progress of each query and of the participant file load.")
	flag.Parse()

	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalln(err)
		}
		cfg = overrideWithFlags(fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		log.Println(err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	targets, err := readTargets(rsids, targetsPath)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	if len(targets) < 1 {
		fmt.Fprintln(os.Stderr, "Please provide at least one target rsID with -rsids or -targets")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, targets, verbose, showHistogram); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	log.Println("ldmapper completed")
}

// overrideWithFlags copies the values of explicitly set flags from flagCfg
// onto fileCfg.
func overrideWithFlags(fileCfg, flagCfg config.Config) config.Config {
	out := fileCfg

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "token":
			out.LDlink.Token = flagCfg.LDlink.Token
		case "population":
			out.LDlink.Population = flagCfg.LDlink.Population
		case "build":
			out.LDlink.GenomeBuild = flagCfg.LDlink.GenomeBuild
		case "window":
			out.LDlink.Window = flagCfg.LDlink.Window
		case "rate_limit":
			out.LDlink.RateLimitSeconds = flagCfg.LDlink.RateLimitSeconds
		case "cache":
			out.LDlink.Cache = flagCfg.LDlink.Cache
		case "min_r2":
			out.Filter.MinR2 = flagCfg.Filter.MinR2
		case "blocklist":
			out.Filter.Blocklist = flagCfg.Filter.Blocklist
		case "participants":
			out.Participants.File = flagCfg.Participants.File
		case "participant_col":
			out.Participants.ParticipantCol = flagCfg.Participants.ParticipantCol
		case "variant_col":
			out.Participants.VariantCol = flagCfg.Participants.VariantCol
		case "delimiter":
			out.Participants.Delimiter = flagCfg.Participants.Delimiter
		case "out":
			out.Output.Matrix = flagCfg.Output.Matrix
		case "long_out":
			out.Output.Long = flagCfg.Output.Long
		case "proxies_out":
			out.Output.Proxies = flagCfg.Output.Proxies
		case "bq_project":
			out.BigQuery.Project = flagCfg.BigQuery.Project
		case "bq_dataset":
			out.BigQuery.Dataset = flagCfg.BigQuery.Dataset
		case "bq_table":
			out.BigQuery.Table = flagCfg.BigQuery.Table
		}
	})

	return out
}

func needsStorage(paths ...string) bool {
	for _, path := range paths {
		if strings.HasPrefix(path, "gs://") {
			return true
		}
	}

	return false
}
