// Package config reads ldmapper's TOML configuration. Every value has a
// default, so a file only needs to name what differs.
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/ldmapper/ldproxy"
	"github.com/carbocation/ldmapper/participant"
	"github.com/carbocation/ldmapper/proxyfilter"
	"github.com/carbocation/pfx"
)

type Config struct {
	LDlink       LDlink       `toml:"ldlink"`
	Filter       Filter       `toml:"filter"`
	Participants Participants `toml:"participants"`
	Output       Output       `toml:"output"`
	BigQuery     BigQuery     `toml:"bigquery"`
}

type LDlink struct {
	Token            string  `toml:"token"`
	Population       string  `toml:"population"`
	GenomeBuild      string  `toml:"genome_build"`
	Window           int     `toml:"window"`
	RateLimitSeconds float64 `toml:"rate_limit_seconds"`
	TimeoutSeconds   float64 `toml:"timeout_seconds"`
	Endpoint         string  `toml:"endpoint"`
	Cache            string  `toml:"cache"` // Path to a SQLite response cache
}

type Filter struct {
	MinR2     float64 `toml:"min_r2"`
	Blocklist string  `toml:"blocklist"`
}

type Participants struct {
	File           string `toml:"file"`
	ParticipantCol string `toml:"participant_col"`
	VariantCol     string `toml:"variant_col"`
	Delimiter      string `toml:"delimiter"` // Empty to detect
}

type Output struct {
	Matrix  string `toml:"matrix"`
	Long    string `toml:"long"`
	Proxies string `toml:"proxies"`
}

type BigQuery struct {
	Project string `toml:"project"`
	Dataset string `toml:"dataset"`
	Table   string `toml:"table"`
}

func Default() Config {
	return Config{
		LDlink: LDlink{
			Population:       ldproxy.DefaultPopulation,
			GenomeBuild:      ldproxy.DefaultGenomeBuild,
			Window:           ldproxy.DefaultWindow,
			RateLimitSeconds: ldproxy.DefaultRateLimit.Seconds(),
			TimeoutSeconds:   ldproxy.DefaultTimeout.Seconds(),
			Endpoint:         ldproxy.DefaultEndpoint,
		},
		Filter: Filter{
			MinR2: proxyfilter.DefaultMinR2,
		},
		Participants: Participants{
			ParticipantCol: participant.DefaultParticipantCol,
			VariantCol:     participant.DefaultVariantCol,
		},
		Output: Output{
			Matrix: "participant_availability.csv",
		},
	}
}

// Load decodes the file at path on top of Default. Unknown keys are an error,
// since they are almost always typos.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, pfx.Err(err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return cfg, fmt.Errorf("%s: unrecognized keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Validate checks the values that can be checked without touching the network
// or the filesystem.
func (c Config) Validate() error {
	switch c.LDlink.GenomeBuild {
	case "grch37", "grch38", "grch38_high_coverage":
	default:
		return fmt.Errorf("genome_build must be grch37, grch38 or grch38_high_coverage, got %q", c.LDlink.GenomeBuild)
	}

	if c.LDlink.Population == "" {
		return fmt.Errorf("population is required")
	}
	if c.LDlink.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.LDlink.Window)
	}
	if c.LDlink.RateLimitSeconds < 0 {
		return fmt.Errorf("rate_limit_seconds must not be negative, got %v", c.LDlink.RateLimitSeconds)
	}
	if c.LDlink.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %v", c.LDlink.TimeoutSeconds)
	}

	if c.Filter.MinR2 < 0 || c.Filter.MinR2 > 1 {
		return fmt.Errorf("min_r2 must be within [0, 1], got %v", c.Filter.MinR2)
	}

	if c.Participants.File == "" {
		return fmt.Errorf("a participant file is required")
	}
	if c.Participants.ParticipantCol == "" || c.Participants.VariantCol == "" {
		return fmt.Errorf("participant_col and variant_col are required")
	}
	if _, err := c.Participants.DelimiterRune(); err != nil {
		return err
	}

	if c.Output.Matrix == "" {
		return fmt.Errorf("an output matrix path is required")
	}

	bq := c.BigQuery
	if set := bq.Project != "" || bq.Dataset != "" || bq.Table != ""; set && (bq.Project == "" || bq.Dataset == "" || bq.Table == "") {
		return fmt.Errorf("bigquery project, dataset and table must be set together")
	}

	return nil
}

// DelimiterRune interprets the configured delimiter. 0 means "detect".
func (p Participants) DelimiterRune() (rune, error) {
	switch p.Delimiter {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	}

	if utf8.RuneCountInString(p.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", p.Delimiter)
	}

	r, _ := utf8.DecodeRuneInString(p.Delimiter)
	return r, nil
}

func (c Config) ProxyOptions() ldproxy.Options {
	opts := ldproxy.DefaultOptions()
	opts.Token = c.LDlink.Token
	opts.Population = c.LDlink.Population
	opts.GenomeBuild = c.LDlink.GenomeBuild
	opts.Window = c.LDlink.Window
	opts.RateLimit = seconds(c.LDlink.RateLimitSeconds)
	opts.Timeout = seconds(c.LDlink.TimeoutSeconds)
	opts.Endpoint = c.LDlink.Endpoint

	return opts
}

func (c Config) MapperOptions() (participant.Options, error) {
	delim, err := c.Participants.DelimiterRune()
	if err != nil {
		return participant.Options{}, err
	}

	opts := participant.DefaultOptions()
	opts.ParticipantCol = c.Participants.ParticipantCol
	opts.VariantCol = c.Participants.VariantCol
	opts.Delimiter = delim

	return opts, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
