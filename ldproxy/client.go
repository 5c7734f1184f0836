package ldproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carbocation/pfx"
)

const (
	DefaultEndpoint    = "https://ldlink.nih.gov/LDlinkRest/ldproxy"
	DefaultPopulation  = "GBR"
	DefaultGenomeBuild = "grch38"
	DefaultWindow      = 500000
	DefaultRateLimit   = time.Second
	DefaultTimeout     = 30 * time.Second
)

// Options configures a Client. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Token is the LDlink access token. When empty, the client runs offline
	// and every query reports ErrNoToken.
	Token string

	Population  string // Reference population code, e.g., GBR
	GenomeBuild string // grch37 or grch38
	Window      int    // Search window in base pairs

	// RateLimit is slept after every successful request.
	RateLimit time.Duration

	Endpoint string
	Timeout  time.Duration // Per-request

	// Optional
	HTTPClient *http.Client
	Cache      *Cache
	Verbose    bool
}

func DefaultOptions() Options {
	return Options{
		Population:  DefaultPopulation,
		GenomeBuild: DefaultGenomeBuild,
		Window:      DefaultWindow,
		RateLimit:   DefaultRateLimit,
		Endpoint:    DefaultEndpoint,
		Timeout:     DefaultTimeout,
	}
}

// Client queries the LDlink LDproxy service. Calls are made one at a time.
type Client struct {
	opts  Options
	http  *http.Client
	sleep func(time.Duration)
}

func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		opts:  opts,
		http:  hc,
		sleep: time.Sleep,
	}
}

// Query fetches the proxies of a single variant. It never panics and never
// returns an error directly: failures are reported on ProxyResult.Err. After a
// successful request, Query sleeps for the configured rate limit.
func (c *Client) Query(rsid string) ProxyResult {
	if c.opts.Token == "" {
		return ProxyResult{TargetRSID: rsid, Err: ErrNoToken}
	}

	key := c.cacheKey(rsid)
	if c.opts.Cache != nil {
		body, found, err := c.opts.Cache.Get(key)
		if err != nil {
			log.Println(pfx.Err(err))
		} else if found {
			if c.opts.Verbose {
				log.Println("Using cached LDproxy response for", rsid)
			}
			return ParseResponse(body, rsid)
		}
	}

	body, err := c.fetch(rsid)
	if err != nil {
		return ProxyResult{TargetRSID: rsid, Err: pfx.Err(fmt.Errorf("%s: %w", rsid, err))}
	}

	if c.opts.Cache != nil {
		if err := c.opts.Cache.Put(key, body); err != nil {
			log.Println(pfx.Err(err))
		}
	}

	c.sleep(c.opts.RateLimit)

	return ParseResponse(body, rsid)
}

// QueryBatch queries each rsid in order and returns one result per rsid. A
// failure for one rsid never stops the batch. ctx is only checked between
// queries; if it is done, the results gathered so far are returned along with
// ctx.Err().
func (c *Client) QueryBatch(ctx context.Context, rsids []string) ([]ProxyResult, error) {
	out := make([]ProxyResult, 0, len(rsids))
	for i, rsid := range rsids {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if c.opts.Verbose {
			log.Printf("Querying LDproxy for %s (%d/%d)\n", rsid, i+1, len(rsids))
		}

		out = append(out, c.Query(rsid))
	}

	return out, nil
}

func (c *Client) cacheKey(rsid string) CacheKey {
	return CacheKey{
		RSID:        rsid,
		Population:  c.opts.Population,
		GenomeBuild: c.opts.GenomeBuild,
		Window:      c.opts.Window,
	}
}

func (c *Client) requestURL(rsid string) (*url.URL, error) {
	u, err := url.Parse(c.opts.Endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q is not an absolute URL", c.opts.Endpoint)
	}

	q := url.Values{}
	q.Set("var", rsid)
	q.Set("pop", c.opts.Population)
	q.Set("r2_d", "r2")
	q.Set("window", strconv.Itoa(c.opts.Window))
	q.Set("genome_build", c.opts.GenomeBuild)
	q.Set("token", c.opts.Token)
	u.RawQuery = q.Encode()

	return u, nil
}

func (c *Client) fetch(rsid string) (string, error) {
	u, err := c.requestURL(rsid)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Get(u.String())
	if err != nil {
		return "", c.redact(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.redact(err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", fmt.Errorf("HTTP status %d: %s", resp.StatusCode, snippet)
	}

	return string(body), nil
}

// redact keeps the access token out of transport error messages, which
// otherwise embed the full request URL.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(c.opts.Token), "REDACTED")
	}

	return err
}
