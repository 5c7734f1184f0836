package proxyfilter

import (
	"github.com/carbocation/ldmapper/ldproxy"
)

// DefaultMinR2 trusts only proxies in perfect LD with their target.
const DefaultMinR2 = 1.0

// FilteredResult holds the proxies of one target that survived filtering, in
// their original relative order. ExcludedCount counts only proxies that met the
// R2 threshold but were blocklisted.
type FilteredResult struct {
	TargetRSID    string
	Proxies       []ldproxy.ProxyVariant
	ExcludedCount int
}

func (f FilteredResult) Count() int {
	return len(f.Proxies)
}

// Filter keeps proxies with R2 >= MinR2 whose rsID is not blocklisted.
type Filter struct {
	MinR2     float64
	Blocklist map[string]struct{}
}

// New returns a Filter. A nil blocklist excludes nothing.
func New(minR2 float64, blocklist map[string]struct{}) *Filter {
	if blocklist == nil {
		blocklist = make(map[string]struct{})
	}

	return &Filter{
		MinR2:     minR2,
		Blocklist: blocklist,
	}
}

func (f *Filter) Filter(result ldproxy.ProxyResult) FilteredResult {
	out := FilteredResult{
		TargetRSID: result.TargetRSID,
		Proxies:    make([]ldproxy.ProxyVariant, 0, len(result.Proxies)),
	}

	for _, proxy := range result.Proxies {
		if proxy.R2 < f.MinR2 {
			continue
		}

		if _, blocked := f.Blocklist[proxy.RSID]; blocked {
			out.ExcludedCount++
			continue
		}

		out.Proxies = append(out.Proxies, proxy)
	}

	return out
}

// FilterBatch filters each result independently, one output per input.
func (f *Filter) FilterBatch(results []ldproxy.ProxyResult) []FilteredResult {
	out := make([]FilteredResult, 0, len(results))
	for _, result := range results {
		out = append(out, f.Filter(result))
	}

	return out
}
