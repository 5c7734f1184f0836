package ldproxy

import "gopkg.in/guregu/null.v3"

// ProxyVariant is a single variant reported to be in LD with a target. MAF and
// Distance are informational and may be absent.
type ProxyVariant struct {
	RSID     string
	Coord    string
	Alleles  string
	MAF      null.Float
	Distance null.Int // Base pairs from the target
	DPrime   float64
	R2       float64
}

// ProxyResult holds every proxy returned for one target, in response order.
// When Err is set, Proxies may be empty; when it is not, Proxies may still be
// empty.
type ProxyResult struct {
	TargetRSID string
	Proxies    []ProxyVariant
	Err        error
}

func (r ProxyResult) HasProxies() bool {
	return len(r.Proxies) > 0
}

func (r ProxyResult) Failed() bool {
	return r.Err != nil
}

// PerfectProxies returns the proxies in perfect LD (R2 == 1) with the target.
func (r ProxyResult) PerfectProxies() []ProxyVariant {
	out := make([]ProxyVariant, 0)
	for _, p := range r.Proxies {
		if p.R2 == 1.0 {
			out = append(out, p)
		}
	}

	return out
}
