package ldproxy

import (
	"errors"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

var (
	// ErrNoToken is reported for every query when no access token was
	// configured. This is the offline mode, not a failure of the service.
	ErrNoToken = errors.New("No API token configured")

	// ErrNoData is reported when a response carries no lines beyond the
	// header.
	ErrNoData = errors.New("No data returned")
)

// ParseResponse parses the tab-delimited LDproxy response for target. The
// header line is discarded. Lines that are too short, or whose R2 or Dprime
// are not numeric, are skipped individually.
func ParseResponse(text, target string) ProxyResult {
	result := ProxyResult{TargetRSID: target}

	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		result.Err = ErrNoData
		return result
	}

	for _, line := range lines[1:] {
		if proxy, ok := parseLine(line); ok {
			result.Proxies = append(result.Proxies, proxy)
		}
	}

	return result
}

func parseLine(line string) (ProxyVariant, bool) {
	cols := strings.Split(line, "\t")
	if len(cols) < MinColumns {
		return ProxyVariant{}, false
	}

	r2, err := strconv.ParseFloat(strings.TrimSpace(cols[ColR2]), 64)
	if err != nil {
		return ProxyVariant{}, false
	}

	dPrime, err := strconv.ParseFloat(strings.TrimSpace(cols[ColDPrime]), 64)
	if err != nil {
		return ProxyVariant{}, false
	}

	proxy := ProxyVariant{
		RSID:    strings.TrimSpace(cols[ColRSID]),
		Coord:   strings.TrimSpace(cols[ColCoord]),
		Alleles: strings.TrimSpace(cols[ColAlleles]),
		DPrime:  dPrime,
		R2:      r2,
	}

	// Informational columns never invalidate the line.
	if maf, err := strconv.ParseFloat(strings.TrimSpace(cols[ColMAF]), 64); err == nil {
		proxy.MAF = null.FloatFrom(maf)
	}
	if dist, err := strconv.ParseInt(strings.TrimSpace(cols[ColDistance]), 10, 64); err == nil {
		proxy.Distance = null.IntFrom(dist)
	}

	return proxy, true
}
