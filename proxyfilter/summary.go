package proxyfilter

import (
	"fmt"

	"github.com/carbocation/ldmapper/ldproxy"
	"github.com/montanaflynn/stats"
	"gopkg.in/guregu/null.v3"
)

// TargetSummary describes what happened to one target on its way through the
// query and filter stages. The R2 statistics describe all proxies returned for
// the target, before filtering, and are null when none were returned.
type TargetSummary struct {
	TargetRSID string
	Error      string
	Returned   int
	Perfect    int
	Kept       int
	Excluded   int
	MeanR2     null.Float
	MedianR2   null.Float
	MaxR2      null.Float
}

// Summarize pairs each query result with its filtered counterpart, which must
// be in the same order (as FilterBatch produces).
func Summarize(results []ldproxy.ProxyResult, filtered []FilteredResult) ([]TargetSummary, error) {
	if len(results) != len(filtered) {
		return nil, fmt.Errorf("Summarize: %d query results but %d filtered results", len(results), len(filtered))
	}

	out := make([]TargetSummary, 0, len(results))
	for i, result := range results {
		if result.TargetRSID != filtered[i].TargetRSID {
			return nil, fmt.Errorf("Summarize: result %d is for %s but filtered result is for %s", i, result.TargetRSID, filtered[i].TargetRSID)
		}

		s := TargetSummary{
			TargetRSID: result.TargetRSID,
			Returned:   len(result.Proxies),
			Perfect:    len(result.PerfectProxies()),
			Kept:       filtered[i].Count(),
			Excluded:   filtered[i].ExcludedCount,
		}
		if result.Err != nil {
			s.Error = result.Err.Error()
		}

		r2s := R2Values(result)
		if len(r2s) > 0 {
			// The stats package only errors on empty input.
			mean, _ := stats.Mean(r2s)
			median, _ := stats.Median(r2s)
			max, _ := stats.Max(r2s)
			s.MeanR2 = null.FloatFrom(mean)
			s.MedianR2 = null.FloatFrom(median)
			s.MaxR2 = null.FloatFrom(max)
		}

		out = append(out, s)
	}

	return out, nil
}

// R2Values returns the R2 of every proxy in result.
func R2Values(result ldproxy.ProxyResult) stats.Float64Data {
	out := make(stats.Float64Data, 0, len(result.Proxies))
	for _, p := range result.Proxies {
		out = append(out, p.R2)
	}

	return out
}
