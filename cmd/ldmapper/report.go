package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/ldmapper/ldproxy"
	"github.com/carbocation/ldmapper/proxyfilter"
	"gopkg.in/guregu/null.v3"
)

func printSummary(w io.Writer, summaries []proxyfilter.TargetSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "target\treturned\tperfect\tkept\tblocklisted\tmean_r2\tmedian_r2\tmax_r2\terror")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			s.TargetRSID, s.Returned, s.Perfect, s.Kept, s.Excluded,
			nullFloatFormatter(s.MeanR2), nullFloatFormatter(s.MedianR2), nullFloatFormatter(s.MaxR2),
			s.Error)
	}

	return tw.Flush()
}

func printHistogram(w io.Writer, results []ldproxy.ProxyResult) error {
	r2s := make([]float64, 0)
	for _, result := range results {
		r2s = append(r2s, proxyfilter.R2Values(result)...)
	}

	if len(r2s) == 0 {
		_, err := fmt.Fprintln(w, "No proxies were returned; nothing to plot.")
		return err
	}

	fmt.Fprintf(w, "R2 of all %d returned proxies:\n", len(r2s))

	// The number of buckets is arbitrary.
	hist := histogram.Hist(10, r2s)

	return histogram.Fprint(w, hist, histogram.Linear(40))
}

func nullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return "NA"
	}

	return strconv.FormatFloat(n.Float64, 'f', 3, 64)
}
