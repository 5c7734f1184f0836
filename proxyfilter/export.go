package proxyfilter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// ProxyRecord is one row of the tab-delimited proxy table.
type ProxyRecord struct {
	TargetRSID string `csv:"target_rsid"`
	RSID       string `csv:"rsid"`
	Coord      string `csv:"coord"`
	Alleles    string `csv:"alleles"`
	MAF        string `csv:"maf"`
	Distance   string `csv:"distance"`
	DPrime     string `csv:"d_prime"`
	R2         string `csv:"r2"`
}

// ProxyRecords flattens filtered results into table rows, targets in order.
// Absent informational values are written as NA.
func ProxyRecords(filtered []FilteredResult) []*ProxyRecord {
	out := make([]*ProxyRecord, 0)
	for _, fr := range filtered {
		for _, p := range fr.Proxies {
			rec := &ProxyRecord{
				TargetRSID: fr.TargetRSID,
				RSID:       p.RSID,
				Coord:      p.Coord,
				Alleles:    p.Alleles,
				MAF:        "NA",
				Distance:   "NA",
				DPrime:     formatFloat(p.DPrime),
				R2:         formatFloat(p.R2),
			}
			if p.MAF.Valid {
				rec.MAF = formatFloat(p.MAF.Float64)
			}
			if p.Distance.Valid {
				rec.Distance = strconv.FormatInt(p.Distance.Int64, 10)
			}
			out = append(out, rec)
		}
	}

	return out
}

// WriteProxies writes every surviving proxy as a tab-delimited table with a
// header row.
func WriteProxies(w io.Writer, filtered []FilteredResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := gocsv.MarshalCSV(ProxyRecords(filtered), gocsv.NewSafeCSVWriter(cw)); err != nil {
		return pfx.Err(err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
