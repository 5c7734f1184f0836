package proxyfilter

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/carbocation/ldmapper/ldproxy"
	"gopkg.in/guregu/null.v3"
)

func TestSummarize(t *testing.T) {
	results := []ldproxy.ProxyResult{
		makeResult(),
		{TargetRSID: "rs1", Err: ldproxy.ErrNoToken},
	}
	f := New(1.0, map[string]struct{}{"rs200": {}})

	summaries, err := Summarize(results, f.FilterBatch(results))
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	s := summaries[0]
	if s.Returned != 4 || s.Perfect != 2 || s.Kept != 1 || s.Excluded != 1 || s.Error != "" {
		t.Errorf("Unexpected summary %+v", s)
	}
	if !near(s.MeanR2.Float64, 0.8625) || !near(s.MedianR2.Float64, 0.975) || !near(s.MaxR2.Float64, 1.0) {
		t.Errorf("Unexpected R2 statistics %+v", s)
	}

	s = summaries[1]
	if s.Error != "No API token configured" || s.MeanR2.Valid || s.Returned != 0 {
		t.Errorf("Unexpected summary %+v", s)
	}
}

func TestSummarizeMismatch(t *testing.T) {
	if _, err := Summarize([]ldproxy.ProxyResult{makeResult()}, nil); err == nil {
		t.Error("Expected an error for mismatched lengths")
	}
	if _, err := Summarize([]ldproxy.ProxyResult{makeResult()}, []FilteredResult{{TargetRSID: "rs1"}}); err == nil {
		t.Error("Expected an error for mismatched targets")
	}
}

func TestWriteProxies(t *testing.T) {
	filtered := []FilteredResult{
		{TargetRSID: "rs10", Proxies: []ldproxy.ProxyVariant{
			{RSID: "rs11", Coord: "chr6:12345", Alleles: "A/G", MAF: null.FloatFrom(0.15), Distance: null.IntFrom(0), DPrime: 1, R2: 1},
		}},
		{TargetRSID: "rs20"},
		{TargetRSID: "rs30", Proxies: []ldproxy.ProxyVariant{
			{RSID: "rs31", DPrime: 0.5, R2: 1},
		}},
	}

	var buf bytes.Buffer
	if err := WriteProxies(&buf, filtered); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	expected := []string{
		"target_rsid\trsid\tcoord\talleles\tmaf\tdistance\td_prime\tr2",
		"rs10\trs11\tchr6:12345\tA/G\t0.15\t0\t1\t1",
		"rs30\trs31\t\t\tNA\tNA\t0.5\t1",
	}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %q", len(expected), len(lines), lines)
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
