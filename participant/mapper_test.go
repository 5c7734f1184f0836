package participant

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/carbocation/ldmapper/ldproxy"
	"github.com/carbocation/ldmapper/proxyfilter"
)

func writeParticipantFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "participants.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func makeFilteredResults() []proxyfilter.FilteredResult {
	return []proxyfilter.FilteredResult{
		{
			TargetRSID: "rs10",
			Proxies: []ldproxy.ProxyVariant{
				{RSID: "rs11", R2: 1.0},
				{RSID: "rs12", R2: 1.0},
			},
		},
		{
			TargetRSID: "rs20",
			Proxies:    []ldproxy.ProxyVariant{{RSID: "rs21", R2: 1.0}},
		},
	}
}

func TestLoadAndParticipants(t *testing.T) {
	path := writeParticipantFile(t, "participant_id,variant_id\nP001,rs11\nP001,rs99\nP002,rs21\nP001,rs11\n")

	m, err := NewMapper(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Participants(); !reflect.DeepEqual(got, []string{"P001", "P002"}) {
		t.Errorf("Unexpected participants %v", got)
	}
	if !m.Carries("P001", "rs99") || m.Carries("P002", "rs11") || m.Carries("P404", "rs11") {
		t.Error("Unexpected variant sets")
	}
	if len(m.variants["P001"]) != 2 {
		t.Errorf("Expected repeated observations to be idempotent, got %v", m.variants["P001"])
	}
}

func TestLoadTabDelimitedCustomColumns(t *testing.T) {
	contents := "sourceid\trecordid\tsampleid\tvariant\r\n" +
		"UKBB\tREC001\tPART001\trs7782915\r\n" +
		"UKBB\tREC002\tPART002\t\r\n" + // Missing variant
		"UKBB\tREC003\t  \trs1\r\n" + // Missing participant
		"UKBB\tREC004\r\n" + // Short row
		"UKBB\tREC005\tPART003\t rs2 \r\n"

	opts := DefaultOptions()
	opts.ParticipantCol = "sampleid"
	opts.VariantCol = "variant"

	m, err := NewMapperFromReader(strings.NewReader(contents), opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Participants(); !reflect.DeepEqual(got, []string{"PART001", "PART003"}) {
		t.Errorf("Unexpected participants %v", got)
	}
	if !m.Carries("PART003", "rs2") {
		t.Error("Expected fields to be trimmed")
	}
}

func TestLoadExplicitDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = ';'

	m, err := NewMapperFromReader(strings.NewReader("participant_id;variant_id\nP001;rs1\n"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Carries("P001", "rs1") {
		t.Error("Expected P001 to carry rs1")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := NewMapper(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions()); err == nil {
		t.Error("Expected an error for a missing file")
	}

	for _, contents := range []string{
		"",
		"participant_id,sample\nP001,rs1\n",
		"sample,variant_id\nP001,rs1\n",
	} {
		if _, err := NewMapperFromReader(strings.NewReader(contents), DefaultOptions()); err == nil {
			t.Errorf("%q: expected an error", contents)
		}
	}
}

func TestMapAvailability(t *testing.T) {
	path := writeParticipantFile(t, "participant_id,variant_id\nP001,rs11\nP002,rs21\nP003,rs99\nP004,rs10\n")
	m, err := NewMapper(path, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	mapping, err := m.Map(makeFilteredResults())
	if err != nil {
		t.Fatal(err)
	}

	if mapping.ParticipantCount != 4 {
		t.Errorf("Expected 4 participants, got %d", mapping.ParticipantCount)
	}
	if !reflect.DeepEqual(mapping.TargetRSIDs, []string{"rs10", "rs20"}) {
		t.Errorf("Unexpected targets %v", mapping.TargetRSIDs)
	}

	for _, v := range []struct {
		PID       string
		Target    string
		Available bool
	}{
		{"P001", "rs10", true}, // Via proxy rs11
		{"P001", "rs20", false},
		{"P002", "rs10", false},
		{"P002", "rs20", true}, // Via proxy rs21
		{"P003", "rs10", false},
		{"P003", "rs20", false},
		{"P004", "rs10", true}, // Carries the target itself
		{"P004", "rs20", false},
	} {
		got, exists := mapping.Availability[v.PID][v.Target]
		if !exists {
			t.Errorf("%s/%s: missing entry", v.PID, v.Target)
		} else if got != v.Available {
			t.Errorf("%s/%s: expected %v, got %v", v.PID, v.Target, v.Available, got)
		}
	}

	for pid, avail := range mapping.Availability {
		if len(avail) != len(mapping.TargetRSIDs) {
			t.Errorf("%s: expected %d targets, got %d", pid, len(mapping.TargetRSIDs), len(avail))
		}
	}
}

func TestMapNoTargets(t *testing.T) {
	m, err := NewMapperFromReader(strings.NewReader("participant_id,variant_id\nP001,rs1\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	mapping, err := m.Map(nil)
	if err != nil {
		t.Fatal(err)
	}
	if mapping.ParticipantCount != 1 || len(mapping.ParticipantAvailability("P001")) != 0 {
		t.Errorf("Unexpected mapping %+v", mapping)
	}
}

func TestMapDuplicateTargets(t *testing.T) {
	m, err := NewMapperFromReader(strings.NewReader("participant_id,variant_id\nP001,rs11\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	filtered := append(makeFilteredResults(), proxyfilter.FilteredResult{TargetRSID: "rs10"})
	if _, err := m.Map(filtered); !errors.Is(err, ErrDuplicateTarget) {
		t.Errorf("Expected ErrDuplicateTarget, got %v", err)
	}
	if _, err := m.Observations(filtered); !errors.Is(err, ErrDuplicateTarget) {
		t.Errorf("Expected ErrDuplicateTarget, got %v", err)
	}
}

func TestParticipantAvailability(t *testing.T) {
	m, err := NewMapperFromReader(strings.NewReader("participant_id,variant_id\nP001,rs11\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	mapping, err := m.Map(makeFilteredResults())
	if err != nil {
		t.Fatal(err)
	}

	avail := mapping.ParticipantAvailability("P001")
	if !avail["rs10"] || avail["rs20"] {
		t.Errorf("Unexpected availability %v", avail)
	}

	missing := mapping.ParticipantAvailability("NOPE")
	if missing == nil || len(missing) != 0 {
		t.Errorf("Expected an empty map, got %v", missing)
	}

	if got := (MappingResult{}).ParticipantAvailability("P001"); got == nil || len(got) != 0 {
		t.Errorf("Expected an empty map from a zero MappingResult, got %v", got)
	}
}
