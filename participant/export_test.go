package participant

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestExportCSV(t *testing.T) {
	m, err := NewMapperFromReader(strings.NewReader("participant_id,variant_id\nP002,rs21\nP001,rs11\n"), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	mapping, err := m.Map(makeFilteredResults())
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "output.csv")
	if err := ExportCSV(mapping, out); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	expected := [][]string{
		{"participant_id", "rs10", "rs20"},
		{"P001", "Yes", "No"},
		{"P002", "No", "Yes"},
	}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Expected %v, got %v", expected, rows)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	contents := "participant_id\tvariant_id\n" +
		"P003\trs99\nP001\trs11\nP002\trs21\nP002\trs10\nP004\trs12\n"
	m, err := NewMapperFromReader(strings.NewReader(contents), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	mapping, err := m.Map(makeFilteredResults())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, mapping); err != nil {
		t.Fatal(err)
	}

	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parsed, mapping) {
		t.Errorf("Round trip mismatch:\nexpected %+v\ngot      %+v", mapping, parsed)
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, contents := range []string{
		"",
		"sample,rs10\nP001,Yes\n",
		"participant_id,rs10\nP001,Maybe\n",
		"participant_id,rs10\nP001,Yes\nP001,No\n",
		"participant_id,rs10\nP001\n",
	} {
		if _, err := ReadCSV(strings.NewReader(contents)); err == nil {
			t.Errorf("%q: expected an error", contents)
		}
	}
}
