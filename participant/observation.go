package participant

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/ldmapper/proxyfilter"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

const (
	Present      = "present"
	Absent       = "absent"
	NotAvailable = "NA"
)

// Observation is one participant/target pair in long format. AlternativeRSID
// is the variant that made the target available: the target itself when
// carried, otherwise the first carried proxy in filtered order. It is NA when
// the target is absent.
type Observation struct {
	ParticipantID   string `csv:"participant_id"`
	RSID            string `csv:"rsID"`
	AlternativeRSID string `csv:"alternative_rsid"`
	Status          string `csv:"present_or_absent"`
}

// Observations lists every participant/target pair, participants sorted and
// targets in input order.
func (m *Mapper) Observations(filtered []proxyfilter.FilteredResult) ([]*Observation, error) {
	sets, err := qualifyingSets(filtered)
	if err != nil {
		return nil, err
	}

	pids := m.Participants()
	out := make([]*Observation, 0, len(pids)*len(sets))
	for _, pid := range pids {
		variants := m.variants[pid]
		for _, qs := range sets {
			obs := &Observation{
				ParticipantID:   pid,
				RSID:            qs.target,
				AlternativeRSID: NotAvailable,
				Status:          Absent,
			}
			for _, candidate := range qs.ordered {
				if _, carried := variants[candidate]; carried {
					obs.AlternativeRSID = candidate
					obs.Status = Present
					break
				}
			}
			out = append(out, obs)
		}
	}

	return out, nil
}

// WriteObservations writes observations as a tab-delimited table with a header.
func WriteObservations(w io.Writer, obs []*Observation) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := gocsv.MarshalCSV(obs, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return pfx.Err(err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
