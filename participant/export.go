package participant

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/carbocation/ldmapper"
	"github.com/carbocation/pfx"
)

const (
	yes = "Yes"
	no  = "No"
)

// ExportCSV writes the availability matrix to path. See WriteCSV.
func ExportCSV(result MappingResult, path string) error {
	f, err := os.Create(ldmapper.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}

	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, result); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return f.Close()
}

// WriteCSV writes a header of participant_id followed by each target, then one
// row per participant, sorted by participant ID, with Yes or No per target.
func WriteCSV(w io.Writer, result MappingResult) error {
	cw := csv.NewWriter(w)

	header := append([]string{DefaultParticipantCol}, result.TargetRSIDs...)
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	pids := make([]string, 0, len(result.Availability))
	for pid := range result.Availability {
		pids = append(pids, pid)
	}
	sort.Strings(pids)

	row := make([]string, len(header))
	for _, pid := range pids {
		row[0] = pid
		for i, target := range result.TargetRSIDs {
			row[i+1] = no
			if result.Availability[pid][target] {
				row[i+1] = yes
			}
		}
		if err := cw.Write(row); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ReadCSV parses an availability matrix written by WriteCSV.
func ReadCSV(r io.Reader) (MappingResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return MappingResult{}, pfx.Err(fmt.Errorf("Header parsing error: %w", err))
	}
	if header[0] != DefaultParticipantCol {
		return MappingResult{}, fmt.Errorf("expected the first column to be %s, found %s", DefaultParticipantCol, header[0])
	}

	result := MappingResult{
		TargetRSIDs:  append([]string{}, header[1:]...),
		Availability: make(map[string]map[string]bool),
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return MappingResult{}, pfx.Err(err)
		}

		pid := row[0]
		if _, dup := result.Availability[pid]; dup {
			return MappingResult{}, fmt.Errorf("line %d: participant %s appears more than once", line, pid)
		}

		avail := make(map[string]bool, len(result.TargetRSIDs))
		for i, target := range result.TargetRSIDs {
			switch row[i+1] {
			case yes:
				avail[target] = true
			case no:
				avail[target] = false
			default:
				return MappingResult{}, fmt.Errorf("line %d: value for %s/%s is %q, expected %s or %s", line, pid, target, row[i+1], yes, no)
			}
		}
		result.Availability[pid] = avail
	}

	result.ParticipantCount = len(result.Availability)

	return result, nil
}
