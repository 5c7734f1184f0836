package participant

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ldmapper"
	"github.com/carbocation/pfx"
)

const (
	DefaultParticipantCol = "participant_id"
	DefaultVariantCol     = "variant_id"
)

// Options describes the layout of a participant variant file.
type Options struct {
	ParticipantCol string
	VariantCol     string

	// Delimiter of the file. If 0, it is determined from the header line.
	Delimiter rune

	// Storage is only needed to read gs:// paths.
	Storage *storage.Client

	Verbose bool
}

func DefaultOptions() Options {
	return Options{
		ParticipantCol: DefaultParticipantCol,
		VariantCol:     DefaultVariantCol,
	}
}

// Mapper holds, for each participant, the set of variants observed for them.
// The table is loaded once and never modified, so a Mapper may be shared by
// concurrent callers.
type Mapper struct {
	variants map[string]map[string]struct{}
}

// NewMapper loads a delimited participant variant file with one
// (participant, variant) observation per row.
func NewMapper(path string, opts Options) (*Mapper, error) {
	r, err := ldmapper.OpenInput(path, opts.Storage)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("opening participant file: %w", err))
	}
	defer r.Close()

	if opts.Verbose {
		log.Printf("Loading participant variants from %s\n", path)
	}

	m, err := NewMapperFromReader(r, opts)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return m, nil
}

// NewMapperFromReader is like NewMapper but reads from r. Rows missing either
// the participant or the variant are skipped, and repeated observations are
// idempotent.
func NewMapperFromReader(r io.Reader, opts Options) (*Mapper, error) {
	if opts.ParticipantCol == "" {
		opts.ParticipantCol = DefaultParticipantCol
	}
	if opts.VariantCol == "" {
		opts.VariantCol = DefaultVariantCol
	}

	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if strings.TrimSpace(header) == "" {
		return nil, fmt.Errorf("participant file has no header row")
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = ldmapper.DetermineDelimiter(strings.TrimRight(header, "\r\n"))
		if opts.Verbose {
			log.Printf("Determined participant file delimiter to be %q\n", delim)
		}
	}

	fileCSV := csv.NewReader(io.MultiReader(strings.NewReader(header), br))
	fileCSV.Comma = delim
	fileCSV.FieldsPerRecord = -1
	fileCSV.LazyQuotes = true
	fileCSV.ReuseRecord = true

	headRow, err := fileCSV.Read()
	if err != nil {
		return nil, fmt.Errorf("Header parsing error: %w", err)
	}

	pidCol, varCol := -1, -1
	for i, name := range headRow {
		// Tolerate a UTF-8 byte order mark on the first column name.
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case opts.ParticipantCol:
			pidCol = i
		case opts.VariantCol:
			varCol = i
		}
	}
	if pidCol < 0 {
		return nil, fmt.Errorf("participant column '%s' was not found in header %v", opts.ParticipantCol, headRow)
	}
	if varCol < 0 {
		return nil, fmt.Errorf("variant column '%s' was not found in header %v", opts.VariantCol, headRow)
	}

	m := &Mapper{variants: make(map[string]map[string]struct{})}

	var skipped int
	for row := 1; ; row++ {
		if opts.Verbose && row%100000 == 0 {
			log.Println("Saw row", row)
		}

		rec, err := fileCSV.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		if pidCol >= len(rec) || varCol >= len(rec) {
			skipped++
			continue
		}

		pid := strings.TrimSpace(rec[pidCol])
		vid := strings.TrimSpace(rec[varCol])
		if pid == "" || vid == "" {
			skipped++
			continue
		}

		set, exists := m.variants[pid]
		if !exists {
			set = make(map[string]struct{})
			m.variants[pid] = set
		}
		set[vid] = struct{}{}
	}

	if opts.Verbose {
		log.Println("Loaded", len(m.variants), "participants; skipped", skipped, "incomplete rows")
	}

	return m, nil
}

// Participants returns the loaded participant IDs in lexicographic order.
func (m *Mapper) Participants() []string {
	out := make([]string, 0, len(m.variants))
	for pid := range m.variants {
		out = append(out, pid)
	}
	sort.Strings(out)

	return out
}

// Carries reports whether participant pid was observed with variant vid.
func (m *Mapper) Carries(pid, vid string) bool {
	_, exists := m.variants[pid][vid]
	return exists
}
