package ldmapper

import (
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// Candidate delimiters, in tie-breaking order.
var delimiterCandidates = []rune{',', '\t', ';', '|'}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values of a CSV-like file, given its header line. The candidate that occurs
// most often in the header wins; ties go to the earlier candidate in
// delimiterCandidates. If no candidate occurs at all, the go-csv detector is
// consulted before settling on a comma.
func DetermineDelimiter(header string) rune {
	best, bestCount := rune(0), 0
	for _, candidate := range delimiterCandidates {
		if n := strings.Count(header, string(candidate)); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	if bestCount > 0 {
		return best
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(strings.NewReader(header), '"')
	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}
