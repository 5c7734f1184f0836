package participant

import (
	"errors"
	"fmt"

	"github.com/carbocation/ldmapper/proxyfilter"
)

// ErrDuplicateTarget is returned when the same target rsID appears more than
// once among the filtered results handed to the mapper.
var ErrDuplicateTarget = errors.New("duplicate target rsID")

// MappingResult is the participant-by-target availability matrix. Every
// participant has an entry for every target in TargetRSIDs.
type MappingResult struct {
	TargetRSIDs      []string
	ParticipantCount int
	Availability     map[string]map[string]bool
}

// ParticipantAvailability returns target => available for one participant. An
// unknown participant yields an empty map.
func (m MappingResult) ParticipantAvailability(pid string) map[string]bool {
	if avail, exists := m.Availability[pid]; exists {
		return avail
	}

	return map[string]bool{}
}

// qualifyingSet is a target's own rsID plus the rsIDs of its surviving
// proxies. Carrying any one of them makes a participant available for the
// target.
type qualifyingSet struct {
	target  string
	ordered []string // target first, then proxies in filtered order
	members map[string]struct{}
}

func qualifyingSets(filtered []proxyfilter.FilteredResult) ([]qualifyingSet, error) {
	seen := make(map[string]struct{}, len(filtered))
	out := make([]qualifyingSet, 0, len(filtered))

	for _, fr := range filtered {
		if _, dup := seen[fr.TargetRSID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTarget, fr.TargetRSID)
		}
		seen[fr.TargetRSID] = struct{}{}

		qs := qualifyingSet{
			target:  fr.TargetRSID,
			ordered: []string{fr.TargetRSID},
			members: map[string]struct{}{fr.TargetRSID: {}},
		}
		for _, p := range fr.Proxies {
			if _, exists := qs.members[p.RSID]; exists {
				continue
			}
			qs.members[p.RSID] = struct{}{}
			qs.ordered = append(qs.ordered, p.RSID)
		}

		out = append(out, qs)
	}

	return out, nil
}

// Map computes availability for every loaded participant and every target. A
// participant is available for a target when they carry the target itself or
// any of its filtered proxies.
func (m *Mapper) Map(filtered []proxyfilter.FilteredResult) (MappingResult, error) {
	sets, err := qualifyingSets(filtered)
	if err != nil {
		return MappingResult{}, err
	}

	result := MappingResult{
		TargetRSIDs:      make([]string, 0, len(sets)),
		ParticipantCount: len(m.variants),
		Availability:     make(map[string]map[string]bool, len(m.variants)),
	}
	for _, qs := range sets {
		result.TargetRSIDs = append(result.TargetRSIDs, qs.target)
	}

	for pid, variants := range m.variants {
		avail := make(map[string]bool, len(sets))
		for _, qs := range sets {
			avail[qs.target] = intersects(variants, qs.members)
		}
		result.Availability[pid] = avail
	}

	return result, nil
}

func intersects(a, b map[string]struct{}) bool {
	// Iterate over the smaller set
	if len(b) < len(a) {
		a, b = b, a
	}

	for key := range a {
		if _, exists := b[key]; exists {
			return true
		}
	}

	return false
}
