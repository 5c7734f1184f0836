package main

import (
	"bufio"
	"log"
	"strings"

	"github.com/carbocation/ldmapper"
)

// readTargets combines the comma-delimited rsids with the rsIDs listed in the
// file at path (one per line; blank lines and #comments ignored). Order is
// kept and repeats are dropped.
func readTargets(rsids, path string) ([]string, error) {
	out := make([]string, 0)
	seen := make(map[string]struct{})

	add := func(rsid string) {
		rsid = strings.TrimSpace(rsid)
		if rsid == "" || strings.HasPrefix(rsid, "#") {
			return
		}
		if _, exists := seen[rsid]; exists {
			log.Println("Ignoring repeated target", rsid)
			return
		}
		seen[rsid] = struct{}{}
		out = append(out, rsid)
	}

	for _, rsid := range strings.Split(rsids, ",") {
		add(rsid)
	}

	if path == "" {
		return out, nil
	}

	r, err := ldmapper.OpenInput(path, nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		add(scanner.Text())
	}

	return out, scanner.Err()
}
