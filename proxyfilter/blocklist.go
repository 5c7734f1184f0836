package proxyfilter

import (
	"bufio"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/ldmapper"
	"github.com/carbocation/pfx"
)

// LoadBlocklist reads a newline-delimited list of rsIDs. Lines are trimmed and
// blank lines are ignored. path may be local or, given a client, a gs:// path;
// compressed files are read transparently. A missing file is an error.
func LoadBlocklist(path string, client *storage.Client) (map[string]struct{}, error) {
	r, err := ldmapper.OpenInput(path, client)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("opening blocklist: %w", err))
	}
	defer r.Close()

	blocklist := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rsid := strings.TrimSpace(scanner.Text())
		if rsid == "" {
			continue
		}
		blocklist[rsid] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(fmt.Errorf("reading blocklist %s: %w", path, err))
	}

	return blocklist, nil
}

// NewFromBlocklistFile builds a Filter whose blocklist is loaded from path.
func NewFromBlocklistFile(path string, minR2 float64, client *storage.Client) (*Filter, error) {
	blocklist, err := LoadBlocklist(path, client)
	if err != nil {
		return nil, err
	}

	return New(minR2, blocklist), nil
}
